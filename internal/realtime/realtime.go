// Package realtime publishes content change events over Redis pub/sub.
//
// Every admin mutation of public content bumps a global content version and
// broadcasts an event, so other instances and edge caches can refresh
// rendered pages without polling the database.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	versionKey   = "content:version"
	eventChannel = "content.events"
)

// Actions describing what happened to an entity.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ErrBrokerDisabled is returned by Subscribe when no Redis client is configured.
var ErrBrokerDisabled = errors.New("realtime broker is disabled")

// Event describes a single content change.
type Event struct {
	// Entity is the content type, e.g. "department", "blog", "video".
	Entity string `json:"entity"`
	// Slug identifies the changed record where the entity has one.
	Slug string `json:"slug,omitempty"`
	// Action is one of created, updated or deleted.
	Action string `json:"action"`
	// Version is the global content version after this change.
	Version int64 `json:"version"`
}

// Broker wraps Redis based content change notification with versioning.
// A nil client degrades the broker to a purely local version counter:
// publishes still bump the counter, nothing leaves the process.
type Broker struct {
	client *redis.Client

	// localVersion mirrors the last seen content version. It is the
	// authoritative version when no Redis client is configured.
	localVersion atomic.Int64
}

// NewBroker instantiates the broker. Client may be nil to disable it.
func NewBroker(client *redis.Client) *Broker {
	return &Broker{client: client}
}

// Enabled reports whether the broker has a backing Redis client.
func (b *Broker) Enabled() bool {
	return b != nil && b.client != nil
}

// Version returns the current content version, initialising when missing.
func (b *Broker) Version(ctx context.Context) (int64, error) {
	if !b.Enabled() {
		return 0, nil
	}

	ver, err := b.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := b.client.Set(ctx, versionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	return ver, nil
}

// CurrentVersion returns the last content version seen by this process.
// Public handlers use it for cache validation headers.
func (b *Broker) CurrentVersion() int64 {
	if b == nil {
		return 0
	}

	return b.localVersion.Load()
}

// Publish bumps the content version and broadcasts the event.
// Errors are logged, not returned: a dead broker must never block a save.
func (b *Broker) Publish(ctx context.Context, entity, slug, action string) {
	if !b.Enabled() {
		if b != nil {
			b.localVersion.Add(1)
		}

		return
	}

	ver, err := b.client.Incr(ctx, versionKey).Result()
	if err != nil {
		log.Error().Err(err).Str("entity", entity).Msg("realtime: version bump failed")
		return
	}

	b.localVersion.Store(ver)

	payload, err := json.Marshal(Event{
		Entity:  entity,
		Slug:    slug,
		Action:  action,
		Version: ver,
	})
	if err != nil {
		log.Error().Err(err).Str("entity", entity).Msg("realtime: marshal event failed")
		return
	}

	if err := b.client.Publish(ctx, eventChannel, payload).Err(); err != nil {
		log.Error().Err(err).Str("entity", entity).Msg("realtime: publish failed")
	}
}

// Subscribe delivers content events to handler until ctx is cancelled.
// Malformed payloads are dropped.
func (b *Broker) Subscribe(ctx context.Context, handler func(Event)) error {
	if !b.Enabled() {
		return ErrBrokerDisabled
	}

	pubsub := b.client.Subscribe(ctx, eventChannel)

	go func() {
		defer func() { _ = pubsub.Close() }()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Warn().Err(err).Msg("realtime: dropping malformed event")
					continue
				}

				if ev.Version > b.localVersion.Load() {
					b.localVersion.Store(ev.Version)
				}

				handler(ev)
			}
		}
	}()

	return nil
}
