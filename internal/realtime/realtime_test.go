package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupBroker starts a miniredis instance and returns a broker backed by it.
func setupBroker(t *testing.T) *Broker {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewBroker(client)
}

func TestDisabledBroker(t *testing.T) {
	b := NewBroker(nil)

	assert.False(t, b.Enabled())

	ver, err := b.Version(context.Background())
	require.NoError(t, err)
	assert.Zero(t, ver)

	// publish on a disabled broker only bumps the local counter
	b.Publish(context.Background(), "blog", "flu-season", ActionCreated)
	assert.Equal(t, int64(1), b.CurrentVersion())

	err = b.Subscribe(context.Background(), func(Event) {})
	assert.ErrorIs(t, err, ErrBrokerDisabled)
}

func TestVersionInitialises(t *testing.T) {
	b := setupBroker(t)
	ctx := context.Background()

	ver, err := b.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ver)

	// stable on repeat
	ver, err = b.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ver)
}

func TestPublishBumpsVersion(t *testing.T) {
	b := setupBroker(t)
	ctx := context.Background()

	_, err := b.Version(ctx)
	require.NoError(t, err)

	b.Publish(ctx, "department", "cardiology", ActionUpdated)
	b.Publish(ctx, "department", "cardiology", ActionUpdated)

	ver, err := b.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), ver)
	assert.Equal(t, int64(3), b.CurrentVersion())
}

func TestSubscribeReceivesEvents(t *testing.T) {
	b := setupBroker(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan Event, 1)
	require.NoError(t, b.Subscribe(ctx, func(ev Event) {
		events <- ev
	}))

	// give the subscriber goroutine a moment to attach
	time.Sleep(50 * time.Millisecond)

	b.Publish(ctx, "blog", "flu-season", ActionCreated)

	select {
	case ev := <-events:
		assert.Equal(t, "blog", ev.Entity)
		assert.Equal(t, "flu-season", ev.Slug)
		assert.Equal(t, ActionCreated, ev.Action)
		assert.Equal(t, int64(1), ev.Version)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}
