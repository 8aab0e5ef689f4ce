package auth

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/session"
)

const (
	// ReasonUnauthorized is the failure reason when no session identity exists.
	ReasonUnauthorized = "Unauthorized: no active session"
	// ReasonForbidden is the failure reason when the resolved role lacks the capability.
	ReasonForbidden = "Forbidden: missing capability"
)

// Service resolves the caller's role and enforces permissions.
// It is stateless apart from the database handle: every check re-reads the
// profile row, so a role change is effective on the next request.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Decision is the typed result of a soft permission check.
// Callers must branch on Allowed; a Decision is never an implicit grant.
type Decision struct {
	// Allowed reports whether the caller holds the checked permission.
	Allowed bool
	// Role is the resolved role, RoleNone when no session or profile exists.
	Role models.Role
	// Reason is a human-readable failure message, empty when Allowed.
	Reason string
}

// ResolveRole maps a session ID to the caller's current role.
// It re-reads the session and the profile row on every call; nothing is
// cached between requests. Every failure path (missing session, unreadable
// session blob, missing profile, inactive profile, storage error) collapses
// to RoleNone: resolution fails closed, never open.
func (s *Service) ResolveRole(sessionID string) models.Role {
	identityID := s.resolveIdentity(sessionID)
	if identityID == 0 {
		return models.RoleNone
	}

	var profile models.Profile

	err := s.db.Where("identity_id = ?", identityID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// An identity without a profile authenticates but holds no role.
		return models.RoleNone
	}

	if err != nil {
		log.Error().Err(err).Uint64("identity_id", identityID).Msg("profile lookup failed")
		return models.RoleNone
	}

	if !profile.Active {
		return models.RoleNone
	}

	if !profile.Role.Valid() {
		log.Warn().Uint64("identity_id", identityID).Str("role", string(profile.Role)).
			Msg("profile holds unrecognized role")

		return models.RoleNone
	}

	return profile.Role
}

// AssertPermission performs a soft permission check for the given session.
// Unlike the hard middleware guards it never redirects or writes a response;
// the caller renders the Reason inline on failure.
func (s *Service) AssertPermission(sessionID string, permission Permission) Decision {
	role := s.ResolveRole(sessionID)
	if role == models.RoleNone {
		return Decision{Reason: ReasonUnauthorized}
	}

	if !HasPermission(role, permission) {
		return Decision{Role: role, Reason: ReasonForbidden}
	}

	return Decision{Allowed: true, Role: role}
}

// CurrentProfile returns the profile for the given session, or nil when the
// session does not resolve to a provisioned profile.
func (s *Service) CurrentProfile(sessionID string) *models.Profile {
	identityID := s.resolveIdentity(sessionID)
	if identityID == 0 {
		return nil
	}

	var profile models.Profile
	if err := s.db.Where("identity_id = ?", identityID).First(&profile).Error; err != nil {
		return nil
	}

	return &profile
}

// resolveIdentity reads the session blob and returns the identity ID,
// zero when the session is absent or unreadable.
func (s *Service) resolveIdentity(sessionID string) uint64 {
	if sessionID == "" {
		return 0
	}

	sessData := new(session.Data)
	if err := sessData.Read(sessionID); err != nil {
		log.Debug().Err(err).Msg("session read failed")
		return 0
	}

	return sessData.Identity.ID
}
