package auth

import "errors"

var (
	// ErrNoIDToken is returned when the OAuth2 token response doesn't contain an ID token.
	// This typically indicates a misconfigured OIDC provider or an incomplete authentication flow.
	ErrNoIDToken = errors.New("no id_token in token response")

	// ErrInvalidOldPassword is returned when the provided old password does not match the
	// identity's current password.
	ErrInvalidOldPassword = errors.New("invalid old password")

	// ErrEmailExists is returned when attempting to provision an identity with an email
	// that already exists.
	ErrEmailExists = errors.New("identity with this email already exists")

	// ErrAccountDisabled is returned when attempting to authenticate a deactivated profile.
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrIdentityNotFound is returned when an identity cannot be found in the database or directory.
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrProfileNotFound is returned when an identity has no paired profile row.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrMultipleUsersFound is returned when a directory query expected one user but found several.
	// This typically indicates a misconfigured LDAP filter or duplicate entries.
	ErrMultipleUsersFound = errors.New("multiple users found")

	// ErrInvalidRole is returned when a provisioning or update request names a role
	// outside the closed role set.
	ErrInvalidRole = errors.New("invalid role")
)
