package models

// Role represents the access level assigned to an administrative profile.
// The set of roles is closed: an unrecognized value grants nothing.
type Role string

const (
	// RoleNone is the zero value; it represents "no role" and is what an
	// unauthenticated or unprovisioned caller resolves to.
	RoleNone Role = ""
	// RoleSuperAdmin has every capability via the wildcard permission.
	RoleSuperAdmin Role = "super_admin"
	// RoleAdmin manages all site content but not users or site settings.
	RoleAdmin Role = "admin"
	// RoleEditor creates and edits blog posts and videos.
	RoleEditor Role = "editor"
	// RoleSEOManager edits SEO metadata only.
	RoleSEOManager Role = "seo_manager"
)

// AllRoles lists every assignable role, in privilege order.
// RoleNone is deliberately excluded: it is never assigned to a profile.
func AllRoles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleEditor, RoleSEOManager}
}

// Valid reports whether r is one of the assignable roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleEditor, RoleSEOManager:
		return true
	case RoleNone:
		return false
	}

	return false
}
