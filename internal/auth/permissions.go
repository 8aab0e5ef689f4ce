package auth

import "github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"

// Permission is a flat capability token checked by the authorization guards.
// Permissions are never combined or parameterized.
type Permission string

const (
	// PermAll is the wildcard grant meaning "all capabilities".
	// It only ever appears in a role's grant set, never as a query argument.
	PermAll Permission = "*"

	// PermManageUsers allows provisioning, editing and removing admin users.
	PermManageUsers Permission = "manage_users"
	// PermManageSettings allows editing site-wide settings.
	PermManageSettings Permission = "manage_settings"

	// PermManageDepartments allows full control over department pages.
	PermManageDepartments Permission = "manage_departments"
	// PermManageTreatments allows full control over treatment pages.
	PermManageTreatments Permission = "manage_treatments"
	// PermManageBlogs allows full control over blog posts, including deletion.
	PermManageBlogs Permission = "manage_blogs"
	// PermManageVideos allows full control over the video gallery, including deletion.
	PermManageVideos Permission = "manage_videos"

	// PermCreateBlog allows creating new blog posts.
	PermCreateBlog Permission = "create_blog"
	// PermEditBlog allows editing existing blog posts.
	PermEditBlog Permission = "edit_blog"
	// PermCreateVideo allows adding videos to the gallery.
	PermCreateVideo Permission = "create_video"
	// PermEditVideo allows editing existing gallery videos.
	PermEditVideo Permission = "edit_video"

	// PermEditSEO allows editing SEO metadata on any content.
	PermEditSEO Permission = "edit_seo"
)

type permissionSet map[Permission]struct{}

func grants(perms ...Permission) permissionSet {
	set := make(permissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}

	return set
}

// rolePermissions is the static role-permission table. It is built once at
// process start and never mutated, so it is shared lock-free.
// Only the super admin role may hold the wildcard.
var rolePermissions = map[models.Role]permissionSet{ //nolint:gochecknoglobals
	models.RoleSuperAdmin: grants(PermAll),
	models.RoleAdmin: grants(
		PermManageDepartments,
		PermManageTreatments,
		PermManageBlogs,
		PermManageVideos,
		PermCreateBlog,
		PermEditBlog,
		PermCreateVideo,
		PermEditVideo,
		PermEditSEO,
	),
	models.RoleEditor: grants(
		PermCreateBlog,
		PermEditBlog,
		PermCreateVideo,
		PermEditVideo,
	),
	models.RoleSEOManager: grants(
		PermEditSEO,
	),
}

// HasPermission reports whether the given role grants the given permission.
// An absent or unrecognized role grants nothing. A role holding the wildcard
// grants everything. The function is pure and safe to call anywhere a role
// value is already in hand, but a display-side check must never replace the
// server-side guards for mutations.
func HasPermission(role models.Role, permission Permission) bool {
	set, ok := rolePermissions[role]
	if !ok {
		return false
	}

	if _, all := set[PermAll]; all {
		return true
	}

	_, ok = set[permission]

	return ok
}

// PermissionsForRole returns the permissions a role explicitly grants,
// with the wildcard left as-is. The returned slice is a copy.
func PermissionsForRole(role models.Role) []Permission {
	set, ok := rolePermissions[role]
	if !ok {
		return nil
	}

	out := make([]Permission, 0, len(set))
	for p := range set {
		out = append(out, p)
	}

	return out
}
