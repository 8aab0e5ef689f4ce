// Package auth provides authentication and authorization for the application.
//
// # Roles and permissions
//
// Authorization is a static role-based access control model. The role set is
// closed (super_admin, admin, editor, seo_manager) and so is the permission
// set; the role-permission table is an immutable package-level map built at
// process start. The super admin role holds only the wildcard grant, which
// subsumes every permission check; every other role lists its capabilities
// explicitly.
//
// HasPermission is a pure function and may be used in display contexts, but
// it is never the sole gate for a mutation: the server-side guards below
// re-resolve the caller's role from storage on every request.
//
// # Role resolution
//
// Service.ResolveRole maps a session to a role by reading the session blob
// (which carries only the identity) and then querying the profiles table.
// Nothing is cached between requests, so role changes and deactivations take
// effect on the subject's next action. Every resolution failure collapses to
// "no role", so the guards fail closed.
//
// # Guards
//
// Two enforcement styles are provided:
//
//   - Hard guards (RequireRole, RequireSuperAdmin, RequireAnyRole) are Fiber
//     middleware that redirect unauthorized page views to the login page.
//   - The soft guard (Service.AssertPermission) returns a typed Decision so
//     mutation handlers can render an inline error that names the caller's
//     current role.
//
// Neither style accepts a role supplied by the client.
//
// # Authentication providers
//
// LocalProvider authenticates against the local database with Argon2id
// password hashing. LDAPProvider binds against the hospital staff directory.
// OIDCProvider implements the OAuth2/OIDC SSO flow. All three only establish
// identity; the role an identity resolves to always comes from its locally
// provisioned profile row.
//
// # Provisioning
//
// Service.ProvisionUser creates the identity and profile rows for a new
// admin user. The pair is not created transactionally; on profile-insert
// failure the just-created identity is deleted so no orphaned identity
// remains (best-effort compensation, see ProvisionUser).
//
// Example usage:
//
//	authService := auth.NewService(db)
//
//	// Page-level gating
//	app.Get("/admin/user", auth.RequireSuperAdmin(authService), handler)
//
//	// Inline checks inside a mutation handler
//	decision := authService.AssertPermission(c.Cookies("session"), auth.PermEditBlog)
//	if !decision.Allowed {
//	    return renderError(c, decision.Reason, decision.Role)
//	}
package auth
