package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
)

// loginPath is where the hard guards send unauthorized page views.
// Kept local to avoid an import cycle with the login handler package.
const loginPath = "/login"

// LocalsRole is the fiber.Locals key under which the hard guards store the
// resolved role for templates and downstream handlers.
const LocalsRole = "CurrentRole"

// RequireRole creates Fiber middleware that hard-gates a page behind a role
// allow-list. The role is resolved fresh on every request; a caller whose
// session resolves to no role, or to a role outside the set, is redirected
// to the login page. The resolved role is never taken from the request.
func RequireRole(svc *Service, roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		role := svc.ResolveRole(c.Cookies("session"))
		if role == models.RoleNone {
			return c.Redirect(loginPath)
		}

		if _, ok := allowed[role]; !ok {
			log.Warn().Str("role", string(role)).Str("path", c.Path()).
				Msg("role not in allowed set")

			return c.Redirect(loginPath)
		}

		c.Locals(LocalsRole, role)

		return c.Next()
	}
}

// RequireSuperAdmin hard-gates a page to the super admin role.
func RequireSuperAdmin(svc *Service) fiber.Handler {
	return RequireRole(svc, models.RoleSuperAdmin)
}

// RequireAnyRole hard-gates a page to any assignable role, i.e. any
// provisioned, active admin user.
func RequireAnyRole(svc *Service) fiber.Handler {
	return RequireRole(svc, models.AllRoles()...)
}

// RequirePermission creates Fiber middleware that requires a specific
// permission. Unlike the page-level RequireRole it answers with HTTP status
// codes instead of a redirect, for routes called from scripts or forms.
func RequirePermission(svc *Service, permission Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision := svc.AssertPermission(c.Cookies("session"), permission)
		if !decision.Allowed {
			if decision.Role == models.RoleNone {
				return c.Status(fiber.StatusUnauthorized).SendString(decision.Reason)
			}

			log.Warn().Str("role", string(decision.Role)).Str("permission", string(permission)).
				Msg("caller lacks required permission")

			return c.Status(fiber.StatusForbidden).SendString(decision.Reason)
		}

		c.Locals(LocalsRole, decision.Role)

		return c.Next()
	}
}

// AddRoleToLocals is Fiber middleware that resolves the caller's role and
// exposes it (plus a permission predicate) to templates for display-only
// gating. It never blocks a request: rendering decisions are advisory and
// every mutation is separately guarded server-side.
func AddRoleToLocals(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := svc.ResolveRole(c.Cookies("session"))
		if role == models.RoleNone {
			return c.Next()
		}

		c.Locals(LocalsRole, role)
		c.Locals("hasPermission", func(perm string) bool {
			return HasPermission(role, Permission(perm))
		})

		return c.Next()
	}
}

// RoleFromLocals returns the role stored by an upstream guard, RoleNone when
// no guard ran.
func RoleFromLocals(c *fiber.Ctx) models.Role {
	if role, ok := c.Locals(LocalsRole).(models.Role); ok {
		return role
	}

	return models.RoleNone
}
