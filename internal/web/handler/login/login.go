package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/auth"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/config"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/handler"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = "/login"

	// TemplateName is the name of the login template.
	TemplateName = "login"

	// AuthTypeLocal selects username/password authentication against the local database.
	AuthTypeLocal = "local"

	// AuthTypeLDAP selects authentication against the configured LDAP directory.
	AuthTypeLDAP = "ldap"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	localAuth *auth.LocalProvider
	ldapAuth  *auth.LDAPProvider
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New("app or db is nil")
	}

	s.db = db
	s.cfg = cfg

	if cfg.Auth.LocalDB.Enabled {
		s.localAuth = auth.NewLocalProvider(db)
	}

	if cfg.Auth.LDAP.Enabled {
		ldapProvider, err := auth.NewLDAPProvider(&cfg.Auth.LDAP, db)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize LDAP provider, ldap login disabled")
		} else {
			s.ldapAuth = ldapProvider
		}
	}

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// renderData builds the base template data for the login page.
func (s *Service) renderData() fiber.Map {
	return fiber.Map{
		"local_db_enabled": s.cfg.Auth.LocalDB.Enabled,
		"ldap_enabled":     s.ldapAuth != nil,
		"oidc_enabled":     s.cfg.Auth.OIDC.Enabled,
	}
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, s.renderData())
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	var in struct {
		Email    string `form:"email"`
		Password string `form:"password"`
		AuthType string `form:"auth_type"`
	}

	if err := c.BodyParser(&in); err != nil {
		data := s.renderData()
		data["error"] = ErrInvalidFormData.Error()

		return c.Status(fiber.StatusBadRequest).Render(TemplateName, data)
	}

	authType, err := s.pickAuthType(in.AuthType)
	if err != nil {
		data := s.renderData()
		data["error"] = err.Error()

		return c.Status(fiber.StatusBadRequest).Render(TemplateName, data)
	}

	identity, err := s.authenticate(authType, in.Email, in.Password)
	if err != nil {
		log.Info().Str("email", in.Email).Str("auth_type", authType).Err(err).Msg("login failed")

		data := s.renderData()
		data["error"] = ErrInvalidCredentials.Error()

		if errors.Is(err, auth.ErrAccountDisabled) {
			data["error"] = "Account is disabled"
		}

		return c.Status(fiber.StatusUnauthorized).Render(TemplateName, data)
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")

		data := s.renderData()
		data["error"] = ErrInternalServerError.Error()

		return c.Status(fiber.StatusInternalServerError).Render(TemplateName, data)
	}

	userSession := &session.Data{
		Identity: *identity,
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		data := s.renderData()
		data["error"] = ErrInternalServerError.Error()

		return c.Status(fiber.StatusInternalServerError).Render(TemplateName, data)
	}

	// set login cookie
	cookieSettings := &fiber.Cookie{
		Name:     "session",
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	log.Info().Str("email", identity.Email).Str("auth_type", authType).Msg("login succeeded")

	return c.Redirect("/dashboard")
}

// pickAuthType resolves the requested authentication method against what is
// actually available. An empty request falls back to the first enabled method.
func (s *Service) pickAuthType(requested string) (string, error) {
	switch requested {
	case "":
		if s.cfg.Auth.LocalDB.Enabled {
			return AuthTypeLocal, nil
		}

		if s.cfg.Auth.LDAP.Enabled {
			return AuthTypeLDAP, nil
		}

		return "", ErrNoAuthMethod
	case AuthTypeLocal:
		if !s.cfg.Auth.LocalDB.Enabled {
			return "", ErrLocalAuthDisabled
		}

		return AuthTypeLocal, nil
	case AuthTypeLDAP:
		if !s.cfg.Auth.LDAP.Enabled || s.ldapAuth == nil {
			return "", ErrLDAPAuthDisabled
		}

		return AuthTypeLDAP, nil
	default:
		return "", ErrInvalidAuthMethod
	}
}

// authenticate runs the credentials through the selected provider.
func (s *Service) authenticate(authType, email, password string) (*models.Identity, error) {
	switch authType {
	case AuthTypeLocal:
		if s.localAuth == nil {
			return nil, ErrLocalAuthDisabled
		}

		identity, err := s.localAuth.Authenticate(email, password)
		if err != nil {
			if errors.Is(err, auth.ErrAccountDisabled) {
				return nil, err
			}

			return nil, ErrInvalidCredentials
		}

		return identity, nil
	case AuthTypeLDAP:
		if s.ldapAuth == nil {
			return nil, ErrLDAPAuthDisabled
		}

		identity, err := s.ldapAuth.Authenticate(email, password)
		if err != nil {
			return nil, ErrInvalidCredentials
		}

		return identity, nil
	default:
		return nil, ErrInvalidAuthMethod
	}
}
