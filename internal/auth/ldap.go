package auth

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog/log"

	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
)

// ErrLDAPDisabled is returned when LDAP authentication is disabled via configuration.
var ErrLDAPDisabled = errors.New("ldap authentication is disabled")

// LDAPConfig holds LDAP/Active Directory configuration for authenticating
// hospital staff against the corporate directory.
type LDAPConfig struct {
	// Enabled indicates if LDAP authentication is enabled.
	Enabled bool
	// Host is the LDAP server hostname or IP address.
	Host string
	// Port is the LDAP server port (typically 389 for LDAP, 636 for LDAPS).
	Port int
	// UseSSL enables LDAPS (LDAP over SSL/TLS) on port 636.
	UseSSL bool
	// UseTLS enables StartTLS to upgrade an LDAP connection to TLS.
	UseTLS bool
	// SkipVerify skips TLS certificate verification (insecure, for testing only).
	SkipVerify bool
	// BindDN is the distinguished name to bind with for performing searches.
	BindDN string
	// BindPassword is the password for the bind DN.
	BindPassword string
	// BaseDN is the base distinguished name for user searches.
	BaseDN string
	// UserFilter is the LDAP filter for finding users (e.g., "(mail={email})").
	// The {email} placeholder is replaced with the actual login email.
	UserFilter string
	// EmailAttr is the LDAP attribute containing the email address (e.g., "mail").
	EmailAttr string
	// DisplayNameAttr is the LDAP attribute containing the display name (e.g., "cn").
	DisplayNameAttr string
	// Timeout is the connection timeout in seconds.
	Timeout int
}

// LDAPProvider handles LDAP authentication.
//
// LDAP establishes who the caller is; the role still comes from the locally
// provisioned profile row. Directory groups are deliberately not synced: the
// role set here is closed and assigned per profile by a manage_users holder.
type LDAPProvider struct {
	config *LDAPConfig
	db     *gorm.DB
}

// NewLDAPProvider creates a new LDAP provider.
func NewLDAPProvider(config *LDAPConfig, db *gorm.DB) (*LDAPProvider, error) {
	if !config.Enabled {
		return nil, ErrLDAPDisabled
	}

	if config.EmailAttr == "" {
		config.EmailAttr = "mail"
	}

	if config.DisplayNameAttr == "" {
		config.DisplayNameAttr = "cn"
	}

	if config.UserFilter == "" {
		config.UserFilter = "(mail={email})"
	}

	if config.Timeout == 0 {
		config.Timeout = 10
	}

	return &LDAPProvider{
		config: config,
		db:     db,
	}, nil
}

// Connect establishes a connection to the LDAP server.
func (p *LDAPProvider) Connect() (*ldap.Conn, error) {
	hostPort := net.JoinHostPort(p.config.Host, strconv.Itoa(p.config.Port))

	var ldapURL string
	if p.config.UseSSL {
		ldapURL = "ldaps://" + hostPort
	} else {
		ldapURL = "ldap://" + hostPort
	}

	var tlsConfig *tls.Config
	if p.config.UseSSL || p.config.UseTLS {
		tlsConfig = &tls.Config{
			InsecureSkipVerify: p.config.SkipVerify, //nolint:gosec // skipping verifying tls is ok
			ServerName:         p.config.Host,
		}
	}

	conn, err := ldap.DialURL(ldapURL, ldap.DialWithTLSConfig(tlsConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP server: %w", err)
	}

	if !p.config.UseSSL && p.config.UseTLS {
		if errStartTLS := conn.StartTLS(tlsConfig); errStartTLS != nil {
			if errClose := conn.Close(); errClose != nil {
				log.Error().Err(errClose).Msg("failed to close LDAP connection")
			}

			return nil, fmt.Errorf("failed to start TLS: %w", errStartTLS)
		}
	}

	if p.config.Timeout > 0 {
		conn.SetTimeout(time.Duration(p.config.Timeout) * time.Second)
	}

	return conn, nil
}

// Authenticate authenticates a staff member against the directory and
// upserts the matching identity.
func (p *LDAPProvider) Authenticate(email, password string) (*models.Identity, error) {
	conn, err := p.Connect()
	if err != nil {
		return nil, err
	}

	defer func() {
		if errClose := conn.Close(); errClose != nil {
			log.Warn().Err(errClose).Msg("failed to close LDAP connection")
		}
	}()

	if errBind := p.bindServiceForSearch(conn); errBind != nil {
		return nil, errBind
	}

	userEntry, errSearch := p.searchUserEntry(conn, email)
	if errSearch != nil {
		return nil, errSearch
	}

	if errAuth := conn.Bind(userEntry.DN, password); errAuth != nil {
		return nil, fmt.Errorf("authentication failed: %w", errAuth)
	}

	directoryEmail := userEntry.GetAttributeValue(p.config.EmailAttr)
	if directoryEmail == "" {
		directoryEmail = email
	}

	return p.upsertLDAPIdentity(userEntry.DN, directoryEmail)
}

// TestConnection verifies the server is reachable and the service account binds.
func (p *LDAPProvider) TestConnection() error {
	conn, err := p.Connect()
	if err != nil {
		return err
	}

	defer func() {
		if errClose := conn.Close(); errClose != nil {
			log.Warn().Err(errClose).Msg("failed to close LDAP connection")
		}
	}()

	return p.bindServiceForSearch(conn)
}

// bindServiceForSearch binds with the configured service account (if provided)
// to perform the user search.
func (p *LDAPProvider) bindServiceForSearch(conn *ldap.Conn) error {
	if p.config.BindDN == "" {
		return nil
	}

	if err := conn.Bind(p.config.BindDN, p.config.BindPassword); err != nil {
		return fmt.Errorf("failed to bind with service account: %w", err)
	}

	return nil
}

// searchUserEntry searches the directory for the given email and returns a single entry.
func (p *LDAPProvider) searchUserEntry(conn *ldap.Conn, email string) (*ldap.Entry, error) {
	userFilter := strings.ReplaceAll(p.config.UserFilter, "{email}", ldap.EscapeFilter(email))
	searchRequest := ldap.NewSearchRequest(
		p.config.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, // Size limit
		p.config.Timeout,
		false,
		userFilter,
		[]string{
			p.config.EmailAttr,
			p.config.DisplayNameAttr,
			"dn",
		},
		nil,
	)

	searchResult, err := conn.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to search for user: %w", err)
	}

	switch len(searchResult.Entries) {
	case 0:
		return nil, ErrIdentityNotFound
	case 1:
		return searchResult.Entries[0], nil
	default:
		return nil, ErrMultipleUsersFound
	}
}

// upsertLDAPIdentity creates or updates an identity record keyed by the directory DN.
func (p *LDAPProvider) upsertLDAPIdentity(userDN, email string) (*models.Identity, error) {
	var identity models.Identity

	err := p.db.Where("external_id = ? AND auth_source = ?", userDN, models.AuthSourceLDAP).
		First(&identity).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		identity = models.Identity{
			Email:      email,
			AuthSource: models.AuthSourceLDAP,
			ExternalID: userDN,
		}

		if err = p.db.Create(&identity).Error; err != nil {
			return nil, fmt.Errorf("failed to create identity: %w", err)
		}

		return &identity, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query identity: %w", err)
	}

	identity.Email = email

	if err = p.db.Save(&identity).Error; err != nil {
		return nil, fmt.Errorf("failed to update identity: %w", err)
	}

	return &identity, nil
}
