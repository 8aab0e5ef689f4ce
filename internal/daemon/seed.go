package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MediCMS-Admin/MediCMS-Admin/internal/auth"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/config"
	"github.com/MediCMS-Admin/MediCMS-Admin/internal/db/models"
)

const (
	seedAdminEmail    = "admin@medicms.local"
	seedAdminPassword = "changeme"
)

// seed provisions the initial super admin account when no profile exists yet,
// so a fresh install can be signed into at all.
func seed(_ *config.Config, db *gorm.DB) {
	var count int64

	db.Model(&models.Profile{}).Count(&count)
	if count > 0 {
		return
	}

	svc := auth.NewService(db)

	_, err := svc.ProvisionUser(auth.ProvisionInput{
		Email:    seedAdminEmail,
		Password: seedAdminPassword,
		FullName: "Administrator",
		Role:     models.RoleSuperAdmin,
		Active:   true,
		Source:   models.AuthSourceLocal,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to seed initial super admin")
		return
	}

	log.Warn().
		Str("email", seedAdminEmail).
		Msg("seeded initial super admin with default password, change it immediately")
}
