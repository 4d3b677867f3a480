package database

import (
	"certledger-backend/internal/models"
	"certledger-backend/internal/pkg/constants"
	"certledger-backend/internal/pkg/validation"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN. PreferSimpleProtocol disables prepared
// statement caching to avoid 42P05 ("prepared statement already exists") when
// using connection poolers (e.g. PgBouncer, Supabase, Render).
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// AutoMigrate runs migrations for all registry models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Token{},
		&models.Certificate{},
		&models.RoleGrant{},
		&models.RegistryEvent{},
	)
}

// SeedOwner grants admin and issuer to the registry owner address if no role
// grants exist yet (the deployer starts in both sets). A second boot is a
// no-op.
func SeedOwner(db *gorm.DB, owner string) error {
	if owner == "" {
		return nil
	}
	if !validation.IsValidRecipient(owner) {
		log.Warn().Str("address", owner).Msg("REGISTRY_OWNER_ADDRESS is not a valid address; skipping seed")
		return nil
	}

	var n int64
	if err := db.Model(&models.RoleGrant{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, role := range []string{constants.RoleAdmin, constants.RoleIssuer} {
			grant := models.RoleGrant{Role: role, Address: owner, GrantedBy: owner}
			if err := tx.Create(&grant).Error; err != nil {
				return err
			}
		}
		log.Info().Str("address", owner).Msg("seeded registry owner with admin and issuer roles")
		return nil
	})
}
