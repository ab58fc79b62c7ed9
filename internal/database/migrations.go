package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ranznz/wage-survey/internal/models"
	"github.com/ranznz/wage-survey/pkg/crypto"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Submission{},
		&models.RateLine{},
	)
}

// BootstrapUser describes the optional staff account seeded on first start.
// Seeded accounts always carry the forced-change flag so the initial password
// cannot be used for exports.
type BootstrapUser struct {
	Email    string
	Password string
}

// AutoMigrateAndSeed is the convenience helper used during application start-up.
func AutoMigrateAndSeed(db *gorm.DB, bootstrap BootstrapUser) error {
	if db == nil {
		return errors.New("nil database handle")
	}

	if err := AutoMigrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := SeedBootstrapUser(db, bootstrap); err != nil {
		return fmt.Errorf("seed bootstrap user: %w", err)
	}

	return nil
}

// SeedBootstrapUser inserts the configured staff account when it does not
// exist yet. An empty configuration is a no-op: accounts are normally
// provisioned out of band.
func SeedBootstrapUser(db *gorm.DB, bootstrap BootstrapUser) error {
	email := strings.ToLower(strings.TrimSpace(bootstrap.Email))
	if email == "" || bootstrap.Password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("LOWER(email) = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := crypto.HashPassword(bootstrap.Password)
	if err != nil {
		return err
	}

	return db.Create(&models.User{
		Email:              email,
		PasswordHash:       hash,
		MustChangePassword: true,
	}).Error
}
