package database

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Mangarao/aarohi-tms/config"
	"github.com/Mangarao/aarohi-tms/internal/models"
)

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Complaint{},
		&models.StaffExpense{},
		&models.Expense{},
	)
}

// SeedAdmin creates the default admin account when it does not exist yet.
func SeedAdmin(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("username = ?", models.SeedAdminUsername).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		Username:     models.SeedAdminUsername,
		Email:        cfg.SeedAdminEmail,
		FullName:     "System Administrator",
		MobileNumber: cfg.SeedAdminMobile,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.WithField("username", admin.Username).Info("default admin user created")
	return nil
}
