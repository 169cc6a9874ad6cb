package database

import (
	"fmt"
	"os"
	"strconv"

	"matka/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the postgres pool from DB_* env vars and optionally runs
// auto-migration when DB_AUTO_MIGRATE is set.
func Connect(log *logrus.Logger) *gorm.DB {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASSWORD")
	name := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, pass, name, port, sslmode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	log.Info("Connected to database")

	autoMigrateEnv := os.Getenv("DB_AUTO_MIGRATE")
	autoMigrate, parseErr := strconv.ParseBool(autoMigrateEnv)
	if parseErr != nil && autoMigrateEnv != "" {
		log.Warnf("Invalid value for DB_AUTO_MIGRATE: %s", autoMigrateEnv)
	}

	if autoMigrate {
		log.Info("Starting auto-migration...")
		if err := Migrate(db); err != nil {
			log.Fatal("Failed to auto-migrate database: ", err)
		}
		log.Info("Auto migration completed")
	}

	return db
}

// SeedRootAdmin makes sure the root admin account exists. Every other
// account descends from it through RegisterAccount.
func SeedRootAdmin(db *gorm.DB, log *logrus.Logger) {
	code := os.Getenv("ADMIN_ROOT_CODE")
	if code == "" {
		code = "admin"
	}
	var count int64
	if err := db.Model(&models.Account{}).
		Where("tier = ?", models.TierAdmin).Count(&count).Error; err != nil {
		log.Fatal("Failed to check for root admin: ", err)
	}
	if count > 0 {
		return
	}
	root := models.Account{
		Code:        code,
		Name:        "root",
		Tier:        models.TierAdmin,
		DealPercent: 100,
		IsActive:    true,
	}
	if err := db.Create(&root).Error; err != nil {
		log.Fatal("Failed to seed root admin: ", err)
	}
	log.Info("Seeded root admin account ", code)
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.LedgerEntry{},
		&models.Market{},
		&models.PayoutRate{},
		&models.Bet{},
		&models.DrawResult{},
		&models.Settlement{},
		&models.SettlementEntry{},
		&models.MemberPnl{},
		&models.AdminAudit{},
	)
}
