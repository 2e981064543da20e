package database

import (
	"log"

	"propertyhub-backend/internal/config"
	"propertyhub-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("Database connected, migration complete.")
}

// Migrate runs schema migration for every model. Shared by the server
// startup and the propctl migrate command (and the sqlite test databases).
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Owner{},
		&models.Property{},
		&models.Unit{},
		&models.Bedroom{},
		&models.Tenant{},
		&models.Lease{},
		&models.Invoice{},
		&models.InsurancePolicy{},
		&models.Message{},
		&models.Ticket{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	// Older databases carried lease status "active" in lowercase. Normalize
	// once so the status filters behave.
	if db.Migrator().HasTable(&models.Lease{}) {
		db.Exec("UPDATE leases SET status = 'Active' WHERE status = 'active'")
	}

	return nil
}
