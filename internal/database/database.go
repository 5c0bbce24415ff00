package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mati-gonz/control-obras-dasco-api/internal/models"
)

// Connect opens a GORM connection against the configured Postgres DSN.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates the schema for all models. Foreign key
// cascade rules (Subgroup→Work CASCADE, Part.SubgroupID and Expense.PartID
// SET NULL) are declared on the model structs.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Work{},
		&models.Subgroup{},
		&models.Part{},
		&models.Expense{},
	)
}
