package database

import (
	"fmt"

	"kitchen_display/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Initialize connects to PostgreSQL.
func Initialize(databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	return Open(postgres.Open(databaseURL), logLevel)
}

// Open connects through any gorm dialector.
func Open(dialector gorm.Dialector, logLevel logger.LogLevel) (*gorm.DB, error) {
	// Configure GORM
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Restaurant{},
		&models.Branch{},
		&models.Table{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
