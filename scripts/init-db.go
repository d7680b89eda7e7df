package main

import (
	"context"

	"kitchen_display/internal/config"
	"kitchen_display/internal/database"
	"kitchen_display/internal/migrations"

	"github.com/MonkyMars/gecho"
	"gorm.io/gorm/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := config.NewLogger(cfg.Environment, false)

	log.Info("Initializing database...")
	db, err := database.Initialize(cfg.DatabaseURL, logger.Warn)
	if err != nil {
		log.Fatal("Failed to connect to database", gecho.Field("error", err))
	}

	if err := migrations.RunMigrations(db, log); err != nil {
		log.Fatal("Failed to migrate database", gecho.Field("error", err))
	}

	if err := migrations.SeedDemoData(context.Background(), db, cfg.DefaultTimezone, log); err != nil {
		log.Fatal("Failed to create demo data", gecho.Field("error", err))
	}

	log.Info("Database initialization completed successfully",
		gecho.Field("username", migrations.DemoManagerUsername),
		gecho.Field("password", migrations.DemoManagerPassword))
}
