package main

import (
	"log"
	"os"

	"quizforge/internal/config"
	"quizforge/internal/database"
	"quizforge/internal/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.NewPostgresDB(cfg.GetDSN())
	if err != nil {
		logger.Get().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = "database/migrations"
	}

	if err := database.RunMigrations(db, dir); err != nil {
		logger.Get().Fatal("Migration failed", zap.Error(err))
	}
}
