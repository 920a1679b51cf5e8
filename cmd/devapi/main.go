package main

import (
	"context"
	"log"

	"github.com/godilite/saneamento-dashboard/internal/app"
	"github.com/godilite/saneamento-dashboard/internal/config"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load(".env")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	devAPI, err := app.NewDevAPI(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize dev API", zap.Error(err))
	}

	if err := devAPI.Run(); err != nil {
		logger.Fatal("Dev API exited with error", zap.Error(err))
	}
}
