package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/invozen/invoice-extractor/internal/common"
	"github.com/invozen/invoice-extractor/internal/repository"
)

// dbhealth opens the configured results store, pings it and exits.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := common.LoadConfig()
	if cfg.Database.DSN == "" {
		logger.Error("DB_URL is required")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := repository.Open(ctx, cfg.Database.DSN, cfg.Database.DialTimeout, logger)
	if err != nil {
		logger.Error("store open failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("store close failed", "error", cerr)
		}
	}()

	if err := store.HealthCheck(ctx, cfg.Database.HealthTimeout); err != nil {
		logger.Error("store health check failed", "error", err)
		os.Exit(1)
	}
	logger.Info("store health OK")
}
