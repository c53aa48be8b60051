package main

import (
	"log/slog"
	"os"

	"github.com/mwicker/ledgerpass/internal/config"
	"github.com/mwicker/ledgerpass/internal/secrets"
)

// Rotates all three auth secrets and rewrites the env file in place. Every
// outstanding access and refresh token is invalidated; accounts must log in
// again. Run it deliberately.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	store := secrets.NewStore(secrets.Secrets{
		AccessTokenSecret:  cfg.Auth.AccessTokenSecret,
		RefreshTokenSecret: cfg.Auth.RefreshTokenSecret,
		EncryptionKey:      cfg.Auth.EncryptionKey,
	}, config.EnvFile)

	if _, err := store.Rotate(); err != nil {
		logger.Error("secret rotation failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("secrets rotated", slog.String("env_file", config.EnvFile))
}
