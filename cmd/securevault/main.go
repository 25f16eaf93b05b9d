package main

import (
	"log/slog"
	"os"

	"github.com/bhavyashah81/SecureVault/internal/adapter/driven/sysclip"
	"github.com/bhavyashah81/SecureVault/internal/adapter/driven/vaultfile"
	"github.com/bhavyashah81/SecureVault/internal/adapter/driving/cli"
	"github.com/bhavyashah81/SecureVault/internal/application"
	"github.com/bhavyashah81/SecureVault/internal/config"
	"github.com/bhavyashah81/SecureVault/internal/password"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Keep slog below Warn quiet: Info lines would interleave with the
	// interactive prompts.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	// 1. Load configuration (defaults overridable via env vars / .env).
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 2. Wire the file store and clipboard into the vault service.
	store := vaultfile.New(cfg.DataFile, cfg.BackupDir)
	svc := application.NewVaultService(store, store)

	// 3. Run the interactive session until save-and-exit.
	app := cli.NewApp(svc, sysclip.New(), password.New(), os.Stdin, os.Stdout, cfg.ClipboardClear, cfg.MaxUnlockAttempts)
	return app.Run()
}
