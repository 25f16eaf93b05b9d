// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DataFile          string
	BackupDir         string
	ClipboardClear    time.Duration
	MaxUnlockAttempts int
}

// Load reads configuration from environment variables and returns a validated
// Config. A .env file in the working directory is merged in first when
// present. Every variable is optional:
// SECUREVAULT_DATA_FILE (securevault.enc), SECUREVAULT_BACKUP_DIR (backups),
// SECUREVAULT_CLIPBOARD_CLEAR (30s), SECUREVAULT_MAX_UNLOCK_ATTEMPTS (3).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dataFile := "securevault.enc"
	if v, ok := os.LookupEnv("SECUREVAULT_DATA_FILE"); ok {
		dataFile = v
	}

	backupDir := "backups"
	if v, ok := os.LookupEnv("SECUREVAULT_BACKUP_DIR"); ok {
		backupDir = v
	}

	clipboardClear := 30 * time.Second
	if v, ok := os.LookupEnv("SECUREVAULT_CLIPBOARD_CLEAR"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SECUREVAULT_CLIPBOARD_CLEAR has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("SECUREVAULT_CLIPBOARD_CLEAR must be positive, got %q", v)
		}
		clipboardClear = parsed
	}

	maxAttempts := 3
	if v, ok := os.LookupEnv("SECUREVAULT_MAX_UNLOCK_ATTEMPTS"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SECUREVAULT_MAX_UNLOCK_ATTEMPTS has invalid value %q: %w", v, err)
		}
		if parsed < 1 {
			return nil, fmt.Errorf("SECUREVAULT_MAX_UNLOCK_ATTEMPTS must be at least 1, got %d", parsed)
		}
		maxAttempts = parsed
	}

	return &Config{
		DataFile:          dataFile,
		BackupDir:         backupDir,
		ClipboardClear:    clipboardClear,
		MaxUnlockAttempts: maxAttempts,
	}, nil
}
