// Package vaultfile persists the vault as a single encrypted file with
// timestamped backups taken before every overwrite.
package vaultfile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/bhavyashah81/SecureVault/internal/crypto"
	"github.com/bhavyashah81/SecureVault/internal/domain/model"
	"github.com/bhavyashah81/SecureVault/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.VaultStore   = (*Store)(nil)
	_ driven.ExportWriter = (*Store)(nil)
)

const backupTimeFormat = "20060102_150405"

// Store reads and writes the encrypted vault file. Every successful save
// first copies the previous blob into the backup directory under a
// timestamped name that is never reused.
type Store struct {
	dataFile  string
	backupDir string
	now       func() time.Time
}

// New creates a Store persisting to dataFile with backups under backupDir.
func New(dataFile, backupDir string) *Store {
	return &Store{
		dataFile:  dataFile,
		backupDir: backupDir,
		now:       time.Now,
	}
}

// Exists reports whether the vault file is present on disk.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.dataFile)
	return err == nil
}

// Load reads the vault file and decrypts it with password. Decryption
// failures surface crypto.ErrWrongPasswordOrCorrupt; the caller cannot tell
// a wrong password from a corrupted file.
func (s *Store) Load(password string) (model.Vault, error) {
	blob, err := os.ReadFile(s.dataFile)
	if err != nil {
		return model.Vault{}, fmt.Errorf("read vault file: %w", err)
	}

	plaintext, err := crypto.Decrypt(string(blob), password)
	if err != nil {
		return model.Vault{}, fmt.Errorf("decrypt vault: %w", err)
	}

	return decode(plaintext, s.now), nil
}

// Save backs up the current blob, then encodes, encrypts and atomically
// writes the vault. Backup failures are logged and never abort the save.
func (s *Store) Save(vault model.Vault, password string) error {
	s.backupCurrent()

	blob, err := crypto.Encrypt(encode(vault), password)
	if err != nil {
		return fmt.Errorf("encrypt vault: %w", err)
	}

	if err := atomic.WriteFile(s.dataFile, strings.NewReader(blob)); err != nil {
		return fmt.Errorf("write vault file: %w", err)
	}
	return nil
}

// WriteExport writes a plaintext export report.
func (s *Store) WriteExport(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// backupCurrent copies the existing vault blob into the backup directory.
// Best effort: every failure is logged and swallowed so a broken backup
// never blocks saving. Existing backups are never overwritten; a second
// save within the same second gets a numeric suffix.
func (s *Store) backupCurrent() {
	current, err := os.ReadFile(s.dataFile)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	if err != nil {
		slog.Warn("vault backup skipped", "error", err)
		return
	}

	if err := os.MkdirAll(s.backupDir, 0o700); err != nil {
		slog.Warn("vault backup skipped", "error", err)
		return
	}

	base := "securevault_" + s.now().Format(backupTimeFormat)
	path := filepath.Join(s.backupDir, base+".enc")
	for n := 1; ; n++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, fs.ErrExist) {
			path = filepath.Join(s.backupDir, fmt.Sprintf("%s_%d.enc", base, n))
			continue
		}
		if err != nil {
			slog.Warn("vault backup failed", "path", path, "error", err)
			return
		}

		_, werr := f.Write(current)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			slog.Warn("vault backup failed", "path", path, "error", werr)
		}
		return
	}
}
