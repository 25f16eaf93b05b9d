// Package application contains use-case orchestration services.
package application

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bhavyashah81/SecureVault/internal/crypto"
	"github.com/bhavyashah81/SecureVault/internal/domain/model"
	"github.com/bhavyashah81/SecureVault/internal/domain/port/driven"
)

// Sentinel errors returned by VaultService operations.
var (
	// ErrNotLoaded indicates an operation that requires a successful Load first.
	ErrNotLoaded = errors.New("vault not loaded")

	// ErrInvalidField indicates a credential field holding characters the
	// record format reserves.
	ErrInvalidField = errors.New("credential field contains '|' or a line break")
)

// VaultService owns the in-memory credential collection and its lifecycle:
// unlocking, mutation, persistence, master-password changes and plaintext
// export. A service starts unloaded; every operation except Load, Count and
// IsLoaded requires a prior successful Load.
type VaultService struct {
	store    driven.VaultStore
	exporter driven.ExportWriter

	validator string
	creds     []model.Credential
	loaded    bool
	now       func() time.Time
}

// NewVaultService creates a VaultService persisting through store and
// writing exports through exporter.
func NewVaultService(store driven.VaultStore, exporter driven.ExportWriter) *VaultService {
	return &VaultService{
		store:    store,
		exporter: exporter,
		now:      time.Now,
	}
}

// Load unlocks the vault with the master password. When no vault file exists
// yet this is first-run setup: an empty collection is created and password
// becomes the master password. Otherwise the persisted vault is decrypted;
// on failure the service stays unloaded and the attempt can be retried.
func (s *VaultService) Load(password string) error {
	if !s.store.Exists() {
		validator, err := crypto.NewValidator(password)
		if err != nil {
			return err
		}
		s.validator = validator
		s.creds = nil
		s.loaded = true
		slog.Info("initialized new vault")
		return nil
	}

	vault, err := s.store.Load(password)
	if err != nil {
		return fmt.Errorf("load vault: %w", err)
	}

	s.validator = vault.Validator
	s.creds = vault.Credentials
	s.loaded = true
	slog.Info("vault loaded", "credentials", len(s.creds))
	return nil
}

// Save persists the vault under the master password.
func (s *VaultService) Save(password string) error {
	if !s.loaded {
		return ErrNotLoaded
	}

	if s.validator == "" {
		validator, err := crypto.NewValidator(password)
		if err != nil {
			return err
		}
		s.validator = validator
	}

	vault := model.Vault{Validator: s.validator, Credentials: s.creds}
	if err := s.store.Save(vault, password); err != nil {
		return fmt.Errorf("save vault: %w", err)
	}
	return nil
}

// ChangeMasterPassword re-keys the vault. The current password is checked
// against the stored validator first; on mismatch nothing changes. On
// success the vault is re-saved under the new password immediately.
func (s *VaultService) ChangeMasterPassword(current, newPassword string) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	if s.validator != "" && !crypto.VerifyValidator(s.validator, current) {
		return crypto.ErrWrongPasswordOrCorrupt
	}

	validator, err := crypto.NewValidator(newPassword)
	if err != nil {
		return err
	}
	s.validator = validator

	if err := s.Save(newPassword); err != nil {
		return err
	}
	slog.Info("master password changed")
	return nil
}

// Add appends a credential without notes.
func (s *VaultService) Add(website, username, password string) error {
	return s.AddWithNotes(website, username, password, "")
}

// AddWithNotes appends a credential. Field values may not contain the record
// delimiter or line breaks.
func (s *VaultService) AddWithNotes(website, username, password, notes string) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	if err := validateFields(website, username, password, notes); err != nil {
		return err
	}

	now := s.timestamp()
	s.creds = append(s.creds, model.Credential{
		Website:      website,
		Username:     username,
		Password:     password,
		CreatedAt:    now,
		LastModified: now,
		Notes:        notes,
	})
	return nil
}

// All returns a copy of every credential in insertion order.
func (s *VaultService) All() ([]model.Credential, error) {
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	out := make([]model.Credential, len(s.creds))
	copy(out, s.creds)
	return out, nil
}

// Count returns the number of stored credentials, zero while unloaded.
func (s *VaultService) Count() int {
	if !s.loaded {
		return 0
	}
	return len(s.creds)
}

// IsLoaded reports whether the vault has been unlocked.
func (s *VaultService) IsLoaded() bool {
	return s.loaded
}

// FindByWebsite returns the first credential whose website matches
// case-insensitively.
func (s *VaultService) FindByWebsite(website string) (model.Credential, bool, error) {
	if !s.loaded {
		return model.Credential{}, false, ErrNotLoaded
	}
	for _, c := range s.creds {
		if strings.EqualFold(c.Website, website) {
			return c, true, nil
		}
	}
	return model.Credential{}, false, nil
}

// Search returns every credential matching the term. An empty term matches
// everything.
func (s *VaultService) Search(term string) ([]model.Credential, error) {
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	var out []model.Credential
	for _, c := range s.creds {
		if c.Matches(term) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Update modifies the first credential whose website matches
// case-insensitively. Nil fields keep their current value; applying any
// non-nil field bumps the modification time. Reports whether a credential
// matched.
func (s *VaultService) Update(website string, username, password, notes *string) (bool, error) {
	if !s.loaded {
		return false, ErrNotLoaded
	}
	for _, v := range []*string{username, password, notes} {
		if v != nil {
			if err := validateFields(*v); err != nil {
				return false, err
			}
		}
	}

	for i := range s.creds {
		if !strings.EqualFold(s.creds[i].Website, website) {
			continue
		}

		changed := false
		if username != nil {
			s.creds[i].Username = *username
			changed = true
		}
		if password != nil {
			s.creds[i].Password = *password
			changed = true
		}
		if notes != nil {
			s.creds[i].Notes = *notes
			changed = true
		}
		if changed {
			s.creds[i].LastModified = s.timestamp()
		}
		return true, nil
	}
	return false, nil
}

// Remove drops every credential whose website matches case-insensitively.
// Reports whether anything was removed.
func (s *VaultService) Remove(website string) (bool, error) {
	if !s.loaded {
		return false, ErrNotLoaded
	}

	var kept []model.Credential
	removed := false
	for _, c := range s.creds {
		if strings.EqualFold(c.Website, website) {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	s.creds = kept
	return removed, nil
}

// ExportToFile writes a plaintext report of all credentials. Passwords are
// replaced by the fixed mask unless includePasswords is set. The export is
// one-way; it can never be loaded back.
func (s *VaultService) ExportToFile(path string, includePasswords bool) error {
	if !s.loaded {
		return ErrNotLoaded
	}

	if err := s.exporter.WriteExport(path, s.renderExport(includePasswords)); err != nil {
		return fmt.Errorf("export credentials: %w", err)
	}
	slog.Info("credentials exported",
		"path", path,
		"credentials", len(s.creds),
		"passwords_included", includePasswords)
	return nil
}

func (s *VaultService) renderExport(includePasswords bool) []byte {
	var b strings.Builder
	b.WriteString("SecureVault Credential Export\n")
	fmt.Fprintf(&b, "Generated: %s\n", s.timestamp().Format(time.RFC3339))
	fmt.Fprintf(&b, "Total Credentials: %d\n", len(s.creds))
	fmt.Fprintf(&b, "Passwords Included: %t\n", includePasswords)
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\n\n")

	for _, c := range s.creds {
		fmt.Fprintf(&b, "Website: %s\n", c.Website)
		fmt.Fprintf(&b, "Username: %s\n", c.Username)
		if includePasswords {
			fmt.Fprintf(&b, "Password: %s\n", c.Password)
		} else {
			fmt.Fprintf(&b, "Password: %s\n", c.MaskedPassword())
		}
		fmt.Fprintf(&b, "Created: %s\n", c.CreatedAt.Format(time.RFC3339))
		fmt.Fprintf(&b, "Modified: %s\n", c.LastModified.Format(time.RFC3339))
		if strings.TrimSpace(c.Notes) != "" {
			fmt.Fprintf(&b, "Notes: %s\n", c.Notes)
		}
		b.WriteString(strings.Repeat("-", 30))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// timestamp is the service clock: UTC at second precision, matching the
// persisted format.
func (s *VaultService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

func validateFields(fields ...string) error {
	for _, f := range fields {
		if strings.ContainsAny(f, "|\n\r") {
			return ErrInvalidField
		}
	}
	return nil
}
