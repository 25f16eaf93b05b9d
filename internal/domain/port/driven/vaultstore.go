// Package driven declares the outbound ports the application layer depends
// on. Adapters implement these interfaces; the domain never sees them.
package driven

import "github.com/bhavyashah81/SecureVault/internal/domain/model"

// VaultStore defines the driven port for encrypted vault persistence. The
// adapter owns encryption, decryption and on-disk layout; this interface
// operates on decrypted vaults at the domain boundary.
type VaultStore interface {
	// Exists reports whether a persisted vault is present.
	Exists() bool

	// Load reads, decrypts and decodes the persisted vault. A wrong
	// password and corrupted data both surface the cipher engine's single
	// rejection error.
	Load(password string) (model.Vault, error)

	// Save encodes, encrypts and persists the vault under the given
	// password, taking a backup of the previous state first. Backup
	// failures are logged and never fail the save.
	Save(vault model.Vault, password string) error
}
