// Package crypto implements SecureVault's password-based authenticated
// encryption: PBKDF2 key derivation plus AES-256-GCM sealing of byte
// payloads into self-contained base64 blobs.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// Blob layout: base64(salt || nonce || ciphertext+tag). The salt feeds key
// derivation, the nonce feeds AES-GCM. Both are drawn fresh from crypto/rand
// on every Encrypt call, so two encryptions of the same plaintext are never
// linkable and a single logical key never sees a repeated nonce.
const (
	saltSize  = 16
	nonceSize = 12
	keySize   = 32

	// PBKDF2-HMAC-SHA256 iteration count. Deliberately slow.
	iterations = 100_000
)

// validatorSentinel is the fixed plaintext whose successful decryption proves
// a candidate master password.
const validatorSentinel = "SECUREVAULT_PASSWORD_VALIDATOR"

// ErrWrongPasswordOrCorrupt is returned by Decrypt for every failure mode:
// a wrong password and a tampered, truncated or malformed blob must stay
// indistinguishable to the caller.
var ErrWrongPasswordOrCorrupt = errors.New("wrong password or corrupt data")

// deriveKey stretches a password and salt into an AES-256 key.
func deriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, keySize, sha256.New)
}

// Encrypt seals plaintext under a key derived from password and returns the
// encoded blob.
func Encrypt(plaintext []byte, password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	gcm, err := newGCM(deriveKey(password, salt))
	if err != nil {
		return "", err
	}

	out := make([]byte, 0, saltSize+nonceSize+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = gcm.Seal(out, nonce, plaintext, nil)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt: it re-derives the key from the blob's embedded
// salt and opens the ciphertext. On any failure it returns
// ErrWrongPasswordOrCorrupt and never any partial plaintext.
func Decrypt(blob string, password string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, ErrWrongPasswordOrCorrupt
	}
	if len(data) < saltSize+nonceSize {
		return nil, ErrWrongPasswordOrCorrupt
	}
	salt := data[:saltSize]
	nonce := data[saltSize : saltSize+nonceSize]
	ciphertext := data[saltSize+nonceSize:]

	gcm, err := newGCM(deriveKey(password, salt))
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrWrongPasswordOrCorrupt
	}
	return plaintext, nil
}

// NewValidator encrypts the sentinel under password. The result is persisted
// alongside the credentials; being able to decrypt it back to the sentinel is
// the sole proof of knowing the master password.
func NewValidator(password string) (string, error) {
	blob, err := Encrypt([]byte(validatorSentinel), password)
	if err != nil {
		return "", fmt.Errorf("create validator: %w", err)
	}
	return blob, nil
}

// VerifyValidator reports whether password decrypts the stored validator to
// the expected sentinel.
func VerifyValidator(validator, password string) bool {
	plaintext, err := Decrypt(validator, password)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(plaintext, []byte(validatorSentinel)) == 1
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}
