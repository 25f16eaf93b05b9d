package vaultfile

import (
	"log/slog"
	"strings"
	"time"

	"github.com/bhavyashah81/SecureVault/internal/domain/model"
)

// Plaintext layout inside the encrypted blob: the first line carries the
// master-password validator, every following non-empty line one credential as
// six pipe-joined fields (website, username, password, created, modified,
// notes). Timestamps are RFC 3339 in UTC.
const (
	validatorPrefix = "VALIDATOR:"
	fieldSep        = "|"
	recordFields    = 6
)

func encode(vault model.Vault) []byte {
	var b strings.Builder
	b.WriteString(validatorPrefix)
	b.WriteString(vault.Validator)
	b.WriteByte('\n')
	for _, c := range vault.Credentials {
		b.WriteString(encodeRecord(c))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func encodeRecord(c model.Credential) string {
	fields := []string{
		c.Website,
		c.Username,
		c.Password,
		formatTime(c.CreatedAt),
		formatTime(c.LastModified),
		c.Notes,
	}
	return strings.Join(fields, fieldSep)
}

// decode parses the plaintext back into a vault. Lines with fewer than three
// fields are skipped rather than failing the whole load; missing or
// unparsable timestamps fall back to now.
func decode(data []byte, now func() time.Time) model.Vault {
	var vault model.Vault
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, validatorPrefix) {
			vault.Validator = strings.TrimPrefix(line, validatorPrefix)
			continue
		}

		parts := strings.SplitN(line, fieldSep, recordFields)
		if len(parts) < 3 {
			slog.Debug("skipping malformed vault record", "fields", len(parts))
			continue
		}

		cred := model.Credential{
			Website:      parts[0],
			Username:     parts[1],
			Password:     parts[2],
			CreatedAt:    now(),
			LastModified: now(),
		}
		if len(parts) > 3 {
			cred.CreatedAt = parseTimeOrNow(parts[3], now)
		}
		if len(parts) > 4 {
			cred.LastModified = parseTimeOrNow(parts[4], now)
		}
		if len(parts) > 5 {
			cred.Notes = parts[5]
		}
		vault.Credentials = append(vault.Credentials, cred)
	}
	return vault
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTimeOrNow(s string, now func() time.Time) time.Time {
	if s == "" {
		return now()
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		slog.Debug("unparsable record timestamp, using current time", "value", s)
		return now()
	}
	return t.UTC()
}
