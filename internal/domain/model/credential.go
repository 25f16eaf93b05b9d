package model

import (
	"strings"
	"time"
)

// PasswordMask is the fixed-width placeholder shown wherever a stored
// password is redacted. A constant width avoids leaking the real length.
const PasswordMask = "********"

// Credential holds one stored login: the website or service it belongs to,
// the account name, the secret itself, and bookkeeping timestamps. Notes is
// free-form and may be empty.
type Credential struct {
	Website      string
	Username     string
	Password     string
	CreatedAt    time.Time
	LastModified time.Time
	Notes        string
}

// Matches reports whether the credential matches a case-insensitive search
// term, compared as a substring of website, username and notes. An empty or
// blank term matches every credential.
func (c Credential) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Website), term) ||
		strings.Contains(strings.ToLower(c.Username), term) ||
		strings.Contains(strings.ToLower(c.Notes), term)
}

// MaskedPassword returns the fixed-width redaction mask standing in for the
// password.
func (c Credential) MaskedPassword() string {
	return PasswordMask
}
