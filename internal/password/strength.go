package password

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Penalty tables. Package-level so the policy can grow without touching the
// scoring code.
var (
	// commonSequences are matched case-sensitively anywhere in the password.
	commonSequences = []string{"123", "abc", "qwe"}

	// weakWords are matched against the lowercased password.
	weakWords = []string{"password", "123456"}
)

// Evaluate scores a password from 0 (empty) to 100. Length contributes up to
// 25 points plus bonuses at 12 and 16 characters, each character class
// present adds 10, and known-weak patterns subtract.
func Evaluate(pw string) int {
	if pw == "" {
		return 0
	}

	length := utf8.RuneCountInString(pw)
	score := min(length*2, 25)

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(symbols, r):
			hasSymbol = true
		}
	}
	for _, present := range []bool{hasLower, hasUpper, hasDigit, hasSymbol} {
		if present {
			score += 10
		}
	}

	if length >= 12 {
		score += 10
	}
	if length >= 16 {
		score += 10
	}

	for _, seq := range commonSequences {
		if strings.Contains(pw, seq) {
			score -= 10
			break
		}
	}
	lower := strings.ToLower(pw)
	for _, word := range weakWords {
		if strings.Contains(lower, word) {
			score -= 20
			break
		}
	}

	return max(0, min(100, score))
}

// Label maps a strength score to its human-readable description.
func Label(score int) string {
	switch {
	case score < 30:
		return "Very Weak"
	case score < 50:
		return "Weak"
	case score < 70:
		return "Fair"
	case score < 85:
		return "Strong"
	default:
		return "Very Strong"
	}
}
