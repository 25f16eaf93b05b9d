// Package password generates random passwords from configurable character
// classes and scores the strength of existing ones.
package password

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
)

const (
	lowercase = "abcdefghijklmnopqrstuvwxyz"
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits    = "0123456789"
	symbols   = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	// Characters that are easy to misread for one another. The
	// ExcludeSimilar option strips these from the letter and digit
	// classes; the symbol class has no confusables.
	similar = "il1Lo0O"
)

// minLength is the floor every requested length is raised to.
const minLength = 4

// ErrConfig reports a generation config that cannot produce a password.
var ErrConfig = errors.New("invalid generator configuration")

// Config selects which character classes a generated password draws from and
// how many characters of each class it must contain at minimum. Lengths below
// the package floor are raised to it; negative minimums count as zero, and
// minimums of excluded classes are ignored.
type Config struct {
	Length         int
	Lowercase      bool
	Uppercase      bool
	Digits         bool
	Symbols        bool
	ExcludeSimilar bool
	MinLowercase   int
	MinUppercase   int
	MinDigits      int
	MinSymbols     int
}

// DefaultConfig returns the standard strong-password settings: 12 characters
// drawing from all four classes with at least one character of each.
func DefaultConfig() Config {
	return Config{
		Length:       12,
		Lowercase:    true,
		Uppercase:    true,
		Digits:       true,
		Symbols:      true,
		MinLowercase: 1,
		MinUppercase: 1,
		MinDigits:    1,
		MinSymbols:   1,
	}
}

// Generator produces random passwords. The zero value is not usable; New
// wires the cryptographic randomness source.
type Generator struct {
	rand io.Reader
}

// New returns a Generator backed by crypto/rand.
func New() *Generator {
	return &Generator{rand: rand.Reader}
}

// Generate produces a password matching cfg. Per-class minimums are drawn
// first, the rest is filled from the union of the selected classes, and the
// result is shuffled so the required characters end up in random positions.
func (g *Generator) Generate(cfg Config) (string, error) {
	length := cfg.Length
	if length < minLength {
		length = minLength
	}

	classes := []struct {
		include    bool
		chars      string
		filterable bool
		min        int
	}{
		{cfg.Lowercase, lowercase, true, cfg.MinLowercase},
		{cfg.Uppercase, uppercase, true, cfg.MinUppercase},
		{cfg.Digits, digits, true, cfg.MinDigits},
		{cfg.Symbols, symbols, false, cfg.MinSymbols},
	}

	var pool strings.Builder
	var required []byte
	for _, cl := range classes {
		if !cl.include {
			continue
		}
		chars := cl.chars
		if cfg.ExcludeSimilar && cl.filterable {
			chars = stripSimilar(chars)
		}
		pool.WriteString(chars)
		for i := 0; i < cl.min; i++ {
			c, err := g.pick(chars)
			if err != nil {
				return "", err
			}
			required = append(required, c)
		}
	}

	charset := pool.String()
	if charset == "" {
		return "", fmt.Errorf("%w: at least one character class must be included", ErrConfig)
	}
	if len(required) > length {
		return "", fmt.Errorf("%w: length %d cannot hold %d required characters", ErrConfig, length, len(required))
	}

	out := make([]byte, 0, length)
	out = append(out, required...)
	for len(out) < length {
		c, err := g.pick(charset)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	if err := g.shuffle(out); err != nil {
		return "", err
	}
	return string(out), nil
}

// Simple generates a password from the legacy flag-style options: lowercase
// is always included, and every selected class contributes at least one
// character.
func (g *Generator) Simple(length int, useSymbols, useDigits, useUppercase bool) (string, error) {
	cfg := Config{
		Length:       length,
		Lowercase:    true,
		Uppercase:    useUppercase,
		Digits:       useDigits,
		Symbols:      useSymbols,
		MinLowercase: 1,
	}
	if useUppercase {
		cfg.MinUppercase = 1
	}
	if useDigits {
		cfg.MinDigits = 1
	}
	if useSymbols {
		cfg.MinSymbols = 1
	}
	return g.Generate(cfg)
}

// Strong generates a password of the given length with the default settings.
func (g *Generator) Strong(length int) (string, error) {
	cfg := DefaultConfig()
	cfg.Length = length
	return g.Generate(cfg)
}

// Memorable generates a pronounceable password: alternating consonants and
// vowels with randomly capitalized consonants, finished with two random
// digit-or-symbol characters to meet the requested length.
func (g *Generator) Memorable(length int) (string, error) {
	const (
		consonants = "bcdfghjklmnpqrstvwxz"
		vowels     = "aeiouy"
	)

	var b strings.Builder
	consonant, err := g.coin()
	if err != nil {
		return "", err
	}

	for b.Len() < length-2 {
		if consonant {
			c, err := g.pick(consonants)
			if err != nil {
				return "", err
			}
			capitalize, err := g.coin()
			if err != nil {
				return "", err
			}
			if capitalize {
				c = c - 'a' + 'A'
			}
			b.WriteByte(c)
		} else {
			c, err := g.pick(vowels)
			if err != nil {
				return "", err
			}
			b.WriteByte(c)
		}
		consonant = !consonant
	}

	for b.Len() < length {
		useDigit, err := g.coin()
		if err != nil {
			return "", err
		}
		set := symbols
		if useDigit {
			set = digits
		}
		c, err := g.pick(set)
		if err != nil {
			return "", err
		}
		b.WriteByte(c)
	}

	return b.String(), nil
}

// pick draws one uniformly random character from charset.
func (g *Generator) pick(charset string) (byte, error) {
	i, err := g.intn(len(charset))
	if err != nil {
		return 0, err
	}
	return charset[i], nil
}

// coin is a uniformly random boolean.
func (g *Generator) coin() (bool, error) {
	v, err := g.intn(2)
	return v == 1, err
}

// intn draws a uniform integer in [0, n) without modulo bias.
func (g *Generator) intn(n int) (int, error) {
	v, err := rand.Int(g.rand, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("read randomness: %w", err)
	}
	return int(v.Int64()), nil
}

// shuffle is an in-place Fisher-Yates shuffle over the generator's
// randomness source.
func (g *Generator) shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		j, err := g.intn(i + 1)
		if err != nil {
			return err
		}
		b[i], b[j] = b[j], b[i]
	}
	return nil
}

func stripSimilar(charset string) string {
	var b strings.Builder
	for _, c := range charset {
		if !strings.ContainsRune(similar, c) {
			b.WriteRune(c)
		}
	}
	return b.String()
}
