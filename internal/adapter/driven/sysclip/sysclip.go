// Package sysclip puts secrets on the system clipboard and wipes them again
// after a configurable delay.
package sysclip

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"

	"github.com/bhavyashah81/SecureVault/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Clipboard = (*Service)(nil)

// clearText overwrites the clipboard on Clear. A space, not the empty
// string: empty writes are dropped by some platform clipboards.
const clearText = " "

// Service is the system clipboard adapter.
type Service struct {
	write    func(string) error
	schedule func(time.Duration, func())
}

// New returns a Service backed by the operating system clipboard.
func New() *Service {
	return &Service{
		write: clipboard.WriteAll,
		schedule: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// Copy places text on the clipboard.
func (s *Service) Copy(text string) error {
	if err := s.write(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// CopyWithClear places a secret on the clipboard and schedules a wipe after
// clearAfter. The wipe is unconditional and fire-and-forget; its failure is
// logged, never surfaced.
func (s *Service) CopyWithClear(secret string, clearAfter time.Duration) error {
	if err := s.Copy(secret); err != nil {
		return err
	}
	s.schedule(clearAfter, func() {
		if err := s.Clear(); err != nil {
			slog.Warn("scheduled clipboard clear failed", "error", err)
		} else {
			slog.Debug("clipboard cleared")
		}
	})
	return nil
}

// Clear wipes the clipboard. Safe to call repeatedly.
func (s *Service) Clear() error {
	if err := s.write(clearText); err != nil {
		return fmt.Errorf("clear clipboard: %w", err)
	}
	return nil
}
