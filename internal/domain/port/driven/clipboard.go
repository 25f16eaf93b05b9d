package driven

import "time"

// Clipboard defines the driven port for the system clipboard.
type Clipboard interface {
	// Copy places text on the clipboard.
	Copy(text string) error

	// CopyWithClear places a secret on the clipboard and schedules a wipe
	// after clearAfter. The wipe runs in the background and never blocks
	// the caller.
	CopyWithClear(secret string, clearAfter time.Duration) error

	// Clear wipes the clipboard. Safe to call repeatedly.
	Clear() error
}
