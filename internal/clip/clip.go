// Package clip copies text to the system clipboard and reports the outcome
// as a notification.
package clip

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/idilsaglam/grimoire/internal/model"
)

// Notifier matches progress.Notifier.
type Notifier interface {
	Notify(title, description string, severity model.Severity)
}

// Writer is the clipboard backend; tests swap it out.
var Writer = clipboard.WriteAll

// Copy writes text and notifies success or failure.
func Copy(text string, n Notifier) error {
	if err := Writer(text); err != nil {
		n.Notify("Copy failed", "Could not write to the clipboard.", model.SeverityError)
		return fmt.Errorf("clipboard: %w", err)
	}
	n.Notify("Copied", fmt.Sprintf("%q copied to the clipboard.", text), model.SeveritySuccess)
	return nil
}
