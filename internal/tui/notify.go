package tui

import (
	"sync"

	"github.com/idilsaglam/grimoire/internal/model"
)

type toast struct {
	title       string
	description string
	severity    model.Severity
}

// Toasts keeps the latest notification for the status line. Notify may be
// called from command goroutines.
type Toasts struct {
	mu   sync.Mutex
	last toast
}

func (t *Toasts) Notify(title, description string, severity model.Severity) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = toast{title: title, description: description, severity: severity}
}

func (t *Toasts) latest() toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}
