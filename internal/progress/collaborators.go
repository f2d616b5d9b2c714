package progress

import (
	"context"

	"github.com/idilsaglam/grimoire/internal/model"
)

// Remote is the row store holding one ProgressRecord per (user, item).
type Remote interface {
	FetchProgress(ctx context.Context, userID string) ([]model.ProgressRecord, error)
	// UpsertProgress inserts or overwrites the record keyed by (UserID, ItemID).
	UpsertProgress(ctx context.Context, rec model.ProgressRecord) error
	DeleteAllProgress(ctx context.Context, userID string) error
}

// Auth resolves the signed-in account.
type Auth interface {
	CurrentUser() (string, bool)
	SignOut() error
}

// Notifier shows a user-visible toast. Calls must not block.
type Notifier interface {
	Notify(title, description string, severity model.Severity)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, description string, severity model.Severity)

func (f NotifierFunc) Notify(title, description string, severity model.Severity) {
	f(title, description, severity)
}

type discard struct{}

func (discard) Notify(string, string, model.Severity) {}
