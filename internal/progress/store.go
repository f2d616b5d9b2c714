// Package progress owns the canonical item list and keeps each item's
// completion flag in step with a remote row store.
//
// Toggles are optimistic: memory changes first, the remote write follows.
// A failed write rolls the item back only if that write is still the item's
// latest one, so a stale failure never undoes a newer toggle, load or reset.
package progress

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/idilsaglam/grimoire/internal/model"
	"github.com/idilsaglam/grimoire/internal/observability"
)

const defaultTimeout = 10 * time.Second

// Store holds the item list. The zero value is not usable; call New.
type Store struct {
	remote   Remote
	auth     Auth
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
	timeout  time.Duration

	loads singleflight.Group

	mu    sync.Mutex
	items []model.Item
	index map[string]int
	gen   []uint64 // per-item write generation, parallel to items
}

// Option customises a Store.
type Option func(*Store)

// WithNotifier routes user-visible notifications.
func WithNotifier(n Notifier) Option { return func(s *Store) { s.notifier = n } }

// WithLogger sets the structured logger.
func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.logger = l } }

// WithClock overrides time.Now for CompletedAt stamps.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithTimeout bounds every remote call. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option { return func(s *Store) { s.timeout = d } }

// New seeds a store from the catalog. Items are copied; Completed values in
// the catalog are kept until the first Load.
func New(items []model.Item, remote Remote, auth Auth, opts ...Option) *Store {
	s := &Store{
		remote:   remote,
		auth:     auth,
		notifier: discard{},
		logger:   zap.NewNop(),
		now:      time.Now,
		timeout:  defaultTimeout,
		items:    make([]model.Item, len(items)),
		index:    make(map[string]int, len(items)),
		gen:      make([]uint64, len(items)),
	}
	copy(s.items, items)
	for i, it := range s.items {
		s.index[it.ID] = i
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Items returns a snapshot of the current state in catalog order.
func (s *Store) Items() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Item looks up one item by id.
func (s *Store) Item(id string) (model.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return model.Item{}, false
	}
	return s.items[i], true
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Store) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	start := time.Now()
	err := fn(ctx)
	observability.ObserveRemote(op, time.Since(start).Seconds())
	return err
}

// fetched is one remote snapshot plus the item generations seen before the
// fetch started.
type fetched struct {
	recs []model.ProgressRecord
	gens []uint64
}

// Load overlays the user's persisted records onto the catalog. Items without a
// record become incomplete. An item written while the fetch was in flight keeps
// its newer value. On failure the current state is kept as is.
func (s *Store) Load(ctx context.Context, userID string) ([]model.Item, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	v, err, _ := s.loads.Do(userID, func() (any, error) {
		s.mu.Lock()
		gens := slices.Clone(s.gen)
		s.mu.Unlock()

		var recs []model.ProgressRecord
		err := s.call(ctx, "fetch", func(ctx context.Context) error {
			var err error
			recs, err = s.remote.FetchProgress(ctx, userID)
			return err
		})
		return fetched{recs: recs, gens: gens}, err
	})
	observability.RecordLoad(err)
	if err != nil {
		s.logger.Warn("load failed", zap.String("user_id", userID), zap.Error(err))
		s.notifier.Notify("Load failed", "Could not fetch your saved progress.", model.SeverityError)
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	f := v.(fetched)

	done := make(map[string]bool, len(f.recs))
	for _, r := range f.recs {
		if r.UserID != "" && r.UserID != userID {
			continue
		}
		done[r.ItemID] = r.Completed
	}

	kept := 0
	s.mu.Lock()
	for i := range s.items {
		if s.gen[i] != f.gens[i] {
			kept++
			continue
		}
		s.items[i].Completed = done[s.items[i].ID]
		s.gen[i]++
	}
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	s.mu.Unlock()

	s.logger.Debug("progress loaded",
		zap.String("user_id", userID),
		zap.Int("records", len(f.recs)),
		zap.Int("kept_newer", kept))
	return out, nil
}

// Write is one optimistic toggle waiting for its remote confirmation.
type Write struct {
	ItemID    string
	UserID    string
	Attempted bool
	Previous  bool
	At        time.Time

	gen uint64
}

// Record is the remote row this write persists.
func (w *Write) Record() model.ProgressRecord {
	rec := model.ProgressRecord{UserID: w.UserID, ItemID: w.ItemID, Completed: w.Attempted}
	if w.Attempted {
		at := w.At
		rec.CompletedAt = &at
	}
	return rec
}

// Begin flips the item in memory and returns the write to commit. Unknown ids
// yield (nil, nil). Without a signed-in user nothing changes.
func (s *Store) Begin(itemID string) (*Write, error) {
	userID, ok := s.auth.CurrentUser()
	if !ok || userID == "" {
		s.notifier.Notify("Not signed in", "Sign in to save your progress.", model.SeverityError)
		return nil, ErrUnauthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[itemID]
	if !ok {
		return nil, nil
	}
	prev := s.items[i].Completed
	s.items[i].Completed = !prev
	s.gen[i]++
	return &Write{
		ItemID:    itemID,
		UserID:    userID,
		Attempted: !prev,
		Previous:  prev,
		At:        s.now().UTC(),
		gen:       s.gen[i],
	}, nil
}

// Commit persists w. On failure the item is reset to w.Previous when w is
// still the item's latest write and its value is still w.Attempted.
func (s *Store) Commit(ctx context.Context, w *Write) error {
	if w == nil {
		return nil
	}
	err := s.call(ctx, "upsert", func(ctx context.Context) error {
		return s.remote.UpsertProgress(ctx, w.Record())
	})
	observability.RecordToggle(err)
	if err == nil {
		s.logger.Debug("toggle synced", zap.String("item_id", w.ItemID), zap.Bool("attempted", w.Attempted))
		return nil
	}

	superseded := !s.rollback(w)
	observability.RecordRollback(superseded)
	s.logger.Warn("toggle sync failed",
		zap.String("item_id", w.ItemID),
		zap.String("user_id", w.UserID),
		zap.Bool("attempted", w.Attempted),
		zap.Bool("superseded", superseded),
		zap.Error(err))
	desc := fmt.Sprintf("Could not save %q, change reverted.", w.ItemID)
	if superseded {
		desc = fmt.Sprintf("Could not save %q. A newer change was kept.", w.ItemID)
	}
	s.notifier.Notify("Sync failed", desc, model.SeverityError)
	return fmt.Errorf("%w: %s: %w", ErrSyncFailed, w.ItemID, err)
}

func (s *Store) rollback(w *Write) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[w.ItemID]
	if !ok || s.gen[i] != w.gen || s.items[i].Completed != w.Attempted {
		return false
	}
	s.items[i].Completed = w.Previous
	s.gen[i]++
	return true
}

// Toggle flips one item optimistically and waits for the remote write.
// Unknown ids are a no-op.
func (s *Store) Toggle(ctx context.Context, itemID string) error {
	w, err := s.Begin(itemID)
	if err != nil || w == nil {
		return err
	}
	return s.Commit(ctx, w)
}

// ResetAll clears every item locally, then deletes the user's records.
// A failed delete is reported but the local reset is not undone, so memory
// and remote disagree until the next Load.
func (s *Store) ResetAll(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	s.mu.Lock()
	for i := range s.items {
		s.items[i].Completed = false
		s.gen[i]++
	}
	s.mu.Unlock()

	err := s.call(ctx, "delete", func(ctx context.Context) error {
		return s.remote.DeleteAllProgress(ctx, userID)
	})
	observability.RecordReset(err)
	if err != nil {
		s.logger.Warn("reset failed", zap.String("user_id", userID), zap.Error(err))
		s.notifier.Notify("Reset failed", "Saved progress could not be deleted.", model.SeverityError)
		return fmt.Errorf("%w: %w", ErrResetFailed, err)
	}
	s.logger.Info("progress reset", zap.String("user_id", userID))
	s.notifier.Notify("Progress reset", "Every item is back to incomplete.", model.SeveritySuccess)
	return nil
}
