package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/idilsaglam/grimoire/internal/model"
)

var errBoom = errors.New("boom")

type fakeRemote struct {
	mu      sync.Mutex
	records map[string]model.ProgressRecord
	upserts []model.ProgressRecord
	deletes int

	fetchErr  error
	deleteErr error
	upsertFn  func(ctx context.Context, rec model.ProgressRecord) error
	// fetchFn runs after the snapshot is taken, before it is returned.
	fetchFn func()
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{records: map[string]model.ProgressRecord{}}
}

func (f *fakeRemote) FetchProgress(ctx context.Context, userID string) ([]model.ProgressRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var out []model.ProgressRecord
	for _, r := range f.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	if fn := f.fetchFn; fn != nil {
		f.mu.Unlock()
		fn()
		f.mu.Lock()
	}
	return out, nil
}

func (f *fakeRemote) UpsertProgress(ctx context.Context, rec model.ProgressRecord) error {
	f.mu.Lock()
	f.upserts = append(f.upserts, rec)
	fn := f.upsertFn
	f.mu.Unlock()
	if fn != nil {
		if err := fn(ctx, rec); err != nil {
			return err
		}
	}
	f.mu.Lock()
	f.records[rec.UserID+"/"+rec.ItemID] = rec
	f.mu.Unlock()
	return nil
}

func (f *fakeRemote) DeleteAllProgress(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for k, r := range f.records {
		if r.UserID == userID {
			delete(f.records, k)
		}
	}
	return nil
}

func (f *fakeRemote) upsertCalls() []model.ProgressRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.ProgressRecord(nil), f.upserts...)
}

type staticAuth string

func (a staticAuth) CurrentUser() (string, bool) { return string(a), a != "" }
func (a staticAuth) SignOut() error              { return nil }

type toast struct {
	Title       string
	Description string
	Severity    model.Severity
}

type recorder struct {
	mu     sync.Mutex
	toasts []toast
}

func (r *recorder) Notify(title, description string, severity model.Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, toast{Title: title, Description: description, Severity: severity})
}

func (r *recorder) last() toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return toast{}
	}
	return r.toasts[len(r.toasts)-1]
}

func (r *recorder) count(title string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.toasts {
		if t.Title == title {
			n++
		}
	}
	return n
}

func catalog() []model.Item {
	return []model.Item{
		{ID: "a", Name: "A", Category: model.CategoryEarly, Reward: 100, Points: 5},
		{ID: "b", Name: "B", Category: model.CategoryMid, Reward: 200, Points: 10, Completed: true},
		{ID: "c", Name: "C", Category: model.CategoryHigh, Reward: 300, Points: 15},
	}
}

var fixedNow = time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)

func newTestStore(remote Remote, n Notifier) *Store {
	return New(catalog(), remote, staticAuth("user-1"),
		WithNotifier(n),
		WithClock(func() time.Time { return fixedNow }),
		WithTimeout(time.Second),
	)
}

func completed(t *testing.T, s *Store, id string) bool {
	t.Helper()
	it, ok := s.Item(id)
	require.True(t, ok, "item %s missing", id)
	return it.Completed
}

func TestToggleTwiceRestoresAndAlternatesUpserts(t *testing.T) {
	remote := newFakeRemote()
	s := newTestStore(remote, &recorder{})
	ctx := context.Background()

	require.NoError(t, s.Toggle(ctx, "a"))
	assert.True(t, completed(t, s, "a"))
	require.NoError(t, s.Toggle(ctx, "a"))
	assert.False(t, completed(t, s, "a"))

	calls := remote.upsertCalls()
	require.Len(t, calls, 2)
	assert.True(t, calls[0].Completed)
	require.NotNil(t, calls[0].CompletedAt)
	assert.Equal(t, fixedNow, *calls[0].CompletedAt)
	assert.False(t, calls[1].Completed)
	assert.Nil(t, calls[1].CompletedAt)
	for _, c := range calls {
		assert.Equal(t, "user-1", c.UserID)
		assert.Equal(t, "a", c.ItemID)
	}
}

func TestToggleAppliesBeforeRemoteConfirms(t *testing.T) {
	remote := newFakeRemote()
	seen := make(chan bool, 1)
	s := newTestStore(remote, &recorder{})
	remote.upsertFn = func(ctx context.Context, rec model.ProgressRecord) error {
		it, _ := s.Item(rec.ItemID)
		seen <- it.Completed
		return nil
	}

	require.NoError(t, s.Toggle(context.Background(), "c"))
	assert.True(t, <-seen, "memory must reflect the toggle while the upsert is in flight")
}

func TestToggleFailureRollsBackAndNotifiesOnce(t *testing.T) {
	remote := newFakeRemote()
	remote.upsertFn = func(context.Context, model.ProgressRecord) error { return errBoom }
	notes := &recorder{}
	s := newTestStore(remote, notes)

	err := s.Toggle(context.Background(), "a")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyncFailed)
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, completed(t, s, "a"))
	assert.Equal(t, 1, notes.count("Sync failed"))
	assert.Contains(t, notes.last().Description, "change reverted")
}

func TestToggleFailureOnCompletedItem(t *testing.T) {
	remote := newFakeRemote()
	remote.upsertFn = func(context.Context, model.ProgressRecord) error { return errBoom }
	s := newTestStore(remote, &recorder{})

	require.ErrorIs(t, s.Toggle(context.Background(), "b"), ErrSyncFailed)
	assert.True(t, completed(t, s, "b"))
}

// blockFirstUpsert makes the first upsert wait for release and then fail.
// entered is closed once that first call is in flight.
func blockFirstUpsert(remote *fakeRemote) (entered, release chan struct{}) {
	entered = make(chan struct{})
	release = make(chan struct{})
	var once sync.Once
	remote.upsertFn = func(ctx context.Context, rec model.ProgressRecord) error {
		first := false
		once.Do(func() { first = true })
		if !first {
			return nil
		}
		close(entered)
		<-release
		return errBoom
	}
	return entered, release
}

func TestStaleRollbackDoesNotClobberNewerToggle(t *testing.T) {
	defer goleak.VerifyNone(t)

	remote := newFakeRemote()
	entered, release := blockFirstUpsert(remote)
	notes := &recorder{}
	s := newTestStore(remote, notes)
	ctx := context.Background()

	// t0: slow write that will fail.
	w0, err := s.Begin("a")
	require.NoError(t, err)
	require.NotNil(t, w0)
	errc := make(chan error, 1)
	go func() { errc <- s.Commit(ctx, w0) }()
	<-entered

	// t1: succeeds immediately.
	require.NoError(t, s.Toggle(ctx, "a"))
	assert.False(t, completed(t, s, "a"))

	close(release)
	require.ErrorIs(t, <-errc, ErrSyncFailed)
	assert.False(t, completed(t, s, "a"), "the t1 value must survive the t0 failure")
	assert.Equal(t, 1, notes.count("Sync failed"))
	assert.Contains(t, notes.last().Description, "newer change was kept")
}

func TestStaleRollbackWithMatchingValueIsStillSuperseded(t *testing.T) {
	defer goleak.VerifyNone(t)

	remote := newFakeRemote()
	entered, release := blockFirstUpsert(remote)
	s := newTestStore(remote, &recorder{})
	ctx := context.Background()

	w0, err := s.Begin("a") // false -> true, fails late
	require.NoError(t, err)
	errc := make(chan error, 1)
	go func() { errc <- s.Commit(ctx, w0) }()
	<-entered

	require.NoError(t, s.Toggle(ctx, "a")) // true -> false
	require.NoError(t, s.Toggle(ctx, "a")) // false -> true, the value t0 attempted
	assert.True(t, completed(t, s, "a"))

	close(release)
	require.ErrorIs(t, <-errc, ErrSyncFailed)
	assert.True(t, completed(t, s, "a"), "a newer write with the same value must not be undone")
}

func TestToggleUnknownItemIsNoop(t *testing.T) {
	remote := newFakeRemote()
	s := newTestStore(remote, &recorder{})
	before := s.Items()

	require.NoError(t, s.Toggle(context.Background(), "missing"))
	assert.Equal(t, before, s.Items())
	assert.Empty(t, remote.upsertCalls())
}

func TestToggleWithoutUser(t *testing.T) {
	remote := newFakeRemote()
	notes := &recorder{}
	s := New(catalog(), remote, staticAuth(""), WithNotifier(notes))

	err := s.Toggle(context.Background(), "a")
	require.ErrorIs(t, err, ErrUnauthenticated)
	assert.False(t, completed(t, s, "a"))
	assert.Empty(t, remote.upsertCalls())
	assert.Equal(t, 1, notes.count("Not signed in"))
}

func TestToggleHonoursTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	remote := newFakeRemote()
	remote.upsertFn = func(ctx context.Context, _ model.ProgressRecord) error {
		<-ctx.Done()
		return ctx.Err()
	}
	s := New(catalog(), remote, staticAuth("user-1"), WithTimeout(10*time.Millisecond))

	err := s.Toggle(context.Background(), "a")
	require.ErrorIs(t, err, ErrSyncFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, completed(t, s, "a"))
}

func TestLoadOverlaysRecords(t *testing.T) {
	remote := newFakeRemote()
	remote.records["user-1/a"] = model.ProgressRecord{UserID: "user-1", ItemID: "a", Completed: true}
	remote.records["user-2/c"] = model.ProgressRecord{UserID: "user-2", ItemID: "c", Completed: true}
	remote.records["user-1/unknown"] = model.ProgressRecord{UserID: "user-1", ItemID: "unknown", Completed: true}
	s := newTestStore(remote, &recorder{})

	items, err := s.Load(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.True(t, items[0].Completed)
	assert.False(t, items[1].Completed, "catalog default true is replaced by no record -> false")
	assert.False(t, items[2].Completed, "another user's record must not leak")
	assert.Equal(t, items, s.Items())
}

func TestLoadWithNoRecords(t *testing.T) {
	s := newTestStore(newFakeRemote(), &recorder{})
	items, err := s.Load(context.Background(), "user-1")
	require.NoError(t, err)
	for _, it := range items {
		assert.False(t, it.Completed, it.ID)
	}
}

func TestLoadFailureKeepsState(t *testing.T) {
	remote := newFakeRemote()
	remote.fetchErr = errBoom
	notes := &recorder{}
	s := newTestStore(remote, notes)
	require.NoError(t, s.Toggle(context.Background(), "a"))
	before := s.Items()

	_, err := s.Load(context.Background(), "user-1")
	require.ErrorIs(t, err, ErrLoadFailed)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, before, s.Items())
	assert.Equal(t, 1, notes.count("Load failed"))
}

func TestLoadRequiresUser(t *testing.T) {
	s := newTestStore(newFakeRemote(), &recorder{})
	_, err := s.Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLoadSupersedesInFlightToggle(t *testing.T) {
	defer goleak.VerifyNone(t)

	remote := newFakeRemote()
	remote.records["user-1/a"] = model.ProgressRecord{UserID: "user-1", ItemID: "a", Completed: true}
	release := make(chan struct{})
	remote.upsertFn = func(context.Context, model.ProgressRecord) error {
		<-release
		return errBoom
	}
	s := newTestStore(remote, &recorder{})

	// a: false -> true in memory, write pending
	w, err := s.Begin("a")
	require.NoError(t, err)
	errc := make(chan error, 1)
	go func() { errc <- s.Commit(context.Background(), w) }()

	_, err = s.Load(context.Background(), "user-1")
	require.NoError(t, err)

	close(release)
	require.ErrorIs(t, <-errc, ErrSyncFailed)
	assert.True(t, completed(t, s, "a"), "loaded state wins over a stale rollback")
}

func TestToggleDuringLoadFetchWins(t *testing.T) {
	defer goleak.VerifyNone(t)

	remote := newFakeRemote()
	remote.records["user-1/b"] = model.ProgressRecord{UserID: "user-1", ItemID: "b", Completed: true}
	fetching := make(chan struct{})
	release := make(chan struct{})
	remote.fetchFn = func() {
		close(fetching)
		<-release
	}
	s := newTestStore(remote, &recorder{})
	ctx := context.Background()

	type result struct {
		items []model.Item
		err   error
	}
	done := make(chan result, 1)
	go func() {
		items, err := s.Load(ctx, "user-1")
		done <- result{items, err}
	}()
	<-fetching

	// The fetched snapshot has no record for a; this toggle lands after it.
	require.NoError(t, s.Toggle(ctx, "a"))
	remote.mu.Lock()
	assert.True(t, remote.records["user-1/a"].Completed)
	remote.mu.Unlock()

	close(release)
	res := <-done
	require.NoError(t, res.err)

	assert.True(t, completed(t, s, "a"), "a toggle made during the fetch is newer than the snapshot")
	assert.True(t, completed(t, s, "b"), "untouched items take the fetched value")
	for _, it := range res.items {
		if it.ID == "a" {
			assert.True(t, it.Completed)
		}
	}
}

func TestResetAll(t *testing.T) {
	remote := newFakeRemote()
	notes := &recorder{}
	s := newTestStore(remote, notes)
	ctx := context.Background()
	require.NoError(t, s.Toggle(ctx, "a"))

	require.NoError(t, s.ResetAll(ctx, "user-1"))
	for _, it := range s.Items() {
		assert.False(t, it.Completed, it.ID)
	}
	assert.Equal(t, 1, remote.deletes)
	assert.Empty(t, remote.records)
	assert.Equal(t, 1, notes.count("Progress reset"))
}

func TestResetAllFailureKeepsLocalReset(t *testing.T) {
	remote := newFakeRemote()
	remote.deleteErr = errBoom
	notes := &recorder{}
	s := newTestStore(remote, notes)

	err := s.ResetAll(context.Background(), "user-1")
	require.ErrorIs(t, err, ErrResetFailed)
	assert.False(t, completed(t, s, "b"), "local reset is not rolled back")
	assert.Equal(t, 1, notes.count("Reset failed"))
}

func TestResetAllRequiresUser(t *testing.T) {
	remote := newFakeRemote()
	s := newTestStore(remote, &recorder{})
	require.ErrorIs(t, s.ResetAll(context.Background(), ""), ErrUnauthenticated)
	assert.True(t, completed(t, s, "b"))
	assert.Zero(t, remote.deletes)
}

func TestConcurrentTogglesOnDifferentItems(t *testing.T) {
	defer goleak.VerifyNone(t)

	items := make([]model.Item, 0, 32)
	for i := 0; i < 32; i++ {
		items = append(items, model.Item{ID: fmt.Sprintf("item-%02d", i), Category: model.CategoryEarly})
	}
	remote := newFakeRemote()
	remote.upsertFn = func(ctx context.Context, rec model.ProgressRecord) error {
		if rec.ItemID[len(rec.ItemID)-1]%2 == 1 {
			return errBoom
		}
		return nil
	}
	s := New(items, remote, staticAuth("user-1"))

	g, ctx := errgroup.WithContext(context.Background())
	for _, it := range items {
		id := it.ID
		g.Go(func() error {
			_ = s.Toggle(ctx, id)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for _, it := range s.Items() {
		odd := it.ID[len(it.ID)-1]%2 == 1
		assert.Equal(t, !odd, it.Completed, it.ID)
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	s := newTestStore(newFakeRemote(), &recorder{})
	snap := s.Items()
	snap[0].Completed = true
	assert.False(t, completed(t, s, "a"))
}
