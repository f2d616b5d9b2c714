package progress

import "errors"

var (
	// ErrUnauthenticated is returned when persistence is attempted without a user.
	ErrUnauthenticated = errors.New("not signed in")
	// ErrLoadFailed wraps a failed progress fetch. State is left untouched.
	ErrLoadFailed = errors.New("load progress")
	// ErrSyncFailed wraps a failed toggle upsert. The toggle has been rolled back
	// unless a newer write superseded it.
	ErrSyncFailed = errors.New("sync progress")
	// ErrResetFailed wraps a failed remote delete. The local reset stays applied.
	ErrResetFailed = errors.New("reset progress")
)
