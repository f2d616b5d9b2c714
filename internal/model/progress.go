package model

import "time"

// ProgressRecord is the remote projection of one item's completion for one user.
// (UserID, ItemID) is unique on the remote side.
type ProgressRecord struct {
	UserID      string     `json:"user_id"`
	ItemID      string     `json:"item_id"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Severity grades a user-visible notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)
