package models

import "time"

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Notification is a user-facing toast message. Duration is how long the toast
// stays on screen.
type Notification struct {
	Severity   Severity      `json:"severity"`
	Message    string        `json:"message"`
	Duration   time.Duration `json:"-"`
	DurationMS int64         `json:"duration_ms,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}
