package models

import "time"

// BusinessDay is the open/closed gate for sales. StartedAt is set only while
// Open is true.
type BusinessDay struct {
	Open      bool       `json:"open"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}
