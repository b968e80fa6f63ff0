package model

import "time"

// Attempt is one student query execution, persisted write-only for later
// instructor review. SQL is stored exactly as submitted.
type Attempt struct {
	AssignmentID string
	SessionID    string
	SQL          string
	Succeeded    bool
	ErrorMessage string
	RowCount     int
	CreatedAt    time.Time
}
