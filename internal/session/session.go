// Package session holds in-progress questionnaires keyed by submitter identity.
package session

import (
	"context"
	"time"
)

// Answers collects the free-text answers given so far.
type Answers struct {
	FullName     string `json:"full_name,omitempty"`
	DateOfBirth  string `json:"date_of_birth,omitempty"`
	EnglishLevel string `json:"english_level,omitempty"`
	CPU          string `json:"cpu,omitempty"`
	GPU          string `json:"gpu,omitempty"`
	Connectivity string `json:"connectivity,omitempty"`
}

// Session is one submitter's questionnaire between the start event and completion.
type Session struct {
	ID          string    `json:"id"`
	SubmitterID int64     `json:"submitter_id"`
	Step        string    `json:"step"`
	Answers     Answers   `json:"answers"`
	ReferrerID  int64     `json:"referrer_id"`
	StartedAt   time.Time `json:"started_at"`
}

// Store keeps sessions keyed by submitter identity.
// Abandoned sessions are never reclaimed.
type Store interface {
	Get(ctx context.Context, submitterID int64) (*Session, bool, error)
	Put(ctx context.Context, s *Session) error
	Clear(ctx context.Context, submitterID int64) error
}
