package db

import (
	"context"
	"database/sql"

	"github.com/hpungsan/scout/internal/application"
	"github.com/hpungsan/scout/internal/errors"
)

// Store is the record store used by the conversation engine and the review workflow.
type Store struct {
	db *sql.DB
}

// NewStore wraps an initialized database.
func NewStore(database *sql.DB) *Store {
	return &Store{db: database}
}

// Insert persists a new application and returns its id.
// A submitter that already has an application yields ALREADY_APPLIED.
func (s *Store) Insert(ctx context.Context, a *application.Application) (int64, error) {
	id, err := Insert(ctx, s.db, a)
	if err == ErrUniqueConstraint {
		return 0, errors.NewAlreadyApplied(a.SubmitterID)
	}
	return id, err
}

// FindBySubmitter returns the submitter's application or a NOT_FOUND error.
func (s *Store) FindBySubmitter(ctx context.Context, submitterID int64) (*application.Application, error) {
	return GetBySubmitter(ctx, s.db, submitterID)
}

// ExistsBySubmitter reports whether the submitter already has an application.
func (s *Store) ExistsBySubmitter(ctx context.Context, submitterID int64) (bool, error) {
	return CheckSubmitterExists(ctx, s.db, submitterID)
}

// FindByID returns the application or a NOT_FOUND error.
func (s *Store) FindByID(ctx context.Context, id int64) (*application.Application, error) {
	return GetByID(ctx, s.db, id)
}

// ListAll returns every application, most recent first.
func (s *Store) ListAll(ctx context.Context) ([]application.Application, error) {
	return List(ctx, s.db, ListFilter{})
}

// ListByReferrer returns the applications credited to one referrer, most recent first.
func (s *Store) ListByReferrer(ctx context.Context, referrerID int64) ([]application.Application, error) {
	return List(ctx, s.db, ListFilter{ReferrerID: &referrerID})
}

// UpdateStatus changes the status of one application.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status application.Status) error {
	return UpdateStatus(ctx, s.db, id, status)
}

// Delete removes one application.
func (s *Store) Delete(ctx context.Context, id int64) error {
	return Delete(ctx, s.db, id)
}
