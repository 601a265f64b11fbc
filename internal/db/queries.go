package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/scout/internal/application"
	"github.com/hpungsan/scout/internal/errors"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.ScoutError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

const selectColumns = `
	SELECT id, full_name, date_of_birth, english_level, cpu, gpu, connectivity,
		phone, contact_handle, status, submitted_at, referrer_id, submitter_id
	FROM applications
`

// Insert stores a new application and returns its assigned id.
// A second application for the same submitter yields ErrUniqueConstraint.
func Insert(ctx context.Context, db *sql.DB, a *application.Application) (int64, error) {
	status := a.Status
	if status == "" {
		status = application.StatusNew
	}

	query := `
		INSERT INTO applications (
			full_name, date_of_birth, english_level, cpu, gpu, connectivity,
			phone, contact_handle, status, submitted_at, referrer_id, submitter_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := db.ExecContext(ctx, query,
		a.FullName, a.DateOfBirth, a.EnglishLevel, a.CPU, a.GPU, a.ConnectivityAnswer,
		a.Phone, a.ContactHandle, string(status), a.SubmittedAt.Format(application.DateLayout),
		a.ReferrerID, a.SubmitterID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return 0, ErrUniqueConstraint
		}
		return 0, errors.NewInternal(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return id, nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetByID retrieves an application by its id.
func GetByID(ctx context.Context, db *sql.DB, id int64) (*application.Application, error) {
	row := db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	a, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return a, nil
}

// GetBySubmitter retrieves the application filed by a submitter.
func GetBySubmitter(ctx context.Context, db *sql.DB, submitterID int64) (*application.Application, error) {
	row := db.QueryRowContext(ctx, selectColumns+" WHERE submitter_id = ?", submitterID)
	a, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(0)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return a, nil
}

// CheckSubmitterExists checks if the submitter already has an application.
func CheckSubmitterExists(ctx context.Context, db *sql.DB, submitterID int64) (bool, error) {
	var exists int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM applications WHERE submitter_id = ? LIMIT 1`, submitterID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return true, nil
}

// ListFilter narrows List. A nil ReferrerID lists every application.
type ListFilter struct {
	ReferrerID *int64
}

// List returns applications ordered by id descending (most recent first).
func List(ctx context.Context, db *sql.DB, filter ListFilter) ([]application.Application, error) {
	query := selectColumns
	var args []any
	if filter.ReferrerID != nil {
		query += " WHERE referrer_id = ?"
		args = append(args, *filter.ReferrerID)
	}
	query += " ORDER BY id DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var items []application.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return items, nil
}

// UpdateStatus sets the status of one application in a single statement.
// Re-applying the current status is a successful no-op.
func UpdateStatus(ctx context.Context, db *sql.DB, id int64, status application.Status) error {
	if !status.Valid() {
		return errors.NewInvalidStatus(string(status))
	}

	result, err := db.ExecContext(ctx, `UPDATE applications SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}
	return nil
}

// Delete permanently removes an application.
func Delete(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM applications WHERE id = ?`, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}
	return nil
}

// Count returns the number of stored applications.
func Count(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications`).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanApplication scans a single row into an Application struct.
func scanApplication(row rowScanner) (*application.Application, error) {
	var (
		a           application.Application
		status      string
		submittedAt string
	)

	err := row.Scan(
		&a.ID, &a.FullName, &a.DateOfBirth, &a.EnglishLevel, &a.CPU, &a.GPU, &a.ConnectivityAnswer,
		&a.Phone, &a.ContactHandle, &status, &submittedAt, &a.ReferrerID, &a.SubmitterID,
	)
	if err != nil {
		return nil, err
	}

	a.Status = application.Status(status)
	a.SubmittedAt, err = time.ParseInLocation(application.DateLayout, submittedAt, time.UTC)
	if err != nil {
		return nil, err
	}

	return &a, nil
}
