package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/scout/internal/application"
	"github.com/hpungsan/scout/internal/db"
	"github.com/hpungsan/scout/internal/errors"
)

// SetStatusInput contains parameters for the SetStatus operation.
type SetStatusInput struct {
	ID     int64
	Status string // any lifecycle status, including "new"; "reject" is an alias
}

// SetStatusOutput contains the result of the SetStatus operation.
type SetStatusOutput struct {
	ID             int64  `json:"id"`
	PreviousStatus string `json:"previous_status"`
	Status         string `json:"status"`
	StatusLabel    string `json:"status_label"`
}

// SetStatus overwrites the status of an application. Setting the current status is a no-op
// that still succeeds.
func SetStatus(ctx context.Context, database *sql.DB, input SetStatusInput) (*SetStatusOutput, error) {
	if input.ID <= 0 {
		return nil, errors.NewInvalidRequest("id must be a positive integer")
	}
	status, err := application.ParseStatus(input.Status)
	if err != nil {
		return nil, err
	}

	existing, err := db.GetByID(ctx, database, input.ID)
	if err != nil {
		return nil, err
	}

	if err := db.UpdateStatus(ctx, database, input.ID, status); err != nil {
		return nil, err
	}

	return &SetStatusOutput{
		ID:             input.ID,
		PreviousStatus: string(existing.Status),
		Status:         string(status),
		StatusLabel:    labels.For(status).String(),
	}, nil
}
