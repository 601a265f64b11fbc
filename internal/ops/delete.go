package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/scout/internal/db"
	"github.com/hpungsan/scout/internal/errors"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID      int64
	Confirm bool // must be true; mirrors the two-step delete of the review panel
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool  `json:"deleted"`
	ID      int64 `json:"id"`
}

// Delete permanently removes an application. The submitter may apply again afterwards.
func Delete(ctx context.Context, database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	if input.ID <= 0 {
		return nil, errors.NewInvalidRequest("id must be a positive integer")
	}
	if !input.Confirm {
		return nil, errors.NewInvalidRequest("delete requires confirmation")
	}

	if err := db.Delete(ctx, database, input.ID); err != nil {
		return nil, err
	}

	return &DeleteOutput{
		Deleted: true,
		ID:      input.ID,
	}, nil
}
