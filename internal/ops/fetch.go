package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/scout/internal/db"
	"github.com/hpungsan/scout/internal/errors"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID int64
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	Record
}

// Fetch retrieves one application by id.
func Fetch(ctx context.Context, database *sql.DB, input FetchInput) (*FetchOutput, error) {
	if input.ID <= 0 {
		return nil, errors.NewInvalidRequest("id must be a positive integer")
	}

	a, err := db.GetByID(ctx, database, input.ID)
	if err != nil {
		return nil, err
	}
	return &FetchOutput{Record: ToRecord(a)}, nil
}
