package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/scout/internal/db"
	"github.com/hpungsan/scout/internal/errors"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	ReferrerID *int64 // optional; 0 selects organic submissions
	Limit      int    // default: 20, max: 100
	Offset     int    // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []SummaryRecord `json:"items"`
	Pagination Pagination      `json:"pagination"`
	Sort       string          `json:"sort"`
}

// List retrieves application summaries, newest first.
func List(ctx context.Context, database *sql.DB, input ListInput) (*ListOutput, error) {
	if input.ReferrerID != nil && *input.ReferrerID < 0 {
		return nil, errors.NewInvalidRequest("referrer_id must not be negative")
	}

	// Apply limit defaults and bounds
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	// Ensure offset is non-negative
	offset := max(input.Offset, 0)

	all, err := db.List(ctx, database, db.ListFilter{ReferrerID: input.ReferrerID})
	if err != nil {
		return nil, err
	}
	total := len(all)

	start := min(offset, total)
	end := min(start+limit, total)

	items := make([]SummaryRecord, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, toSummary(&all[i]))
	}

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: end < total,
			Total:   total,
		},
		Sort: "id_desc",
	}, nil
}
