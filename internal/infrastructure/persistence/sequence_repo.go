package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"acquisition_desk/internal/domain"
	"acquisition_desk/pkg/errcodes"
)

// SequenceRepository hands out per-prefix sequence numbers from the
// stock_sequences counter table.
type SequenceRepository struct {
	db *sqlx.DB
}

func NewSequenceRepository(db *sqlx.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Next increments and returns the counter for prefix. A missing counter is
// seeded from the highest sequence already stored under the prefix, so
// switching from scan mode never reuses a number.
func (r *SequenceRepository) Next(ctx context.Context, prefix string) (int, error) {
	query := `
		INSERT INTO stock_sequences (prefix, last_sequence)
		SELECT $1, COALESCE(MAX(substr(stock_number, length($1) + 1)::bigint), 0) + 1
		FROM vehicles
		WHERE left(stock_number, length($1)) = $1
		  AND substr(stock_number, length($1) + 1) ~ '^[0-9]+$'
		ON CONFLICT (prefix) DO UPDATE
			SET last_sequence = stock_sequences.last_sequence + 1
		RETURNING last_sequence`

	var next int
	if err := r.db.GetContext(ctx, &next, query, prefix); err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to increment sequence")
	}

	return next, nil
}
