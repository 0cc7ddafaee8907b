package vocab

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Keyword is an operator-defined unit keyword persisted alongside the
// built-in vocabulary.
type Keyword struct {
	ID        uuid.UUID `json:"id"`
	Word      string    `json:"word"`
	AddedBy   uuid.UUID `json:"added_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists custom unit keywords.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a keyword repository backed by PostgreSQL.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all custom keywords ordered by word.
func (r *Repository) List(ctx context.Context) ([]Keyword, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, word, added_by, created_at FROM unit_keywords ORDER BY word`)
	if err != nil {
		return nil, fmt.Errorf("failed to list unit keywords: %w", err)
	}
	defer rows.Close()

	var keywords []Keyword
	for rows.Next() {
		var k Keyword
		if err := rows.Scan(&k.ID, &k.Word, &k.AddedBy, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unit keyword: %w", err)
		}
		keywords = append(keywords, k)
	}
	return keywords, rows.Err()
}

// Add inserts a custom keyword. Duplicate words are idempotent.
func (r *Repository) Add(ctx context.Context, word string, addedBy uuid.UUID) (*Keyword, error) {
	k := &Keyword{ID: uuid.New(), Word: normalizeWord(word), AddedBy: addedBy}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO unit_keywords (id, word, added_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (word) DO UPDATE SET word = EXCLUDED.word
		RETURNING id, created_at`,
		k.ID, k.Word, k.AddedBy,
	).Scan(&k.ID, &k.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add unit keyword: %w", err)
	}
	return k, nil
}

// Remove deletes a custom keyword. Removing an unknown word reports
// pgx.ErrNoRows.
func (r *Repository) Remove(ctx context.Context, word string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM unit_keywords WHERE word = $1`, normalizeWord(word))
	if err != nil {
		return fmt.Errorf("failed to remove unit keyword: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
