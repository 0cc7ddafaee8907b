// Package cpv provides the Common Procurement Vocabulary dictionary: code
// validation, description lookup and full-text search over descriptions for
// the review dashboard.
package cpv

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// codePattern matches an 8-digit CPV code with an optional check digit.
var codePattern = regexp.MustCompile(`^\d{8}(-\d)?$`)

// ErrUnknownCode is returned when a code is absent from the dictionary.
var ErrUnknownCode = errors.New("cpv code not in dictionary")

// Entry is one dictionary row: a CPV code and its official description.
type Entry struct {
	Code        string    `json:"code"` // 8 digits, no check digit
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsValidCode reports whether s is a well-formed CPV code, check digit
// included if present.
func IsValidCode(s string) bool {
	return codePattern.MatchString(s)
}

// BaseCode strips the optional check-digit suffix: "50421200-4" → "50421200".
func BaseCode(s string) string {
	code, _, _ := strings.Cut(s, "-")
	return code
}

// Repository loads dictionary entries from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a dictionary repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get returns the entry for a code, accepting codes with or without a check
// digit.
func (r *Repository) Get(ctx context.Context, code string) (*Entry, error) {
	if !IsValidCode(code) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCode, code)
	}

	e := &Entry{}
	err := r.pool.QueryRow(ctx,
		`SELECT code, description, created_at FROM cpv_codes WHERE code = $1`,
		BaseCode(code),
	).Scan(&e.Code, &e.Description, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUnknownCode
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cpv entry: %w", err)
	}
	return e, nil
}

// All streams every dictionary entry, used to seed the search index at
// startup.
func (r *Repository) All(ctx context.Context) ([]Entry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT code, description, created_at FROM cpv_codes ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cpv entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Code, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cpv entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// NamePlausibility scores how close an extracted item name sits to the
// official description of its CPV code, on fuzzy token overlap. The score
// is a review hint in [0,1]; it never changes parse output.
func NamePlausibility(name, description string) float64 {
	nameTokens := strings.Fields(strings.ToLower(name))
	descTokens := strings.Fields(strings.ToLower(description))
	if len(nameTokens) == 0 || len(descTokens) == 0 {
		return 0
	}

	hits := 0
	for _, nt := range nameTokens {
		for _, dt := range descTokens {
			if nt == dt || fuzzy.MatchNormalizedFold(nt, dt) {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(len(nameTokens))
}
