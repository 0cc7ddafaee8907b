// Package tenders holds the CRUD surface for tenders and bidders, the
// context every parsed bid hangs off.
package tenders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned for missing tenders or bidders.
var ErrNotFound = errors.New("not found")

// Tender is one public procurement procedure scraped from the portal.
type Tender struct {
	ID          uuid.UUID  `json:"id"`
	Reference   string     `json:"reference"` // portal procedure number
	Title       string     `json:"title"`
	Authority   string     `json:"authority"` // contracting authority name
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Bidder is one participating company.
type Bidder struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	RegistrationNumber string    `json:"registration_number"` // national company register ID
	CreatedAt          time.Time `json:"created_at"`
}

// Repository persists tenders and bidders in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a tender repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateTender inserts a tender.
func (r *Repository) CreateTender(ctx context.Context, t *Tender) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tenders (id, reference, title, authority, published_at, deadline)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		t.ID, t.Reference, t.Title, t.Authority, t.PublishedAt, t.Deadline,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tender: %w", err)
	}
	return nil
}

// GetTender retrieves a tender by ID.
func (r *Repository) GetTender(ctx context.Context, id uuid.UUID) (*Tender, error) {
	t := &Tender{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, reference, title, authority, published_at, deadline, created_at, updated_at
		FROM tenders WHERE id = $1`, id,
	).Scan(&t.ID, &t.Reference, &t.Title, &t.Authority, &t.PublishedAt, &t.Deadline, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tender: %w", err)
	}
	return t, nil
}

// ListTenders returns tenders newest first.
func (r *Repository) ListTenders(ctx context.Context, limit, offset int) ([]Tender, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, reference, title, authority, published_at, deadline, created_at, updated_at
		FROM tenders ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenders: %w", err)
	}
	defer rows.Close()

	var tenders []Tender
	for rows.Next() {
		var t Tender
		if err := rows.Scan(&t.ID, &t.Reference, &t.Title, &t.Authority, &t.PublishedAt, &t.Deadline, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tender: %w", err)
		}
		tenders = append(tenders, t)
	}
	return tenders, rows.Err()
}

// UpdateTender updates mutable tender fields.
func (r *Repository) UpdateTender(ctx context.Context, t *Tender) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE tenders
		SET title = $2, authority = $3, published_at = $4, deadline = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		t.ID, t.Title, t.Authority, t.PublishedAt, t.Deadline,
	).Scan(&t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update tender: %w", err)
	}
	return nil
}

// DeleteTender removes a tender and, through cascade, its documents and bids.
func (r *Repository) DeleteTender(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tenders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tender: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateBidder inserts a bidder, keyed by registration number for
// idempotent portal re-syncs.
func (r *Repository) CreateBidder(ctx context.Context, b *Bidder) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO bidders (id, name, registration_number)
		VALUES ($1, $2, $3)
		ON CONFLICT (registration_number) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, created_at`,
		b.ID, b.Name, b.RegistrationNumber,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bidder: %w", err)
	}
	return nil
}

// GetBidder retrieves a bidder by ID.
func (r *Repository) GetBidder(ctx context.Context, id uuid.UUID) (*Bidder, error) {
	b := &Bidder{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, registration_number, created_at FROM bidders WHERE id = $1`, id,
	).Scan(&b.ID, &b.Name, &b.RegistrationNumber, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bidder: %w", err)
	}
	return b, nil
}
