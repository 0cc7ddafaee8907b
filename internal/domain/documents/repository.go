// Package documents manages extracted bid-document text files: registration
// with content-hash deduplication, storage, and the parse status lifecycle.
package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Status is the document parse lifecycle state.
type Status string

const (
	StatusUploaded Status = "uploaded"
	StatusParsed   Status = "parsed"
	StatusFailed   Status = "failed"
)

// Document is one registered bid document for a tender/bidder pair.
type Document struct {
	ID             uuid.UUID  `json:"id"`
	TenderID       uuid.UUID  `json:"tender_id"`
	BidderID       uuid.UUID  `json:"bidder_id"`
	FileID         uuid.UUID  `json:"file_id"`
	Filename       string     `json:"filename"`
	ContentHash    string     `json:"content_hash"` // hex sha256 of the text
	Status         Status     `json:"status"`
	LotNumber      *string    `json:"lot_number,omitempty"`
	LotDescription *string    `json:"lot_description,omitempty"`
	FailureReason  *string    `json:"failure_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	ParsedAt       *time.Time `json:"parsed_at,omitempty"`
}

var (
	// ErrDuplicateDocument is returned when the same content was already
	// registered for the tender.
	ErrDuplicateDocument = errors.New("document with identical content already registered")
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
)

// Repository persists documents in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a document repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new document row.
func (r *Repository) Create(ctx context.Context, doc *Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO documents (id, tender_id, bidder_id, file_id, filename, content_hash, status, lot_number, lot_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`,
		doc.ID, doc.TenderID, doc.BidderID, doc.FileID, doc.Filename,
		doc.ContentHash, doc.Status, doc.LotNumber, doc.LotDescription,
	).Scan(&doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// GetByID retrieves a document.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	doc := &Document{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, tender_id, bidder_id, file_id, filename, content_hash, status,
		       lot_number, lot_description, failure_reason, created_at, parsed_at
		FROM documents WHERE id = $1`, id,
	).Scan(
		&doc.ID, &doc.TenderID, &doc.BidderID, &doc.FileID, &doc.Filename,
		&doc.ContentHash, &doc.Status, &doc.LotNumber, &doc.LotDescription,
		&doc.FailureReason, &doc.CreatedAt, &doc.ParsedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// FindByHash looks up a document of the tender by content hash, for dedup.
func (r *Repository) FindByHash(ctx context.Context, tenderID uuid.UUID, hash string) (*Document, error) {
	doc := &Document{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, tender_id, bidder_id, file_id, filename, content_hash, status,
		       lot_number, lot_description, failure_reason, created_at, parsed_at
		FROM documents WHERE tender_id = $1 AND content_hash = $2`, tenderID, hash,
	).Scan(
		&doc.ID, &doc.TenderID, &doc.BidderID, &doc.FileID, &doc.Filename,
		&doc.ContentHash, &doc.Status, &doc.LotNumber, &doc.LotDescription,
		&doc.FailureReason, &doc.CreatedAt, &doc.ParsedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find document by hash: %w", err)
	}
	return doc, nil
}

// ListPending returns documents still awaiting a parse, oldest first.
func (r *Repository) ListPending(ctx context.Context, limit int) ([]Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tender_id, bidder_id, file_id, filename, content_hash, status,
		       lot_number, lot_description, failure_reason, created_at, parsed_at
		FROM documents WHERE status = $1 ORDER BY created_at LIMIT $2`,
		StatusUploaded, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(
			&doc.ID, &doc.TenderID, &doc.BidderID, &doc.FileID, &doc.Filename,
			&doc.ContentHash, &doc.Status, &doc.LotNumber, &doc.LotDescription,
			&doc.FailureReason, &doc.CreatedAt, &doc.ParsedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// MarkParsed records a successful parse.
func (r *Repository) MarkParsed(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE documents SET status = $2, parsed_at = now(), failure_reason = NULL
		WHERE id = $1`, id, StatusParsed)
	if err != nil {
		return fmt.Errorf("failed to mark document parsed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkFailed records a fatal parse failure with its reason.
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE documents SET status = $2, failure_reason = $3
		WHERE id = $1`, id, StatusFailed, reason)
	if err != nil {
		return fmt.Errorf("failed to mark document failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
