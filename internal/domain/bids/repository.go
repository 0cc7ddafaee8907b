// Package bids orchestrates the parsing pipeline: it feeds document text
// through the extraction engine, scores completeness and persists the
// resulting bid tables.
package bids

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/bid-ledger/internal/domain/extraction"
)

// ErrBidNotFound is returned when no parse result exists for a document.
var ErrBidNotFound = errors.New("bid not found")

// Bid is a persisted parse result: the extraction engine's output plus the
// identifiers and completeness score the platform attaches.
type Bid struct {
	ID           uuid.UUID                 `json:"id"`
	DocumentID   uuid.UUID                 `json:"document_id"`
	TenderID     uuid.UUID                 `json:"tender_id"`
	BidderID     uuid.UUID                 `json:"bidder_id"`
	Completeness float64                   `json:"completeness"`
	Items        []extraction.BidItem      `json:"items"`
	Warnings     []extraction.ParseWarning `json:"warnings"`
	CreatedAt    time.Time                 `json:"created_at"`
}

// DB is the subset of pgxpool.Pool the repository needs; pgxmock implements
// it for tests.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository persists bids, their items and their warnings.
type Repository struct {
	db DB
}

// NewRepository creates a bid repository.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// Save stores a complete parse result in one transaction. A re-parse of the
// same document replaces the previous bid wholesale; bids are never
// partially updated.
func (r *Repository) Save(ctx context.Context, bid *Bid) error {
	if bid.ID == uuid.Nil {
		bid.ID = uuid.New()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin bid save: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM bids WHERE document_id = $1`, bid.DocumentID); err != nil {
		return fmt.Errorf("failed to clear previous bid: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO bids (id, document_id, tender_id, bidder_id, completeness)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		bid.ID, bid.DocumentID, bid.TenderID, bid.BidderID, bid.Completeness,
	).Scan(&bid.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert bid: %w", err)
	}

	for _, item := range bid.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO bid_items (
				bid_id, item_number, cpv_code, name, unit,
				quantity, unit_price, total_price, vat_amount, total_with_vat,
				raw_text, lot_number, lot_description
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			bid.ID, item.ItemNumber, item.CPVCode, item.Name, item.Unit,
			decString(item.Quantity), decString(item.UnitPrice), decString(item.TotalPrice),
			decString(item.VATAmount), decString(item.TotalWithVAT),
			item.RawText, item.LotNumber, item.LotDescription,
		); err != nil {
			return fmt.Errorf("failed to insert bid item %d: %w", item.ItemNumber, err)
		}
	}

	for i, w := range bid.Warnings {
		if _, err := tx.Exec(ctx, `
			INSERT INTO parse_warnings (bid_id, position, kind, message, raw_text, item_number)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			bid.ID, i, string(w.Kind), w.Message, w.RawText, w.ItemNumber,
		); err != nil {
			return fmt.Errorf("failed to insert parse warning: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit bid save: %w", err)
	}
	return nil
}

// GetByDocument loads the bid for a document, items and warnings included.
func (r *Repository) GetByDocument(ctx context.Context, documentID uuid.UUID) (*Bid, error) {
	bid := &Bid{}
	err := r.db.QueryRow(ctx, `
		SELECT id, document_id, tender_id, bidder_id, completeness, created_at
		FROM bids WHERE document_id = $1`, documentID,
	).Scan(&bid.ID, &bid.DocumentID, &bid.TenderID, &bid.BidderID, &bid.Completeness, &bid.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBidNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bid: %w", err)
	}

	if bid.Items, err = r.loadItems(ctx, bid.ID); err != nil {
		return nil, err
	}
	if bid.Warnings, err = r.loadWarnings(ctx, bid.ID); err != nil {
		return nil, err
	}
	return bid, nil
}

// ListByTender returns bid headers for a tender (no items), newest first.
func (r *Repository) ListByTender(ctx context.Context, tenderID uuid.UUID) ([]Bid, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, document_id, tender_id, bidder_id, completeness, created_at
		FROM bids WHERE tender_id = $1 ORDER BY created_at DESC`, tenderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	defer rows.Close()

	var bids []Bid
	for rows.Next() {
		var b Bid
		if err := rows.Scan(&b.ID, &b.DocumentID, &b.TenderID, &b.BidderID, &b.Completeness, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		bids = append(bids, b)
	}
	return bids, rows.Err()
}

func (r *Repository) loadItems(ctx context.Context, bidID uuid.UUID) ([]extraction.BidItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT item_number, cpv_code, name, unit,
		       quantity, unit_price, total_price, vat_amount, total_with_vat,
		       raw_text, lot_number, lot_description
		FROM bid_items WHERE bid_id = $1 ORDER BY item_number`, bidID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bid items: %w", err)
	}
	defer rows.Close()

	var items []extraction.BidItem
	for rows.Next() {
		var item extraction.BidItem
		var qty, unitPrice, total, vat, gross *string
		if err := rows.Scan(
			&item.ItemNumber, &item.CPVCode, &item.Name, &item.Unit,
			&qty, &unitPrice, &total, &vat, &gross,
			&item.RawText, &item.LotNumber, &item.LotDescription,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bid item: %w", err)
		}
		if item.Quantity, err = parseDec(qty); err != nil {
			return nil, err
		}
		if item.UnitPrice, err = parseDec(unitPrice); err != nil {
			return nil, err
		}
		if item.TotalPrice, err = parseDec(total); err != nil {
			return nil, err
		}
		if item.VATAmount, err = parseDec(vat); err != nil {
			return nil, err
		}
		if item.TotalWithVAT, err = parseDec(gross); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *Repository) loadWarnings(ctx context.Context, bidID uuid.UUID) ([]extraction.ParseWarning, error) {
	rows, err := r.db.Query(ctx, `
		SELECT kind, message, raw_text, item_number
		FROM parse_warnings WHERE bid_id = $1 ORDER BY position`, bidID)
	if err != nil {
		return nil, fmt.Errorf("failed to load parse warnings: %w", err)
	}
	defer rows.Close()

	var warnings []extraction.ParseWarning
	for rows.Next() {
		var w extraction.ParseWarning
		var kind string
		if err := rows.Scan(&kind, &w.Message, &w.RawText, &w.ItemNumber); err != nil {
			return nil, fmt.Errorf("failed to scan parse warning: %w", err)
		}
		w.Kind = extraction.WarningKind(kind)
		warnings = append(warnings, w)
	}
	return warnings, rows.Err()
}

// decString renders a nullable fixed-point value for a NUMERIC(14,2) column.
func decString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(2)
	return &s
}

func parseDec(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored amount %q: %w", *s, err)
	}
	return &d, nil
}
