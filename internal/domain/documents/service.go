package documents

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/FACorreiaa/bid-ledger/pkg/storage"
)

// DocumentStore is the persistence dependency of the service.
type DocumentStore interface {
	Create(ctx context.Context, doc *Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	FindByHash(ctx context.Context, tenderID uuid.UUID, hash string) (*Document, error)
	ListPending(ctx context.Context, limit int) ([]Document, error)
	MarkParsed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

// RegisterParams describes one incoming extracted-text document.
type RegisterParams struct {
	TenderID       uuid.UUID
	BidderID       uuid.UUID
	Filename       string
	LotNumber      *string
	LotDescription *string
}

// Service registers extracted bid-document text and serves its lines to the
// parsing pipeline. PDF-to-text conversion happens upstream; this service
// only ever sees plain text.
type Service struct {
	store  DocumentStore
	files  storage.Storage
	logger *slog.Logger
}

// NewService creates the document service.
func NewService(store DocumentStore, files storage.Storage, logger *slog.Logger) *Service {
	return &Service{store: store, files: files, logger: logger}
}

// Register stores the document text and creates its tracking row. Identical
// content already registered for the tender is rejected with
// ErrDuplicateDocument so re-uploads do not double-count bids.
func (s *Service) Register(ctx context.Context, params RegisterParams, text io.Reader) (*Document, error) {
	content, err := io.ReadAll(text)
	if err != nil {
		return nil, fmt.Errorf("failed to read document text: %w", err)
	}

	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])

	if existing, err := s.store.FindByHash(ctx, params.TenderID, hash); err == nil {
		s.logger.Warn("duplicate document rejected",
			slog.String("tender_id", params.TenderID.String()),
			slog.String("existing_id", existing.ID.String()),
		)
		return nil, ErrDuplicateDocument
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	info, err := s.files.Upload(ctx, params.TenderID, params.Filename, "text/plain; charset=utf-8", bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to store document text: %w", err)
	}

	doc := &Document{
		TenderID:       params.TenderID,
		BidderID:       params.BidderID,
		FileID:         info.ID,
		Filename:       params.Filename,
		ContentHash:    hash,
		Status:         StatusUploaded,
		LotNumber:      params.LotNumber,
		LotDescription: params.LotDescription,
	}
	if err := s.store.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document registered",
		slog.String("document_id", doc.ID.String()),
		slog.String("tender_id", doc.TenderID.String()),
		slog.Int("bytes", len(content)),
	)
	return doc, nil
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	return s.store.GetByID(ctx, id)
}

// ListPending returns documents awaiting a parse.
func (s *Service) ListPending(ctx context.Context, limit int) ([]Document, error) {
	return s.store.ListPending(ctx, limit)
}

// Lines loads the document's stored text and splits it into the trimmed
// line sequence the extraction engine consumes.
func (s *Service) Lines(ctx context.Context, doc *Document) ([]string, error) {
	reader, err := s.files.GetReader(ctx, doc.TenderID, doc.FileID)
	if err != nil {
		return nil, fmt.Errorf("failed to open document text: %w", err)
	}
	defer reader.Close()

	return ReadLines(reader)
}

// MarkParsed flags a successful parse.
func (s *Service) MarkParsed(ctx context.Context, id uuid.UUID) error {
	return s.store.MarkParsed(ctx, id)
}

// MarkFailed flags a fatal parse failure.
func (s *Service) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return s.store.MarkFailed(ctx, id, reason)
}

// ReadLines splits extracted text into trimmed lines, the input contract of
// the extraction engine. Interior blank lines are preserved; the engine
// skips them itself.
func ReadLines(r io.Reader) ([]string, error) {
	lines := make([]string, 0, 256)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read document lines: %w", err)
	}
	return lines, nil
}
