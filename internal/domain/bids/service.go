package bids

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/bid-ledger/internal/domain/documents"
	"github.com/FACorreiaa/bid-ledger/internal/domain/extraction"
	"github.com/FACorreiaa/bid-ledger/pkg/metrics"
)

// DocumentSource is what the service needs from the documents domain.
type DocumentSource interface {
	Get(ctx context.Context, id uuid.UUID) (*documents.Document, error)
	Lines(ctx context.Context, doc *documents.Document) ([]string, error)
	ListPending(ctx context.Context, limit int) ([]documents.Document, error)
	MarkParsed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

// BidStore persists parse results.
type BidStore interface {
	Save(ctx context.Context, bid *Bid) error
	GetByDocument(ctx context.Context, documentID uuid.UUID) (*Bid, error)
	ListByTender(ctx context.Context, tenderID uuid.UUID) ([]Bid, error)
}

// FailureNotifier reports fatal parse failures to reviewers.
type FailureNotifier interface {
	NotifyParseFailure(documentID, filename, reason string)
}

// Service runs documents through the extraction engine and persists the
// results. One document's parse is sequential; across documents the service
// fans out with bounded concurrency, with failures isolated per document.
type Service struct {
	docs     DocumentSource
	repo     BidStore
	parser   *extraction.Parser
	metrics  *metrics.Metrics
	notifier FailureNotifier
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewService creates the bid parsing service.
func NewService(docs DocumentSource, repo BidStore, parser *extraction.Parser, m *metrics.Metrics, notifier FailureNotifier, logger *slog.Logger) *Service {
	return &Service{
		docs:     docs,
		repo:     repo,
		parser:   parser,
		metrics:  m,
		notifier: notifier,
		tracer:   otel.Tracer("bids"),
		logger:   logger,
	}
}

// ParseDocument parses one registered document and stores the resulting bid.
// Malformed content never fails the call; the bid carries warnings instead.
// A fatal error (caller-contract violation in the stored text) marks the
// document failed and notifies reviewers.
func (s *Service) ParseDocument(ctx context.Context, documentID uuid.UUID) (*Bid, error) {
	ctx, span := s.tracer.Start(ctx, "bids.ParseDocument",
		trace.WithAttributes(attribute.String("document.id", documentID.String())))
	defer span.End()

	doc, err := s.docs.Get(ctx, documentID)
	if err != nil {
		span.SetStatus(codes.Error, "document lookup failed")
		return nil, err
	}

	lines, err := s.docs.Lines(ctx, doc)
	if err != nil {
		span.SetStatus(codes.Error, "document read failed")
		return nil, err
	}

	start := time.Now()
	parsed, err := s.parser.Parse(lines, extraction.LotContext{
		Number:      doc.LotNumber,
		Description: doc.LotDescription,
	})
	s.metrics.ParseDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.metrics.DocumentsParsed.WithLabelValues("failed").Inc()
		span.SetStatus(codes.Error, err.Error())

		if markErr := s.docs.MarkFailed(ctx, doc.ID, err.Error()); markErr != nil {
			s.logger.Error("failed to mark document failed", slog.Any("error", markErr))
		}
		s.notifier.NotifyParseFailure(doc.ID.String(), doc.Filename, err.Error())
		return nil, fmt.Errorf("parse rejected: %w", err)
	}

	bid := &Bid{
		DocumentID:   doc.ID,
		TenderID:     doc.TenderID,
		BidderID:     doc.BidderID,
		Completeness: Completeness(parsed),
		Items:        parsed.Items,
		Warnings:     parsed.Warnings,
	}
	if err := s.repo.Save(ctx, bid); err != nil {
		span.SetStatus(codes.Error, "bid save failed")
		return nil, err
	}
	if err := s.docs.MarkParsed(ctx, doc.ID); err != nil {
		s.logger.Error("failed to mark document parsed", slog.Any("error", err))
	}

	s.metrics.DocumentsParsed.WithLabelValues("parsed").Inc()
	s.metrics.ItemsExtracted.Add(float64(len(bid.Items)))
	for _, w := range bid.Warnings {
		s.metrics.ParseWarnings.WithLabelValues(string(w.Kind)).Inc()
	}

	span.SetAttributes(
		attribute.Int("bid.items", len(bid.Items)),
		attribute.Int("bid.warnings", len(bid.Warnings)),
		attribute.Float64("bid.completeness", bid.Completeness),
	)
	s.logger.Info("document parsed",
		slog.String("document_id", doc.ID.String()),
		slog.Int("items", len(bid.Items)),
		slog.Int("warnings", len(bid.Warnings)),
	)
	return bid, nil
}

// ParsePending sweeps uploaded documents and parses them with at most
// maxConcurrent parses in flight. One document's failure never aborts the
// sweep; parsing is stateless and idempotent, so failed documents are safe
// to retry on the next sweep.
func (s *Service) ParsePending(ctx context.Context, batchSize, maxConcurrent int) (int, error) {
	pending, err := s.docs.ListPending(ctx, batchSize)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for _, doc := range pending {
		doc := doc
		g.Go(func() error {
			if _, err := s.ParseDocument(ctx, doc.ID); err != nil {
				s.logger.Warn("pending document parse failed",
					slog.String("document_id", doc.ID.String()),
					slog.Any("error", err),
				)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(pending), nil
}

// GetByDocument returns the stored bid for a document.
func (s *Service) GetByDocument(ctx context.Context, documentID uuid.UUID) (*Bid, error) {
	return s.repo.GetByDocument(ctx, documentID)
}

// ListByTender returns bid headers for a tender.
func (s *Service) ListByTender(ctx context.Context, tenderID uuid.UUID) ([]Bid, error) {
	return s.repo.ListByTender(ctx, tenderID)
}
