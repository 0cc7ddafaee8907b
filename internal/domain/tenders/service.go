package tenders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidTender rejects tenders missing required fields.
var ErrInvalidTender = errors.New("invalid tender")

// TenderStore is the persistence dependency of the service.
type TenderStore interface {
	CreateTender(ctx context.Context, t *Tender) error
	GetTender(ctx context.Context, id uuid.UUID) (*Tender, error)
	ListTenders(ctx context.Context, limit, offset int) ([]Tender, error)
	UpdateTender(ctx context.Context, t *Tender) error
	DeleteTender(ctx context.Context, id uuid.UUID) error
	CreateBidder(ctx context.Context, b *Bidder) error
	GetBidder(ctx context.Context, id uuid.UUID) (*Bidder, error)
}

// Service is a thin validation layer over the repository.
type Service struct {
	store  TenderStore
	logger *slog.Logger
}

// NewService creates the tender service.
func NewService(store TenderStore, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Create validates and stores a new tender.
func (s *Service) Create(ctx context.Context, t *Tender) error {
	t.Reference = strings.TrimSpace(t.Reference)
	t.Title = strings.TrimSpace(t.Title)
	if t.Reference == "" {
		return fmt.Errorf("%w: reference is required", ErrInvalidTender)
	}
	if t.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTender)
	}

	if err := s.store.CreateTender(ctx, t); err != nil {
		return err
	}
	s.logger.Info("tender created",
		slog.String("tender_id", t.ID.String()),
		slog.String("reference", t.Reference),
	)
	return nil
}

// Get returns a tender by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Tender, error) {
	return s.store.GetTender(ctx, id)
}

// List pages through tenders, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Tender, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListTenders(ctx, limit, offset)
}

// Update stores mutable tender fields.
func (s *Service) Update(ctx context.Context, t *Tender) error {
	return s.store.UpdateTender(ctx, t)
}

// Delete removes a tender and everything hanging off it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteTender(ctx, id)
}

// RegisterBidder validates and stores a bidder.
func (s *Service) RegisterBidder(ctx context.Context, b *Bidder) error {
	b.Name = strings.TrimSpace(b.Name)
	b.RegistrationNumber = strings.TrimSpace(b.RegistrationNumber)
	if b.Name == "" || b.RegistrationNumber == "" {
		return fmt.Errorf("%w: bidder name and registration number are required", ErrInvalidTender)
	}
	return s.store.CreateBidder(ctx, b)
}

// GetBidder returns a bidder by ID.
func (s *Service) GetBidder(ctx context.Context, id uuid.UUID) (*Bidder, error) {
	return s.store.GetBidder(ctx, id)
}
