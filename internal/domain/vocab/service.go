package vocab

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// KeywordStore is the persistence dependency of the service.
type KeywordStore interface {
	List(ctx context.Context) ([]Keyword, error)
	Add(ctx context.Context, word string, addedBy uuid.UUID) (*Keyword, error)
	Remove(ctx context.Context, word string) error
}

// Service owns the live vocabulary: the built-in Bulgarian set merged with
// custom keywords from the store. It hands the extraction engine a
// Vocabulary and keeps the Reviewer in sync when keywords change.
type Service struct {
	store    KeywordStore
	vocab    *Vocabulary
	reviewer *Reviewer
	logger   *slog.Logger
}

// NewService creates the vocabulary service with the built-in word set
// active. Call Reload to merge stored custom keywords.
func NewService(store KeywordStore, logger *slog.Logger) *Service {
	v := DefaultBulgarian()
	return &Service{
		store:    store,
		vocab:    v,
		reviewer: NewReviewer(v),
		logger:   logger,
	}
}

// Vocabulary returns the live vocabulary for injection into the parser.
func (s *Service) Vocabulary() *Vocabulary { return s.vocab }

// Reviewer returns the review toolkit bound to the live vocabulary.
func (s *Service) Reviewer() *Reviewer { return s.reviewer }

// Reload rebuilds the vocabulary from the built-in set plus every stored
// custom keyword, then rebuilds the reviewer.
func (s *Service) Reload(ctx context.Context) error {
	custom, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load custom keywords: %w", err)
	}

	words := make([]string, 0, len(defaultBulgarianUnits)+len(custom))
	words = append(words, defaultBulgarianUnits...)
	for _, k := range custom {
		words = append(words, k.Word)
	}

	s.vocab.Replace(words)
	s.reviewer.Build(s.vocab)

	s.logger.Info("vocabulary reloaded",
		slog.Int("builtin", len(defaultBulgarianUnits)),
		slog.Int("custom", len(custom)),
	)
	return nil
}

// ListKeywords returns the stored custom keywords.
func (s *Service) ListKeywords(ctx context.Context) ([]Keyword, error) {
	return s.store.List(ctx)
}

// AddKeyword persists a custom keyword and activates it immediately.
func (s *Service) AddKeyword(ctx context.Context, word string, addedBy uuid.UUID) (*Keyword, error) {
	k, err := s.store.Add(ctx, word, addedBy)
	if err != nil {
		return nil, err
	}
	s.vocab.Add(k.Word)
	s.reviewer.Build(s.vocab)
	return k, nil
}

// RemoveKeyword deletes a custom keyword and rebuilds the vocabulary so a
// built-in word of the same spelling survives removal.
func (s *Service) RemoveKeyword(ctx context.Context, word string) error {
	if err := s.store.Remove(ctx, word); err != nil {
		return err
	}
	return s.Reload(ctx)
}
