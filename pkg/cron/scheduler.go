// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/FACorreiaa/bid-ledger/internal/domain/bids"
	"github.com/FACorreiaa/bid-ledger/internal/domain/vocab"
	"github.com/FACorreiaa/bid-ledger/pkg/config"
)

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron   *cron.Cron
	bids   *bids.Service
	vocab  *vocab.Service
	cfg    config.SchedulerConfig
	logger *slog.Logger
}

// NewScheduler creates a new job scheduler.
func NewScheduler(bidSvc *bids.Service, vocabSvc *vocab.Service, cfg config.SchedulerConfig, logger *slog.Logger) *Scheduler {
	// Create cron with seconds disabled (standard 5-field format)
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:   c,
		bids:   bidSvc,
		vocab:  vocabSvc,
		cfg:    cfg,
		logger: logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.ParseSpec, s.sweepPendingDocuments); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.VocabReloadSpec, s.reloadVocabulary); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers the pending-document sweep (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.sweepPendingDocuments()
}

// sweepPendingDocuments parses every document still waiting in the queue.
func (s *Scheduler) sweepPendingDocuments() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	s.logger.Info("starting pending-document sweep")

	parsed, err := s.bids.ParsePending(ctx, s.cfg.BatchSize, s.cfg.MaxConcurrent)
	if err != nil {
		s.logger.Error("pending-document sweep failed", slog.Any("error", err))
		return
	}

	s.logger.Info("pending-document sweep finished", slog.Int("parsed", parsed))
}

// reloadVocabulary refreshes the unit vocabulary from the database so
// keywords added on other instances become active here too.
func (s *Scheduler) reloadVocabulary() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.vocab.Reload(ctx); err != nil {
		s.logger.Error("vocabulary reload failed", slog.Any("error", err))
	}
}
