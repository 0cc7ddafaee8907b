package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/FACorreiaa/bid-ledger/internal/domain/auth"
	"github.com/FACorreiaa/bid-ledger/internal/domain/bids"
	"github.com/FACorreiaa/bid-ledger/internal/domain/cpv"
	"github.com/FACorreiaa/bid-ledger/internal/domain/documents"
	"github.com/FACorreiaa/bid-ledger/internal/domain/extraction"
	"github.com/FACorreiaa/bid-ledger/internal/domain/tenders"
	"github.com/FACorreiaa/bid-ledger/internal/domain/vocab"
	transport "github.com/FACorreiaa/bid-ledger/internal/transport/http"
	"github.com/FACorreiaa/bid-ledger/pkg/config"
	"github.com/FACorreiaa/bid-ledger/pkg/cron"
	"github.com/FACorreiaa/bid-ledger/pkg/db"
	"github.com/FACorreiaa/bid-ledger/pkg/email"
	"github.com/FACorreiaa/bid-ledger/pkg/metrics"
	"github.com/FACorreiaa/bid-ledger/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	AuthRepo     *auth.Repository
	TenderRepo   *tenders.Repository
	DocumentRepo *documents.Repository
	BidRepo      *bids.Repository
	VocabRepo    *vocab.Repository
	CPVRepo      *cpv.Repository

	// Services
	TokenManager    *auth.TokenManager
	AuthService     *auth.Service
	TenderService   *tenders.Service
	DocumentService *documents.Service
	BidService      *bids.Service
	VocabService    *vocab.Service
	CPVSearch       *cpv.SearchIndex
	FileStorage     storage.Storage
	Notifier        *email.Notifier
	Metrics         *metrics.Metrics
	Registry        *prometheus.Registry
	Scheduler       *cron.Scheduler

	// Handlers
	AuthHandler     *transport.AuthHandler
	TenderHandler   *transport.TenderHandler
	DocumentHandler *transport.DocumentHandler
	BidHandler      *transport.BidHandler
	VocabHandler    *transport.VocabHandler
	CPVHandler      *transport.CPVHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}
	if err := deps.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}
	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}
	if err := deps.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to init handlers: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
		MigrationsDir:   "migrations",
	}, d.Logger)
	if err != nil {
		return err
	}
	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initRepositories initializes all repository layer dependencies
func (d *Dependencies) initRepositories() error {
	d.AuthRepo = auth.NewRepository(d.DB.Pool)
	d.TenderRepo = tenders.NewRepository(d.DB.Pool)
	d.DocumentRepo = documents.NewRepository(d.DB.Pool)
	d.BidRepo = bids.NewRepository(d.DB.Pool)
	d.VocabRepo = vocab.NewRepository(d.DB.Pool)
	d.CPVRepo = cpv.NewRepository(d.DB.Pool)

	d.Logger.Info("repositories initialized")
	return nil
}

// initServices initializes all service layer dependencies
func (d *Dependencies) initServices() error {
	ctx := context.Background()

	d.TokenManager = auth.NewTokenManager(d.Config.Auth.JWTSecret)
	d.AuthService = auth.NewService(d.AuthRepo, d.TokenManager, d.Logger)

	if d.Config.Auth.GoogleClientID != "" {
		gothic.Store = sessions.NewCookieStore([]byte(d.Config.Auth.SessionSecret))
		goth.UseProviders(google.New(
			d.Config.Auth.GoogleClientID,
			d.Config.Auth.GoogleClientSecret,
			d.Config.Server.BaseURL+"/api/v1/auth/oauth/google/callback",
		))
	}

	d.TenderService = tenders.NewService(d.TenderRepo, d.Logger)

	storageCfg := &storage.Config{
		Type:      storage.StorageType(d.Config.Storage.Type),
		LocalPath: d.Config.Storage.LocalPath,
		S3Bucket:  d.Config.Storage.S3Bucket,
		S3Region:  d.Config.Storage.S3Region,
	}
	fileStorage, err := storage.New(storageCfg)
	if err != nil {
		return fmt.Errorf("failed to init file storage: %w", err)
	}
	d.FileStorage = fileStorage
	d.DocumentService = documents.NewService(d.DocumentRepo, d.FileStorage, d.Logger)

	d.VocabService = vocab.NewService(d.VocabRepo, d.Logger)
	if err := d.VocabService.Reload(ctx); err != nil {
		d.Logger.Warn("initial vocabulary reload failed, using built-in set",
			slog.Any("error", err))
	}

	d.Registry = prometheus.NewRegistry()
	d.Metrics = metrics.New(d.Registry)

	d.Notifier = email.NewNotifier(
		d.Config.Email.ResendAPIKey,
		d.Config.Email.FromAddress,
		alertRecipients(d.Config),
		d.Logger,
	)

	parser := extraction.NewParser(d.VocabService.Vocabulary())
	d.BidService = bids.NewService(
		d.DocumentService,
		d.BidRepo,
		parser,
		d.Metrics,
		d.Notifier,
		d.Logger,
	)

	d.CPVSearch, err = cpv.NewSearchIndex(d.Config.Search.IndexPath)
	if err != nil {
		return fmt.Errorf("failed to open CPV search index: %w", err)
	}
	if entries, err := d.CPVRepo.All(ctx); err != nil {
		d.Logger.Warn("failed to load CPV dictionary for indexing", slog.Any("error", err))
	} else if err := d.CPVSearch.IndexEntries(entries); err != nil {
		d.Logger.Warn("failed to index CPV dictionary", slog.Any("error", err))
	}

	if d.Config.Scheduler.Enabled {
		d.Scheduler = cron.NewScheduler(d.BidService, d.VocabService, d.Config.Scheduler, d.Logger)
	}

	d.Logger.Info("services initialized")
	return nil
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() error {
	d.AuthHandler = transport.NewAuthHandler(d.AuthService, d.Logger)
	d.TenderHandler = transport.NewTenderHandler(d.TenderService, d.Logger)
	d.DocumentHandler = transport.NewDocumentHandler(d.DocumentService, d.Logger)
	d.BidHandler = transport.NewBidHandler(d.BidService, d.Logger)
	d.VocabHandler = transport.NewVocabHandler(d.VocabService, d.Logger)
	d.CPVHandler = transport.NewCPVHandler(d.CPVRepo, d.CPVSearch, d.Logger)

	d.Logger.Info("handlers initialized")
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	if d.CPVSearch != nil {
		if err := d.CPVSearch.Close(); err != nil {
			d.Logger.Warn("failed to close CPV index", slog.Any("error", err))
		}
	}
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}

func alertRecipients(cfg *config.Config) []string {
	if cfg.Email.AlertAddress == "" {
		return nil
	}
	return []string{cfg.Email.AlertAddress}
}
