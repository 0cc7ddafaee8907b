package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	transport "github.com/FACorreiaa/bid-ledger/internal/transport/http"
	"github.com/FACorreiaa/bid-ledger/pkg/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	deps, err := InitDependencies(cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Cleanup()

	if deps.Scheduler != nil {
		if err := deps.Scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	// Metrics and pprof serve on their own ports so the public API port
	// never exposes them.
	if cfg.Observability.MetricsEnabled {
		go serveOps(fmt.Sprintf(":%d", cfg.Observability.MetricsPort),
			metricsMux(deps.Registry), "metrics", logger)
	}
	if cfg.Profiling.Enabled {
		go serveOps(fmt.Sprintf(":%d", cfg.Profiling.Port),
			pprofMux(), "pprof", logger)
	}

	router := transport.NewRouter(transport.RouterConfig{
		Auth:      deps.AuthHandler,
		Tenders:   deps.TenderHandler,
		Documents: deps.DocumentHandler,
		Bids:      deps.BidHandler,
		Vocab:     deps.VocabHandler,
		CPV:       deps.CPVHandler,

		AuthService:    deps.AuthService,
		Registry:       deps.Registry,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   float64(cfg.Server.RateLimitPerSecond),
		RateLimitBurst: cfg.Server.RateLimitBurst,
		Logger:         logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func metricsMux(registry *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return mux
}

func pprofMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

func serveOps(addr string, mux *http.ServeMux, name string, logger *slog.Logger) {
	logger.Info("ops listener started",
		slog.String("listener", name), slog.String("addr", addr))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("ops listener stopped",
			slog.String("listener", name), slog.Any("error", err))
	}
}
