// Package main wires together the law cache service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/brlaws/leiscache/internal/api"
	"github.com/brlaws/leiscache/internal/clock/system"
	"github.com/brlaws/leiscache/internal/config"
	"github.com/brlaws/leiscache/internal/fetcher"
	"github.com/brlaws/leiscache/internal/logging"
	"github.com/brlaws/leiscache/internal/normalizer"
	"github.com/brlaws/leiscache/internal/scheduler"
	"github.com/brlaws/leiscache/internal/store/sqlite"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock := system.New()

	store, err := sqlite.New(ctx, cfg.DB.Path, clock)
	if err != nil {
		logger.Fatal("store init failed", zap.Error(err))
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Warn("store close failed", zap.Error(closeErr))
		}
	}()

	pageFetcher, err := fetcher.New(fetcher.Config{
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.FetchTimeout(),
		Encoding:  cfg.Fetch.Encoding,
	})
	if err != nil {
		logger.Fatal("fetcher init failed", zap.Error(err))
	}
	retrying := fetcher.NewRetry(
		pageFetcher,
		cfg.Fetch.MaxRetries,
		fetcher.LinearBackoff(time.Duration(cfg.Fetch.BackoffBaseSecs)*time.Second),
		logger.Named("fetcher"),
	)

	refresher := scheduler.New(
		cfg.Catalog,
		retrying,
		normalizer.New(),
		store,
		scheduler.Config{
			Interval:   cfg.RefreshInterval(),
			EntryDelay: cfg.EntryDelay(),
		},
		logger.Named("scheduler"),
	)

	apiServer := api.NewServer(store, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("scheduler started",
			zap.Duration("interval", cfg.RefreshInterval()),
			zap.Int("catalog_entries", len(cfg.Catalog)),
		)
		refresher.Run(ctx)
	}()

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
