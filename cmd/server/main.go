package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/iosugomez/kotxea/internal/api"
	"github.com/iosugomez/kotxea/internal/calculator"
	"github.com/iosugomez/kotxea/internal/config"
	"github.com/iosugomez/kotxea/internal/service"
	"github.com/iosugomez/kotxea/internal/storage"
	"github.com/iosugomez/kotxea/internal/storage/github"
	"github.com/iosugomez/kotxea/internal/storage/sqlite"
	"github.com/iosugomez/kotxea/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	store, err := openStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	engine, err := calculator.NewEngine(cfg.Participants)
	if err != nil {
		return fmt.Errorf("invalid participants: %w", err)
	}

	svc := service.NewTripService(store, engine, service.Paths{
		Data:  cfg.Paths.Data,
		Rides: cfg.Paths.Rides,
		Money: cfg.Paths.Money,
	})

	// Wrap with h2c for HTTP/2 without TLS
	handler := h2c.NewHandler(api.Routes(api.NewHandler(svc)), &http2.Server{})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting",
			"address", srv.Addr,
			"store", cfg.Store.Backend,
			"participants", cfg.Participants,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(cfg config.StoreConfig) (storage.Store, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "backend", cfg.Backend, "database", cfg.DBPath)
		return store, nil
	case config.BackendGitHub:
		store, err := github.New(github.Config{
			Token:      cfg.Token,
			Repository: cfg.Repository,
			Branch:     cfg.Branch,
			BaseURL:    cfg.APIURL,
			Timeout:    cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "backend", cfg.Backend, "repository", cfg.Repository, "branch", cfg.Branch)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
