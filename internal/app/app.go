// Package app wires configuration, logging, storage and services together
// into a runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/inkleaf/inkleaf-backend/internal/adapter/postgres"
	pagerepo "github.com/inkleaf/inkleaf-backend/internal/adapter/postgres/page"
	orderrepo "github.com/inkleaf/inkleaf-backend/internal/adapter/postgres/pageorder"
	pathrepo "github.com/inkleaf/inkleaf-backend/internal/adapter/postgres/pathindex"
	pinnedrepo "github.com/inkleaf/inkleaf-backend/internal/adapter/postgres/pinned"
	"github.com/inkleaf/inkleaf-backend/internal/config"
	pagesvc "github.com/inkleaf/inkleaf-backend/internal/service/pages"
	pinnedsvc "github.com/inkleaf/inkleaf-backend/internal/service/pinned"
)

// Services bundles the constructed service layer.
type Services struct {
	Pages  *pagesvc.Service
	Pinned *pinnedsvc.Service
}

// Build connects to the database and constructs the service layer. The
// returned close function releases the connection pool.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Services, func(), error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	txManager := postgres.NewTxManager(pool)

	pages := pagerepo.New(pool)
	paths := pathrepo.New(pool)
	orders := orderrepo.New(pool)
	pins := pinnedrepo.New(pool)

	svcs := &Services{
		Pages:  pagesvc.NewService(logger, pages, paths, orders, pins, txManager),
		Pinned: pinnedsvc.NewService(logger, pages, pins),
	}

	return svcs, pool.Close, nil
}

// Run is the application entry point. It loads configuration, initializes
// the logger, builds the service layer and blocks until the process receives
// SIGINT or SIGTERM.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, closeFn, err := Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	logger.Info("application ready")

	<-ctx.Done()
	logger.Info("shutting down")

	return nil
}
