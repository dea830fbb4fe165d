// Command cleanup permanently removes pages that have been sitting in the
// trash longer than the configured retention period, together with their
// path, order and pinned traces. It is intended to be invoked by an external
// cron job, not as an in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/inkleaf/inkleaf-backend/internal/adapter/postgres"
	pagerepo "github.com/inkleaf/inkleaf-backend/internal/adapter/postgres/page"
	orderrepo "github.com/inkleaf/inkleaf-backend/internal/adapter/postgres/pageorder"
	pathrepo "github.com/inkleaf/inkleaf-backend/internal/adapter/postgres/pathindex"
	pinnedrepo "github.com/inkleaf/inkleaf-backend/internal/adapter/postgres/pinned"
	"github.com/inkleaf/inkleaf-backend/internal/app"
	"github.com/inkleaf/inkleaf-backend/internal/config"
	"github.com/inkleaf/inkleaf-backend/internal/service/pages"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := pages.NewService(
		logger,
		pagerepo.New(pool),
		pathrepo.New(pool),
		orderrepo.New(pool),
		pinnedrepo.New(pool),
		postgres.NewTxManager(pool),
	)

	threshold := time.Now().AddDate(0, 0, -cfg.Pages.TrashRetentionDays)

	purged, err := svc.PurgeTrashedBefore(ctx, threshold)
	if err != nil {
		logger.Error("trash purge failed",
			slog.String("error", err.Error()),
			slog.Time("threshold", threshold),
		)
		os.Exit(1)
	}

	logger.Info("trash purge completed",
		slog.Int64("purged", purged),
		slog.Time("threshold", threshold),
	)
}
