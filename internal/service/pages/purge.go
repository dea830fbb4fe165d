package pages

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// PurgeTrashedBefore permanently deletes pages (across all users) that were
// trashed before threshold, i.e. last touched before it while sitting in the
// trash. Used by the retention cleanup job. Returns the number of page rows
// removed.
func (s *Service) PurgeTrashedBefore(ctx context.Context, threshold time.Time) (int64, error) {
	var total int64

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		expired, err := s.pages.ListTrashedBefore(txCtx, threshold)
		if err != nil {
			return fmt.Errorf("list expired pages: %w", err)
		}
		if len(expired) == 0 {
			return nil
		}

		// Order entries and pinned records are per-user, so group before
		// purging.
		byUser := make(map[uuid.UUID][]uuid.UUID)
		for _, p := range expired {
			byUser[p.UserID] = append(byUser[p.UserID], p.ID)
		}

		for userID, ids := range byUser {
			n, purgeErr := s.purgeClosure(txCtx, userID, ids)
			if purgeErr != nil {
				return fmt.Errorf("purge for user %s: %w", userID, purgeErr)
			}
			total += n
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	if total > 0 {
		s.log.InfoContext(ctx, "expired trash purged",
			slog.Int64("count", total),
			slog.Time("threshold", threshold),
		)
	}

	return total, nil
}
