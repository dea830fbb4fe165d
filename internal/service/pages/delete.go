package pages

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/inkleaf/inkleaf-backend/internal/domain"
	"github.com/inkleaf/inkleaf-backend/pkg/ctxutil"
)

// Delete permanently removes the given pages together with every transitive
// descendant. All-or-nothing: if any input id does not exist (or belongs to
// another user) the whole call fails with domain.ErrNotFound and nothing is
// deleted. Returns the number of page rows removed.
func (s *Service) Delete(ctx context.Context, ids []uuid.UUID) (int64, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return 0, domain.ErrUnauthorized
	}

	if len(ids) == 0 {
		return 0, nil
	}

	var deleted int64
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		requested, err := s.pages.ListByIDs(txCtx, userID, ids)
		if err != nil {
			return fmt.Errorf("load pages: %w", err)
		}
		for _, id := range ids {
			if _, ok := requested[id]; !ok {
				return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
			}
		}

		closure, err := s.deleteClosure(txCtx, ids)
		if err != nil {
			return err
		}

		n, err := s.purgeClosure(txCtx, userID, closure)
		if err != nil {
			return err
		}
		deleted = n

		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.InfoContext(ctx, "pages deleted",
		slog.String("user_id", userID.String()),
		slog.Int64("count", deleted),
	)

	return deleted, nil
}

// deleteClosure unions the related-id closure of every input id: the id
// itself plus all of its transitive descendants per the path index.
func (s *Service) deleteClosure(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	var closure []uuid.UUID

	for _, id := range ids {
		related, err := s.relatedClosure(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("resolve descendants of %s: %w", id, err)
		}
		for _, rid := range related {
			if _, ok := seen[rid]; ok {
				continue
			}
			seen[rid] = struct{}{}
			closure = append(closure, rid)
		}
	}

	return closure, nil
}

// purgeClosure removes every trace of the closure: pinned records, sibling
// order entries (parent pointers are read before the rows go away), the page
// rows themselves, and finally all path entries touching the closure from
// either side. Runs inside the caller's transaction.
func (s *Service) purgeClosure(ctx context.Context, userID uuid.UUID, closure []uuid.UUID) (int64, error) {
	if err := s.pins.DeleteByPages(ctx, userID, closure); err != nil {
		return 0, fmt.Errorf("remove pinned records: %w", err)
	}

	pagesByID, err := s.pages.ListByIDs(ctx, userID, closure)
	if err != nil {
		return 0, fmt.Errorf("load closure pages: %w", err)
	}
	for _, id := range closure {
		p, ok := pagesByID[id]
		if !ok {
			continue
		}
		if err := s.orders.RemoveChild(ctx, userID, p.ParentID, id); err != nil {
			return 0, fmt.Errorf("remove from sibling order: %w", err)
		}
	}

	deleted, err := s.pages.DeleteByIDs(ctx, userID, closure)
	if err != nil {
		return 0, fmt.Errorf("delete page rows: %w", err)
	}

	if err := s.paths.RemoveAllEntriesFor(ctx, closure); err != nil {
		return 0, fmt.Errorf("remove path entries: %w", err)
	}

	return deleted, nil
}
