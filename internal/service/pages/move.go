package pages

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/inkleaf/inkleaf-backend/internal/domain"
	"github.com/inkleaf/inkleaf-backend/pkg/ctxutil"
)

// TransferAndOrder moves a page to a new parent scope (nil for root) and in
// the same transaction fixes the destination's complete sibling order.
// orderedIDs is the desired child list of the destination AFTER the move and
// must therefore contain the moved page's id. Moving a page under one of its
// own descendants would create a cycle and fails with domain.ErrConflict.
func (s *Service) TransferAndOrder(ctx context.Context, pageID uuid.UUID, newParentID *uuid.UUID, orderedIDs []uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if !slices.Contains(orderedIDs, pageID) {
		return domain.NewValidationError("orderedIDs", "must contain the moved page id")
	}
	if newParentID != nil && *newParentID == pageID {
		return fmt.Errorf("page cannot be its own parent: %w", domain.ErrConflict)
	}

	page, err := s.pages.GetByID(ctx, userID, pageID)
	if err != nil {
		return fmt.Errorf("get page: %w", err)
	}

	if newParentID != nil {
		if _, err := s.pages.GetByID(ctx, userID, *newParentID); err != nil {
			return fmt.Errorf("check new parent: %w", err)
		}
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if newParentID != nil {
			descendant, cycleErr := s.isDescendantOf(txCtx, pageID, *newParentID)
			if cycleErr != nil {
				return cycleErr
			}
			if descendant {
				return fmt.Errorf("new parent is a descendant of the page: %w", domain.ErrConflict)
			}
		}

		rows, setErr := s.pages.SetParent(txCtx, userID, pageID, newParentID)
		if setErr != nil {
			return fmt.Errorf("set parent: %w", setErr)
		}
		if rows == 0 {
			return fmt.Errorf("page %s: %w", pageID, domain.ErrNotFound)
		}

		if pathErr := s.paths.DetachFromAncestors(txCtx, pageID); pathErr != nil {
			return fmt.Errorf("detach from old ancestors: %w", pathErr)
		}
		if newParentID != nil {
			if pathErr := s.paths.AddAncestors(txCtx, *newParentID, pageID); pathErr != nil {
				return fmt.Errorf("link new ancestors: %w", pathErr)
			}
		}

		if orderErr := s.orders.TransferChild(txCtx, userID, page.ParentID, newParentID, pageID, orderedIDs); orderErr != nil {
			return fmt.Errorf("transfer sibling order: %w", orderErr)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "page moved",
		slog.String("user_id", userID.String()),
		slog.String("page_id", pageID.String()),
	)

	return nil
}

// isDescendantOf reports whether candidate sits in the subtree rooted at
// ancestorID (strictly below it).
func (s *Service) isDescendantOf(ctx context.Context, ancestorID, candidate uuid.UUID) (bool, error) {
	entries, err := s.paths.GetDescendantsOf(ctx, ancestorID)
	if err != nil {
		return false, fmt.Errorf("load descendants: %w", err)
	}

	for _, e := range entries {
		if e.DescendantID == candidate && !e.IsSelf() {
			return true, nil
		}
	}

	return false, nil
}
