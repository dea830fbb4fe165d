package pages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/inkleaf/inkleaf-backend/internal/domain"
	"github.com/inkleaf/inkleaf-backend/pkg/ctxutil"
)

// Trash soft-deletes a page and all of its transitive descendants. Trashed
// pages keep their rows, path entries and sibling-order positions so a later
// Restore can put everything back exactly where it was; pinned records are
// the exception and are dropped immediately. Idempotent for already-trashed
// descendants.
func (s *Service) Trash(ctx context.Context, id uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if _, err := s.pages.GetByID(ctx, userID, id); err != nil {
		return fmt.Errorf("get page: %w", err)
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		closure, err := s.relatedClosure(txCtx, id)
		if err != nil {
			return fmt.Errorf("resolve descendants: %w", err)
		}

		if _, err := s.pages.SetDeleted(txCtx, userID, closure, true); err != nil {
			return fmt.Errorf("mark deleted: %w", err)
		}

		if err := s.pins.DeleteByPages(txCtx, userID, closure); err != nil {
			return fmt.Errorf("remove pinned records: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "page trashed",
		slog.String("user_id", userID.String()),
		slog.String("page_id", id.String()),
	)

	return nil
}

// Restore brings a trashed page back, together with every currently-trashed
// descendant. If the page's parent is itself still trashed, or was
// permanently deleted while the page sat in the trash, the page cannot
// reappear under it: it is detached: reparented to the root scope and cut
// loose from all its former ancestors in the path index, while its own
// subtree stays intact. Otherwise the page resurfaces at its remembered
// sibling position.
func (s *Service) Restore(ctx context.Context, id uuid.UUID) (*domain.Page, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	page, err := s.pages.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	if !page.IsDeleted {
		return page, nil
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		closure, err := s.relatedClosure(txCtx, id)
		if err != nil {
			return fmt.Errorf("resolve descendants: %w", err)
		}

		toRestore, err := s.trashedSubset(txCtx, userID, closure)
		if err != nil {
			return err
		}

		if _, err := s.pages.SetDeleted(txCtx, userID, toRestore, false); err != nil {
			return fmt.Errorf("clear deleted flag: %w", err)
		}

		detach, err := s.parentUnavailable(txCtx, userID, page.ParentID)
		if err != nil {
			return err
		}
		if detach {
			if err := s.detachToRoot(txCtx, userID, page); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "page restored",
		slog.String("user_id", userID.String()),
		slog.String("page_id", id.String()),
	)

	restored, err := s.pages.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("reload page: %w", err)
	}

	return restored, nil
}

// ClearTrash permanently deletes every trashed page of the user, including
// path and order traces. Returns the number of pages removed; an empty trash
// yields zero without error.
func (s *Service) ClearTrash(ctx context.Context) (int64, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return 0, domain.ErrUnauthorized
	}

	var deleted int64
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		trashed, err := s.pages.ListTrashed(txCtx, userID)
		if err != nil {
			return fmt.Errorf("list trashed pages: %w", err)
		}
		if len(trashed) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, len(trashed))
		for i, p := range trashed {
			ids[i] = p.ID
		}

		n, err := s.purgeClosure(txCtx, userID, ids)
		if err != nil {
			return err
		}
		deleted = n

		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.InfoContext(ctx, "trash cleared",
		slog.String("user_id", userID.String()),
		slog.Int64("count", deleted),
	)

	return deleted, nil
}

// ListTrash returns the user's trashed pages, oldest first.
func (s *Service) ListTrash(ctx context.Context) ([]*domain.Page, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	trashed, err := s.pages.ListTrashed(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list trashed pages: %w", err)
	}

	return trashed, nil
}

// trashedSubset filters the closure down to ids whose page row currently has
// is_deleted set. Descendants deleted independently and already restored are
// left alone.
func (s *Service) trashedSubset(ctx context.Context, userID uuid.UUID, closure []uuid.UUID) ([]uuid.UUID, error) {
	pagesByID, err := s.pages.ListByIDs(ctx, userID, closure)
	if err != nil {
		return nil, fmt.Errorf("load closure pages: %w", err)
	}

	trashed := make([]uuid.UUID, 0, len(closure))
	for _, cid := range closure {
		if p, ok := pagesByID[cid]; ok && p.IsDeleted {
			trashed = append(trashed, cid)
		}
	}

	return trashed, nil
}

// parentUnavailable reports whether the remembered parent can no longer host
// a restored page: it was hard-deleted, or it is still in the trash. A nil
// parent (root page) is always available.
func (s *Service) parentUnavailable(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID) (bool, error) {
	if parentID == nil {
		return false, nil
	}

	parent, err := s.pages.GetByID(ctx, userID, *parentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("check parent: %w", err)
	}

	return parent.IsDeleted, nil
}

// detachToRoot moves page to the root scope: parent pointer cleared, all
// path entries from the page's subtree up to its former ancestors removed,
// and the sibling-order membership transferred from the old scope to the end
// of the root scope. Runs inside the caller's transaction.
func (s *Service) detachToRoot(ctx context.Context, userID uuid.UUID, page *domain.Page) error {
	if _, err := s.pages.SetParent(ctx, userID, page.ID, nil); err != nil {
		return fmt.Errorf("clear parent: %w", err)
	}

	if err := s.paths.DetachFromAncestors(ctx, page.ID); err != nil {
		return fmt.Errorf("detach from ancestors: %w", err)
	}

	if err := s.orders.RemoveChild(ctx, userID, page.ParentID, page.ID); err != nil {
		return fmt.Errorf("remove from old sibling order: %w", err)
	}
	if err := s.orders.AppendChild(ctx, userID, nil, page.ID); err != nil {
		return fmt.Errorf("append to root sibling order: %w", err)
	}

	return nil
}
