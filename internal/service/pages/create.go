package pages

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/inkleaf/inkleaf-backend/internal/domain"
	"github.com/inkleaf/inkleaf-backend/pkg/ctxutil"
)

// Create creates a page for the authenticated user. When ParentID is set the
// parent must exist and belong to the same user. The page row, its depth-0
// self path entry, the copied ancestor chain and the sibling-order append
// all commit in one transaction.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Page, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	id, err := input.Validate()
	if err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		if _, err := s.pages.GetByID(ctx, userID, *input.ParentID); err != nil {
			return nil, fmt.Errorf("check parent: %w", err)
		}
	}

	page := &domain.Page{
		ID:       id,
		UserID:   userID,
		Type:     input.Type,
		Name:     input.Name,
		Content:  input.Content,
		Icon:     input.Icon,
		ParentID: input.ParentID,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		created, insertErr := s.pages.Insert(txCtx, page)
		if insertErr != nil {
			return fmt.Errorf("insert page: %w", insertErr)
		}
		page = created

		if pathErr := s.paths.AddSelf(txCtx, page.ID); pathErr != nil {
			return fmt.Errorf("add self path entry: %w", pathErr)
		}

		if input.ParentID != nil {
			if pathErr := s.paths.AddAncestors(txCtx, *input.ParentID, page.ID); pathErr != nil {
				return fmt.Errorf("link ancestors: %w", pathErr)
			}
		}

		if orderErr := s.orders.AppendChild(txCtx, userID, input.ParentID, page.ID); orderErr != nil {
			return fmt.Errorf("append to sibling order: %w", orderErr)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "page created",
		slog.String("user_id", userID.String()),
		slog.String("page_id", page.ID.String()),
		slog.String("type", page.Type.String()),
	)

	return page, nil
}
