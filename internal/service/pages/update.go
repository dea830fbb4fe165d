package pages

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/inkleaf/inkleaf-backend/internal/domain"
	"github.com/inkleaf/inkleaf-backend/pkg/ctxutil"
)

// Update applies a partial update to a page. Only supplied fields change and
// updated_at is refreshed. An update scoped to a page the user does not own
// affects zero rows and is a silent no-op, not an error: the returned page
// is nil exactly when nothing was touched. A non-nil Order replaces the
// ordered child list of this page's own scope in the same transaction.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*domain.Page, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if input.Icon != nil && !input.Icon.Type.IsValid() {
		return nil, domain.NewValidationError("icon", "unknown icon type")
	}

	var touched bool
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		params := input.params()
		if !params.IsEmpty() {
			rows, updateErr := s.pages.Update(txCtx, userID, id, params)
			if updateErr != nil {
				return fmt.Errorf("update page: %w", updateErr)
			}
			touched = rows > 0
		}

		if input.Order != nil {
			pageID := id
			if orderErr := s.setOrderChecked(txCtx, userID, &pageID, input.Order); orderErr != nil {
				return orderErr
			}
			touched = true
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if !touched {
		return nil, nil
	}

	s.log.InfoContext(ctx, "page updated",
		slog.String("user_id", userID.String()),
		slog.String("page_id", id.String()),
	)

	page, err := s.pages.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("reload page: %w", err)
	}

	return page, nil
}
