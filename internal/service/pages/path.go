package pages

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/inkleaf/inkleaf-backend/internal/domain"
	"github.com/inkleaf/inkleaf-backend/pkg/ctxutil"
)

// GetPathByDescendant returns the ancestor chain of a page, nearest first:
// the depth-0 self entry, then parent, grandparent and so on up to the root.
// The page must exist and belong to the user.
func (s *Service) GetPathByDescendant(ctx context.Context, id uuid.UUID) ([]domain.PathEntry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if _, err := s.pages.GetByID(ctx, userID, id); err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}

	entries, err := s.paths.GetAncestorsOf(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load ancestors: %w", err)
	}

	return entries, nil
}

// GetPathByAncestor returns the subtree of a page as path entries ordered by
// depth ascending, starting with the depth-0 self entry. The page must exist
// and belong to the user.
func (s *Service) GetPathByAncestor(ctx context.Context, id uuid.UUID) ([]domain.PathEntry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if _, err := s.pages.GetByID(ctx, userID, id); err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}

	entries, err := s.paths.GetDescendantsOf(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load descendants: %w", err)
	}

	return entries, nil
}
