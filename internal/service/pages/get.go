package pages

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/inkleaf/inkleaf-backend/internal/domain"
	"github.com/inkleaf/inkleaf-backend/pkg/ctxutil"
)

// Get returns the user's page by id, or nil without an error when no such
// page exists. Absence is a normal outcome here, since callers routinely
// probe for pages after deletions, so it is not reported as ErrNotFound.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Page, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	page, err := s.pages.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get page: %w", err)
	}

	return page, nil
}

// GetChildren returns the direct children of parentID (nil for root pages).
// When the scope has an order record its list dictates the result order;
// consumers must not re-sort by timestamp. Scopes without a record (e.g.
// freshly migrated data) fall back to creation time ascending. Soft-deleted
// children are filtered unless includeDeleted.
func (s *Service) GetChildren(ctx context.Context, parentID *uuid.UUID, includeDeleted bool) ([]*domain.Page, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	children, err := s.pages.ListByParent(ctx, userID, parentID, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}

	orderedIDs, found, err := s.orders.GetOrder(ctx, userID, parentID)
	if err != nil {
		return nil, fmt.Errorf("get sibling order: %w", err)
	}
	if !found {
		return children, nil
	}

	byID := make(map[uuid.UUID]*domain.Page, len(children))
	for _, c := range children {
		byID[c.ID] = c
	}

	result := make([]*domain.Page, 0, len(children))
	for _, id := range orderedIDs {
		if c, ok := byID[id]; ok {
			result = append(result, c)
			delete(byID, id)
		}
	}

	// Children missing from the order record (shouldn't happen, but order
	// records and rows are maintained separately) keep their fallback order
	// at the end.
	for _, c := range children {
		if _, ok := byID[c.ID]; ok {
			result = append(result, c)
		}
	}

	return result, nil
}
