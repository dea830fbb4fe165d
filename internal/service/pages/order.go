package pages

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/inkleaf/inkleaf-backend/internal/domain"
	"github.com/inkleaf/inkleaf-backend/pkg/ctxutil"
)

// GetOrder returns the ordered child-id list for a scope (nil parentID is
// the root scope). The boolean distinguishes an absent record (never
// created, or deleted after its last entry was removed) from a present one.
func (s *Service) GetOrder(ctx context.Context, parentID *uuid.UUID) ([]uuid.UUID, bool, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, false, domain.ErrUnauthorized
	}

	return s.orders.GetOrder(ctx, userID, parentID)
}

// SetOrder replaces a scope's child order wholesale. The new list must be a
// permutation of the scope's current membership; a mismatch fails with
// domain.ErrConflict before anything is written. A non-nil parentID must
// reference an existing page of the user.
func (s *Service) SetOrder(ctx context.Context, parentID *uuid.UUID, orderedIDs []uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if parentID != nil {
		if _, err := s.pages.GetByID(ctx, userID, *parentID); err != nil {
			return fmt.Errorf("check parent: %w", err)
		}
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.setOrderChecked(txCtx, userID, parentID, orderedIDs)
	})
}

// setOrderChecked validates orderedIDs against the scope's current
// membership and persists the new order. Runs inside the caller's
// transaction; the current record is read under a row lock so concurrent
// reorders of the same scope serialize.
func (s *Service) setOrderChecked(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, orderedIDs []uuid.UUID) error {
	current, found, err := s.orders.GetOrderLocked(ctx, userID, parentID)
	if err != nil {
		return fmt.Errorf("load current order: %w", err)
	}

	if !found {
		// No record yet: membership is defined by the page rows themselves.
		children, listErr := s.pages.ListByParent(ctx, userID, parentID, true)
		if listErr != nil {
			return fmt.Errorf("list children: %w", listErr)
		}
		current = make([]uuid.UUID, len(children))
		for i, c := range children {
			current[i] = c.ID
		}
	}

	if !samePermutation(current, orderedIDs) {
		return fmt.Errorf("order list does not match current children: %w", domain.ErrConflict)
	}

	if err := s.orders.SetOrder(ctx, userID, parentID, orderedIDs); err != nil {
		return fmt.Errorf("set order: %w", err)
	}

	return nil
}

// samePermutation reports whether a and b contain the same multiset of ids.
func samePermutation(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}

	as := slices.Clone(a)
	bs := slices.Clone(b)
	byBytes := func(x, y uuid.UUID) int { return bytes.Compare(x[:], y[:]) }
	slices.SortFunc(as, byBytes)
	slices.SortFunc(bs, byBytes)

	return slices.Equal(as, bs)
}
