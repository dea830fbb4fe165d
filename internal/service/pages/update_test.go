package pages

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkleaf/inkleaf-backend/internal/domain"
)

func TestService_Update_PartialFields(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	ctx, userID := authCtx()

	page := makePage(userID, nil)

	var captured domain.PageUpdateParams
	deps.pages.UpdateFunc = func(_ context.Context, _, _ uuid.UUID, params domain.PageUpdateParams) (int64, error) {
		captured = params
		return 1, nil
	}
	deps.pages.GetByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Page, error) {
		return page, nil
	}

	got, err := svc.Update(ctx, page.ID, UpdateInput{Name: ptrString("Renamed")})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, captured.Name)
	assert.Equal(t, "Renamed", *captured.Name)
	assert.Nil(t, captured.Content, "unsupplied fields stay untouched")
	assert.Nil(t, captured.Icon)
}

func TestService_Update_ForeignPageIsSilentNoOp(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	ctx, _ := authCtx()

	deps.pages.UpdateFunc = func(_ context.Context, _, _ uuid.UUID, _ domain.PageUpdateParams) (int64, error) {
		return 0, nil
	}

	got, err := svc.Update(ctx, uuid.New(), UpdateInput{Name: ptrString("x")})
	require.NoError(t, err)
	assert.Nil(t, got, "zero rows affected means nothing happened, not an error")
}

func TestService_Update_EmptyInputSkipsRepo(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	ctx, _ := authCtx()

	updateCalled := false
	deps.pages.UpdateFunc = func(_ context.Context, _, _ uuid.UUID, _ domain.PageUpdateParams) (int64, error) {
		updateCalled = true
		return 1, nil
	}

	got, err := svc.Update(ctx, uuid.New(), UpdateInput{})
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, updateCalled)
}

func TestService_Update_WithOrder(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	ctx, userID := authCtx()

	page := makePage(userID, nil)
	a, b := uuid.New(), uuid.New()

	deps.pages.GetByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Page, error) {
		return page, nil
	}
	deps.orders.GetOrderLockedFunc = func(_ context.Context, _ uuid.UUID, parentID *uuid.UUID) ([]uuid.UUID, bool, error) {
		require.NotNil(t, parentID)
		assert.Equal(t, page.ID, *parentID)
		return []uuid.UUID{a, b}, true, nil
	}

	var setOrder []uuid.UUID
	deps.orders.SetOrderFunc = func(_ context.Context, _ uuid.UUID, _ *uuid.UUID, orderedIDs []uuid.UUID) error {
		setOrder = orderedIDs
		return nil
	}

	got, err := svc.Update(ctx, page.ID, UpdateInput{Order: []uuid.UUID{b, a}})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []uuid.UUID{b, a}, setOrder)
}

func TestService_Update_OrderMismatchConflicts(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	ctx, _ := authCtx()

	a, b := uuid.New(), uuid.New()
	deps.orders.GetOrderLockedFunc = func(_ context.Context, _ uuid.UUID, _ *uuid.UUID) ([]uuid.UUID, bool, error) {
		return []uuid.UUID{a, b}, true, nil
	}

	_, err := svc.Update(ctx, uuid.New(), UpdateInput{Order: []uuid.UUID{a, uuid.New()}})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestService_Update_InvalidIcon(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx, _ := authCtx()

	_, err := svc.Update(ctx, uuid.New(), UpdateInput{
		Icon: &domain.Icon{Type: domain.IconType("GIF"), Value: "x"},
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_Update_NoAuth(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	_, err := svc.Update(context.Background(), uuid.New(), UpdateInput{Name: ptrString("x")})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}
