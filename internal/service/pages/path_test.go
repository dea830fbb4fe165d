package pages

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkleaf/inkleaf-backend/internal/domain"
)

func TestService_GetPathByDescendant(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	ctx, userID := authCtx()

	grandparent, parent := uuid.New(), uuid.New()
	page := makePage(userID, &parent)

	deps.pages.GetByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Page, error) {
		return page, nil
	}
	deps.paths.GetAncestorsOfFunc = func(_ context.Context, id uuid.UUID) ([]domain.PathEntry, error) {
		assert.Equal(t, page.ID, id)
		return []domain.PathEntry{
			{AncestorID: page.ID, DescendantID: page.ID, Depth: 0},
			{AncestorID: parent, DescendantID: page.ID, Depth: 1},
			{AncestorID: grandparent, DescendantID: page.ID, Depth: 2},
		}, nil
	}

	entries, err := svc.GetPathByDescendant(ctx, page.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].IsSelf())
	assert.Equal(t, parent, entries[1].AncestorID)
	assert.Equal(t, grandparent, entries[2].AncestorID)
}

func TestService_GetPathByDescendant_MissingPage(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx, _ := authCtx()

	_, err := svc.GetPathByDescendant(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_GetPathByAncestor(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	ctx, userID := authCtx()

	page := makePage(userID, nil)
	child := uuid.New()

	deps.pages.GetByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Page, error) {
		return page, nil
	}
	deps.paths.GetDescendantsOfFunc = func(_ context.Context, id uuid.UUID) ([]domain.PathEntry, error) {
		assert.Equal(t, page.ID, id)
		return subtreeEntries(page.ID, child), nil
	}

	entries, err := svc.GetPathByAncestor(ctx, page.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].IsSelf())
	assert.Equal(t, child, entries[1].DescendantID)
}

func TestService_GetPathByAncestor_NoAuth(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	_, err := svc.GetPathByAncestor(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}
