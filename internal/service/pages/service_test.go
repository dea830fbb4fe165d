package pages

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkleaf/inkleaf-backend/internal/domain"
	"github.com/inkleaf/inkleaf-backend/pkg/ctxutil"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockPageRepo struct {
	InsertFunc            func(ctx context.Context, p *domain.Page) (*domain.Page, error)
	GetByIDFunc           func(ctx context.Context, userID, pageID uuid.UUID) (*domain.Page, error)
	ListByIDsFunc         func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*domain.Page, error)
	ListByParentFunc      func(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, includeDeleted bool) ([]*domain.Page, error)
	ListTrashedFunc       func(ctx context.Context, userID uuid.UUID) ([]*domain.Page, error)
	ListTrashedBeforeFunc func(ctx context.Context, threshold time.Time) ([]*domain.Page, error)
	UpdateFunc            func(ctx context.Context, userID, pageID uuid.UUID, params domain.PageUpdateParams) (int64, error)
	SetDeletedFunc        func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, isDeleted bool) (int64, error)
	SetParentFunc         func(ctx context.Context, userID, pageID uuid.UUID, parentID *uuid.UUID) (int64, error)
	DeleteByIDsFunc       func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}

func (m *mockPageRepo) Insert(ctx context.Context, p *domain.Page) (*domain.Page, error) {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, p)
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

func (m *mockPageRepo) GetByID(ctx context.Context, userID, pageID uuid.UUID) (*domain.Page, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, pageID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPageRepo) ListByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*domain.Page, error) {
	if m.ListByIDsFunc != nil {
		return m.ListByIDsFunc(ctx, userID, ids)
	}
	return map[uuid.UUID]*domain.Page{}, nil
}

func (m *mockPageRepo) ListByParent(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, includeDeleted bool) ([]*domain.Page, error) {
	if m.ListByParentFunc != nil {
		return m.ListByParentFunc(ctx, userID, parentID, includeDeleted)
	}
	return nil, nil
}

func (m *mockPageRepo) ListTrashed(ctx context.Context, userID uuid.UUID) ([]*domain.Page, error) {
	if m.ListTrashedFunc != nil {
		return m.ListTrashedFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockPageRepo) ListTrashedBefore(ctx context.Context, threshold time.Time) ([]*domain.Page, error) {
	if m.ListTrashedBeforeFunc != nil {
		return m.ListTrashedBeforeFunc(ctx, threshold)
	}
	return nil, nil
}

func (m *mockPageRepo) Update(ctx context.Context, userID, pageID uuid.UUID, params domain.PageUpdateParams) (int64, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, pageID, params)
	}
	return 1, nil
}

func (m *mockPageRepo) SetDeleted(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, isDeleted bool) (int64, error) {
	if m.SetDeletedFunc != nil {
		return m.SetDeletedFunc(ctx, userID, ids, isDeleted)
	}
	return int64(len(ids)), nil
}

func (m *mockPageRepo) SetParent(ctx context.Context, userID, pageID uuid.UUID, parentID *uuid.UUID) (int64, error) {
	if m.SetParentFunc != nil {
		return m.SetParentFunc(ctx, userID, pageID, parentID)
	}
	return 1, nil
}

func (m *mockPageRepo) DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if m.DeleteByIDsFunc != nil {
		return m.DeleteByIDsFunc(ctx, userID, ids)
	}
	return int64(len(ids)), nil
}

type mockPathRepo struct {
	AddSelfFunc             func(ctx context.Context, id uuid.UUID) error
	AddAncestorsFunc        func(ctx context.Context, parentID, id uuid.UUID) error
	GetAncestorsOfFunc      func(ctx context.Context, id uuid.UUID) ([]domain.PathEntry, error)
	GetDescendantsOfFunc    func(ctx context.Context, id uuid.UUID) ([]domain.PathEntry, error)
	RemoveAllEntriesForFunc func(ctx context.Context, ids []uuid.UUID) error
	DetachFromAncestorsFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *mockPathRepo) AddSelf(ctx context.Context, id uuid.UUID) error {
	if m.AddSelfFunc != nil {
		return m.AddSelfFunc(ctx, id)
	}
	return nil
}

func (m *mockPathRepo) AddAncestors(ctx context.Context, parentID, id uuid.UUID) error {
	if m.AddAncestorsFunc != nil {
		return m.AddAncestorsFunc(ctx, parentID, id)
	}
	return nil
}

func (m *mockPathRepo) GetAncestorsOf(ctx context.Context, id uuid.UUID) ([]domain.PathEntry, error) {
	if m.GetAncestorsOfFunc != nil {
		return m.GetAncestorsOfFunc(ctx, id)
	}
	return []domain.PathEntry{{AncestorID: id, DescendantID: id, Depth: 0}}, nil
}

func (m *mockPathRepo) GetDescendantsOf(ctx context.Context, id uuid.UUID) ([]domain.PathEntry, error) {
	if m.GetDescendantsOfFunc != nil {
		return m.GetDescendantsOfFunc(ctx, id)
	}
	return []domain.PathEntry{{AncestorID: id, DescendantID: id, Depth: 0}}, nil
}

func (m *mockPathRepo) RemoveAllEntriesFor(ctx context.Context, ids []uuid.UUID) error {
	if m.RemoveAllEntriesForFunc != nil {
		return m.RemoveAllEntriesForFunc(ctx, ids)
	}
	return nil
}

func (m *mockPathRepo) DetachFromAncestors(ctx context.Context, id uuid.UUID) error {
	if m.DetachFromAncestorsFunc != nil {
		return m.DetachFromAncestorsFunc(ctx, id)
	}
	return nil
}

type mockOrderRepo struct {
	AppendChildFunc    func(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, childID uuid.UUID) error
	RemoveChildFunc    func(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, childID uuid.UUID) error
	SetOrderFunc       func(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, orderedIDs []uuid.UUID) error
	TransferChildFunc  func(ctx context.Context, userID uuid.UUID, oldParentID, newParentID *uuid.UUID, childID uuid.UUID, newOrderedIDs []uuid.UUID) error
	GetOrderFunc       func(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID) ([]uuid.UUID, bool, error)
	GetOrderLockedFunc func(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID) ([]uuid.UUID, bool, error)
}

func (m *mockOrderRepo) AppendChild(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, childID uuid.UUID) error {
	if m.AppendChildFunc != nil {
		return m.AppendChildFunc(ctx, userID, parentID, childID)
	}
	return nil
}

func (m *mockOrderRepo) RemoveChild(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, childID uuid.UUID) error {
	if m.RemoveChildFunc != nil {
		return m.RemoveChildFunc(ctx, userID, parentID, childID)
	}
	return nil
}

func (m *mockOrderRepo) SetOrder(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, orderedIDs []uuid.UUID) error {
	if m.SetOrderFunc != nil {
		return m.SetOrderFunc(ctx, userID, parentID, orderedIDs)
	}
	return nil
}

func (m *mockOrderRepo) TransferChild(ctx context.Context, userID uuid.UUID, oldParentID, newParentID *uuid.UUID, childID uuid.UUID, newOrderedIDs []uuid.UUID) error {
	if m.TransferChildFunc != nil {
		return m.TransferChildFunc(ctx, userID, oldParentID, newParentID, childID, newOrderedIDs)
	}
	return nil
}

func (m *mockOrderRepo) GetOrder(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID) ([]uuid.UUID, bool, error) {
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, userID, parentID)
	}
	return nil, false, nil
}

func (m *mockOrderRepo) GetOrderLocked(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID) ([]uuid.UUID, bool, error) {
	if m.GetOrderLockedFunc != nil {
		return m.GetOrderLockedFunc(ctx, userID, parentID)
	}
	return nil, false, nil
}

type mockPinnedRepo struct {
	DeleteByPagesFunc func(ctx context.Context, userID uuid.UUID, pageIDs []uuid.UUID) error
}

func (m *mockPinnedRepo) DeleteByPages(ctx context.Context, userID uuid.UUID, pageIDs []uuid.UUID) error {
	if m.DeleteByPagesFunc != nil {
		return m.DeleteByPagesFunc(ctx, userID, pageIDs)
	}
	return nil
}

type mockTxManager struct {
	RunInTxFunc func(ctx context.Context, fn func(context.Context) error) error
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

// ===========================================================================
// Helpers
// ===========================================================================

type testDeps struct {
	pages  *mockPageRepo
	paths  *mockPathRepo
	orders *mockOrderRepo
	pins   *mockPinnedRepo
	tx     *mockTxManager
}

func newTestService() (*Service, *testDeps) {
	deps := &testDeps{
		pages:  &mockPageRepo{},
		paths:  &mockPathRepo{},
		orders: &mockOrderRepo{},
		pins:   &mockPinnedRepo{},
		tx:     &mockTxManager{},
	}
	svc := NewService(slog.Default(), deps.pages, deps.paths, deps.orders, deps.pins, deps.tx)
	return svc, deps
}

func authCtx() (context.Context, uuid.UUID) {
	userID := uuid.New()
	return ctxutil.WithUserID(context.Background(), userID), userID
}

func ptrString(s string) *string { return &s }

// makePage builds a page owned by userID with an optional parent.
func makePage(userID uuid.UUID, parentID *uuid.UUID) *domain.Page {
	return &domain.Page{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      domain.PageTypeRichText,
		Name:      ptrString("page"),
		ParentID:  parentID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// subtreeEntries builds the path entries GetDescendantsOf would return for
// root with the given strict descendants one level down each.
func subtreeEntries(root uuid.UUID, descendants ...uuid.UUID) []domain.PathEntry {
	entries := []domain.PathEntry{{AncestorID: root, DescendantID: root, Depth: 0}}
	for i, d := range descendants {
		entries = append(entries, domain.PathEntry{AncestorID: root, DescendantID: d, Depth: i + 1})
	}
	return entries
}

// pagesByID indexes pages for a ListByIDsFunc stub.
func pagesByID(pages ...*domain.Page) map[uuid.UUID]*domain.Page {
	m := make(map[uuid.UUID]*domain.Page, len(pages))
	for _, p := range pages {
		m[p.ID] = p
	}
	return m
}

// ===========================================================================
// Service wiring
// ===========================================================================

func TestService_RelatedClosure_Dedup(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()

	root := uuid.New()
	child := uuid.New()
	deps.paths.GetDescendantsOfFunc = func(_ context.Context, id uuid.UUID) ([]domain.PathEntry, error) {
		// Self entry plus the same descendant reachable twice.
		return []domain.PathEntry{
			{AncestorID: root, DescendantID: root, Depth: 0},
			{AncestorID: root, DescendantID: child, Depth: 1},
			{AncestorID: root, DescendantID: child, Depth: 2},
		}, nil
	}

	closure, err := svc.relatedClosure(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{root, child}, closure)
}

func TestSamePermutation(t *testing.T) {
	t.Parallel()

	a, b, c := uuid.New(), uuid.New(), uuid.New()

	assert.True(t, samePermutation([]uuid.UUID{a, b, c}, []uuid.UUID{c, a, b}))
	assert.True(t, samePermutation(nil, nil))
	assert.False(t, samePermutation([]uuid.UUID{a, b}, []uuid.UUID{a, c}))
	assert.False(t, samePermutation([]uuid.UUID{a, b}, []uuid.UUID{a}))
	assert.False(t, samePermutation([]uuid.UUID{a, a}, []uuid.UUID{a, b}))
}
