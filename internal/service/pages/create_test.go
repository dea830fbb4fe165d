package pages

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkleaf/inkleaf-backend/internal/domain"
)

func TestService_Create_RootPage(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	ctx, userID := authCtx()

	selfAdded := false
	deps.paths.AddSelfFunc = func(_ context.Context, id uuid.UUID) error {
		selfAdded = true
		return nil
	}

	ancestorsLinked := false
	deps.paths.AddAncestorsFunc = func(_ context.Context, _, _ uuid.UUID) error {
		ancestorsLinked = true
		return nil
	}

	var appendedParent *uuid.UUID
	appendCalled := false
	deps.orders.AppendChildFunc = func(_ context.Context, uid uuid.UUID, parentID *uuid.UUID, _ uuid.UUID) error {
		assert.Equal(t, userID, uid)
		appendedParent = parentID
		appendCalled = true
		return nil
	}

	page, err := svc.Create(ctx, CreateInput{Type: domain.PageTypeRichText, Name: ptrString("Notes")})
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, userID, page.UserID)
	assert.Nil(t, page.ParentID)
	assert.True(t, selfAdded)
	assert.False(t, ancestorsLinked, "root page has no ancestors to link")
	assert.True(t, appendCalled)
	assert.Nil(t, appendedParent, "root pages append to the nil-parent scope")
}

func TestService_Create_ChildPage(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	ctx, userID := authCtx()

	parent := makePage(userID, nil)
	deps.pages.GetByIDFunc = func(_ context.Context, _, pageID uuid.UUID) (*domain.Page, error) {
		assert.Equal(t, parent.ID, pageID)
		return parent, nil
	}

	var linkedParent, linkedChild uuid.UUID
	deps.paths.AddAncestorsFunc = func(_ context.Context, parentID, id uuid.UUID) error {
		linkedParent = parentID
		linkedChild = id
		return nil
	}

	page, err := svc.Create(ctx, CreateInput{Type: domain.PageTypeRichText, ParentID: &parent.ID})
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, parent.ID, linkedParent)
	assert.Equal(t, page.ID, linkedChild)
}

func TestService_Create_ClientSuppliedID(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx, _ := authCtx()

	want := uuid.New()
	id := want.String()
	page, err := svc.Create(ctx, CreateInput{ID: &id, Type: domain.PageTypePlainText})
	require.NoError(t, err)
	assert.Equal(t, want, page.ID)
}

func TestService_Create_MalformedID(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx, _ := authCtx()

	_, err := svc.Create(ctx, CreateInput{ID: ptrString("not-a-uuid"), Type: domain.PageTypeRichText})
	require.ErrorIs(t, err, domain.ErrValidation)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "id", ve.Errors[0].Field)
}

func TestService_Create_NilUUIDRejected(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx, _ := authCtx()

	_, err := svc.Create(ctx, CreateInput{ID: ptrString(uuid.Nil.String()), Type: domain.PageTypeRichText})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_Create_InvalidType(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx, _ := authCtx()

	_, err := svc.Create(ctx, CreateInput{Type: domain.PageType("SPREADSHEET")})
	require.ErrorIs(t, err, domain.ErrValidation)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "type", ve.Errors[0].Field)
}

func TestService_Create_InvalidIcon(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx, _ := authCtx()

	_, err := svc.Create(ctx, CreateInput{
		Type: domain.PageTypeRichText,
		Icon: &domain.Icon{Type: domain.IconType("GIF"), Value: "x"},
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestService_Create_MissingParent(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	ctx, _ := authCtx()

	deps.pages.GetByIDFunc = func(_ context.Context, _, _ uuid.UUID) (*domain.Page, error) {
		return nil, domain.ErrNotFound
	}

	parentID := uuid.New()
	_, err := svc.Create(ctx, CreateInput{Type: domain.PageTypeRichText, ParentID: &parentID})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Create_DuplicateID(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	ctx, _ := authCtx()

	deps.pages.InsertFunc = func(_ context.Context, _ *domain.Page) (*domain.Page, error) {
		return nil, domain.ErrAlreadyExists
	}

	_, err := svc.Create(ctx, CreateInput{Type: domain.PageTypeRichText})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestService_Create_TxRollbackOnOrderFailure(t *testing.T) {
	t.Parallel()
	svc, deps := newTestService()
	ctx, _ := authCtx()

	boom := errors.New("order write failed")
	deps.orders.AppendChildFunc = func(_ context.Context, _ uuid.UUID, _ *uuid.UUID, _ uuid.UUID) error {
		return boom
	}

	_, err := svc.Create(ctx, CreateInput{Type: domain.PageTypeRichText})
	require.ErrorIs(t, err, boom)
}

func TestService_Create_NoAuth(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateInput{Type: domain.PageTypeRichText})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}
