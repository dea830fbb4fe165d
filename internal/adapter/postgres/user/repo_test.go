package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkleaf/inkleaf-backend/internal/adapter/postgres/testhelper"
	"github.com/inkleaf/inkleaf-backend/internal/adapter/postgres/user"
	"github.com/inkleaf/inkleaf-backend/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*user.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return user.New(pool), pool
}

func TestRepo_Create(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	email := "create-" + uuid.New().String()[:8] + "@example.com"
	got, err := repo.Create(ctx, email)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID == uuid.Nil {
		t.Error("ID should be assigned")
	}
	if got.Email != email {
		t.Errorf("Email = %q, want %q", got.Email, email)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be filled by the database")
	}
}

func TestRepo_Create_DuplicateEmail(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	email := "dup-" + uuid.New().String()[:8] + "@example.com"
	if _, err := repo.Create(ctx, email); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := repo.Create(ctx, email)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRepo_GetByID(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	seeded := testhelper.SeedUser(t, pool)

	got, err := repo.GetByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ID != seeded.ID || got.Email != seeded.Email {
		t.Errorf("got (%s, %s), want (%s, %s)", got.ID, got.Email, seeded.ID, seeded.Email)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
