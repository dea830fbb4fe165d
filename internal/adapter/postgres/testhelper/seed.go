package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkleaf/inkleaf-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user row and returns the filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:        uuid.New(),
		Email:     "testuser-" + suffix + "@example.com",
		CreatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, email, created_at) VALUES ($1, $2, $3)`,
		user.ID, user.Email, user.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert: %v", err)
	}

	return user
}

// SeedPage inserts a page row with its depth-0 self path entry. parentID may
// be nil for a root page; no ancestor entries or order entries are created;
// tests exercising those seed them through the repositories under test.
func SeedPage(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, parentID *uuid.UUID) domain.Page {
	t.Helper()
	ctx := context.Background()

	name := "page-" + uniqueSuffix()
	page := domain.Page{
		ID:       uuid.New(),
		UserID:   userID,
		Type:     domain.PageTypeRichText,
		Name:     &name,
		ParentID: parentID,
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO pages (id, user_id, type, name, parent_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		page.ID, page.UserID, page.Type.String(), name, parentID,
	).Scan(&page.CreatedAt, &page.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedPage insert page: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO page_paths (ancestor_id, descendant_id, depth) VALUES ($1, $1, 0)`,
		page.ID,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPage insert self path: %v", err)
	}

	return page
}
