// Package pinned implements pinned-page ("favorites") persistence using
// PostgreSQL. A pinned record may only exist while its page is not
// soft-deleted; the pages service removes records as part of every cascading
// trash or delete transaction.
package pinned

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/inkleaf/inkleaf-backend/internal/adapter/postgres"
	"github.com/inkleaf/inkleaf-backend/internal/domain"
)

// Repo provides pinned-page persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new pinned page repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// pinSQL appends at the end of the user's pin list. Pinning an already
// pinned page keeps its existing position (ON CONFLICT DO NOTHING).
const pinSQL = `
INSERT INTO pinned_pages (user_id, page_id, position)
VALUES ($1, $2, COALESCE((SELECT max(position) + 1 FROM pinned_pages WHERE user_id = $1), 0))
ON CONFLICT (user_id, page_id) DO NOTHING`

const unpinSQL = `
DELETE FROM pinned_pages
WHERE user_id = $1 AND page_id = $2`

const listSQL = `
SELECT user_id, page_id, position, created_at
FROM pinned_pages
WHERE user_id = $1
ORDER BY position`

const deleteByPagesSQL = `
DELETE FROM pinned_pages
WHERE user_id = $1 AND page_id = ANY($2::uuid[])`

// Pin marks a page as a favorite, appending it to the end of the pin list.
// Idempotent: pinning twice is not an error.
func (r *Repo) Pin(ctx context.Context, userID, pageID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, pinSQL, userID, pageID); err != nil {
		return postgres.MapError(err, "pinned page", pageID)
	}

	return nil
}

// Unpin removes a page from the user's favorites.
// Not an error if the page was not pinned (0 rows affected is OK).
func (r *Repo) Unpin(ctx context.Context, userID, pageID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, unpinSQL, userID, pageID); err != nil {
		return postgres.MapError(err, "pinned page", pageID)
	}

	return nil
}

// List returns the user's pinned pages ordered by position ascending.
// Returns an empty slice (not nil) when nothing is pinned.
func (r *Repo) List(ctx context.Context, userID uuid.UUID) ([]domain.PinnedPage, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list pinned pages: %w", err)
	}
	defer rows.Close()

	var result []domain.PinnedPage
	for rows.Next() {
		var p domain.PinnedPage
		if err := rows.Scan(&p.UserID, &p.PageID, &p.Position, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("list pinned pages: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pinned pages: %w", err)
	}

	if result == nil {
		result = []domain.PinnedPage{}
	}

	return result, nil
}

// DeleteByPages removes every pinned record of the user that references one
// of the given pages. Called inside trash/delete transactions so pins never
// outlive their page's active state.
func (r *Repo) DeleteByPages(ctx context.Context, userID uuid.UUID, pageIDs []uuid.UUID) error {
	if len(pageIDs) == 0 {
		return nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, deleteByPagesSQL, userID, pageIDs); err != nil {
		return postgres.MapError(err, "pinned page", userID)
	}

	return nil
}
