// Package pathindex implements the page closure table using PostgreSQL.
// It materializes every (ancestor, descendant, depth) pair of the page tree
// so subtree and ancestor-chain queries are single index scans.
package pathindex

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/inkleaf/inkleaf-backend/internal/adapter/postgres"
	"github.com/inkleaf/inkleaf-backend/internal/domain"
)

// Repo provides closure-table persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new path index repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const addSelfSQL = `
INSERT INTO page_paths (ancestor_id, descendant_id, depth)
VALUES ($1, $1, 0)`

const addAncestorsSQL = `
INSERT INTO page_paths (ancestor_id, descendant_id, depth)
SELECT ancestor_id, $2, depth + 1
FROM page_paths
WHERE descendant_id = $1`

const getAncestorsSQL = `
SELECT ancestor_id, descendant_id, depth
FROM page_paths
WHERE descendant_id = $1
ORDER BY depth`

const getDescendantsSQL = `
SELECT ancestor_id, descendant_id, depth
FROM page_paths
WHERE ancestor_id = $1
ORDER BY depth`

const removeAllEntriesSQL = `
DELETE FROM page_paths
WHERE ancestor_id = ANY($1::uuid[]) OR descendant_id = ANY($1::uuid[])`

// detachSQL removes, for every node of the subtree rooted at $1 (the root
// included), the entries whose ancestor lies strictly above $1 in the old
// lineage. Entries inside the subtree are untouched: their depths are
// relative to nodes at or below $1.
const detachSQL = `
DELETE FROM page_paths
WHERE descendant_id IN (SELECT descendant_id FROM page_paths WHERE ancestor_id = $1)
  AND ancestor_id IN (SELECT ancestor_id FROM page_paths WHERE descendant_id = $1 AND depth > 0)`

// AddSelf inserts the depth-0 self entry for a page.
// Returns domain.ErrAlreadyExists if the self entry is already present.
func (r *Repo) AddSelf(ctx context.Context, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, addSelfSQL, id); err != nil {
		return postgres.MapError(err, "path entry", id)
	}

	return nil
}

// AddAncestors copies the parent's ancestor chain onto a page: for every
// entry (A, parent, d) one entry (A, id, d+1) is inserted, including the
// parent's own self entry which becomes the direct-parent link at depth 1.
// Returns domain.ErrNotFound if the parent has no self entry; callers must
// validate parent existence before linking.
func (r *Repo) AddAncestors(ctx context.Context, parentID, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, addAncestorsSQL, parentID, id)
	if err != nil {
		return postgres.MapError(err, "path entry", id)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("parent %s has no path entries: %w", parentID, domain.ErrNotFound)
	}

	return nil
}

// GetAncestorsOf returns all entries with descendant = id ordered by depth
// ascending: the page's self entry first, the root of its lineage last.
// Returns an empty slice (not nil) for an unknown id.
func (r *Repo) GetAncestorsOf(ctx context.Context, id uuid.UUID) ([]domain.PathEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, getAncestorsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("get ancestors: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetDescendantsOf returns all entries with ancestor = id ordered by depth
// ascending (the page itself first, deepest descendants last).
// Returns an empty slice (not nil) for an unknown id.
func (r *Repo) GetDescendantsOf(ctx context.Context, id uuid.UUID) ([]domain.PathEntry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, getDescendantsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("get descendants: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// RemoveAllEntriesFor deletes every entry whose ancestor OR descendant is in
// ids. Callers pass the full related-id closure of a permanent delete so no
// entry survives that references a removed page from either side.
func (r *Repo) RemoveAllEntriesFor(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, removeAllEntriesSQL, ids); err != nil {
		return fmt.Errorf("remove path entries: %w", err)
	}

	return nil
}

// DetachFromAncestors severs a page (and its whole subtree) from the lineage
// above it without deleting any page. The page keeps its self entry; every
// subtree node loses its entries to ancestors strictly above the page.
func (r *Repo) DetachFromAncestors(ctx context.Context, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, detachSQL, id); err != nil {
		return fmt.Errorf("detach from ancestors: %w", err)
	}

	return nil
}

func scanEntries(rows pgx.Rows) ([]domain.PathEntry, error) {
	var result []domain.PathEntry
	for rows.Next() {
		var e domain.PathEntry
		if err := rows.Scan(&e.AncestorID, &e.DescendantID, &e.Depth); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []domain.PathEntry{}
	}

	return result, nil
}
