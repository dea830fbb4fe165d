// Package page implements the canonical page-row repository using
// PostgreSQL. It owns the pages table only; closure entries, order records
// and pinned records live in their own packages and are orchestrated by the
// pages service inside one transaction.
package page

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/inkleaf/inkleaf-backend/internal/adapter/postgres"
	"github.com/inkleaf/inkleaf-backend/internal/domain"
)

// Repo provides page persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new page repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// psql builds queries with $N placeholders for pgx.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const pageColumns = `id, user_id, type, name, content, icon_type, icon_value, parent_id, is_deleted, created_at, updated_at`

const insertSQL = `
INSERT INTO pages (id, user_id, type, name, content, icon_type, icon_value, parent_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING created_at, updated_at`

const getByIDSQL = `
SELECT ` + pageColumns + `
FROM pages
WHERE user_id = $1 AND id = $2`

const listByIDsSQL = `
SELECT ` + pageColumns + `
FROM pages
WHERE user_id = $1 AND id = ANY($2::uuid[])`

const listByParentSQL = `
SELECT ` + pageColumns + `
FROM pages
WHERE user_id = $1 AND parent_id IS NOT DISTINCT FROM $2 AND (NOT is_deleted OR $3)
ORDER BY created_at`

const listTrashedSQL = `
SELECT ` + pageColumns + `
FROM pages
WHERE user_id = $1 AND is_deleted`

const listTrashedBeforeSQL = `
SELECT ` + pageColumns + `
FROM pages
WHERE is_deleted AND updated_at < $1
ORDER BY user_id`

const setDeletedSQL = `
UPDATE pages
SET is_deleted = $3, updated_at = now()
WHERE user_id = $1 AND id = ANY($2::uuid[])`

const setParentSQL = `
UPDATE pages
SET parent_id = $3, updated_at = now()
WHERE user_id = $1 AND id = $2`

const deleteByIDsSQL = `
DELETE FROM pages
WHERE user_id = $1 AND id = ANY($2::uuid[])`

// Insert persists a new page row and fills in the server-assigned
// timestamps. Returns domain.ErrAlreadyExists when the id is taken.
func (r *Repo) Insert(ctx context.Context, p *domain.Page) (*domain.Page, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var iconType, iconValue pgtype.Text
	if p.Icon != nil {
		iconType = pgtype.Text{String: p.Icon.Type.String(), Valid: true}
		iconValue = pgtype.Text{String: p.Icon.Value, Valid: true}
	}

	err := querier.QueryRow(ctx, insertSQL,
		p.ID, p.UserID, p.Type.String(),
		ptrStringToPgText(p.Name), ptrStringToPgText(p.Content),
		iconType, iconValue, p.ParentID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "page", p.ID)
	}

	return p, nil
}

// GetByID returns a page by primary key with user_id filter.
// Returns domain.ErrNotFound if the page does not exist or belongs to
// another user; foreign ownership is indistinguishable from absence.
func (r *Repo) GetByID(ctx context.Context, userID, pageID uuid.UUID) (*domain.Page, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, userID, pageID)
	p, err := scanPage(row)
	if err != nil {
		return nil, postgres.MapError(err, "page", pageID)
	}

	return p, nil
}

// ListByIDs returns the user's pages matching ids, keyed by id. Missing ids
// are simply absent from the map.
func (r *Repo) ListByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*domain.Page, error) {
	result := make(map[uuid.UUID]*domain.Page, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByIDsSQL, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("list pages by ids: %w", err)
	}
	defer rows.Close()

	pages, err := scanPages(rows)
	if err != nil {
		return nil, fmt.Errorf("list pages by ids: %w", err)
	}

	for _, p := range pages {
		result[p.ID] = p
	}

	return result, nil
}

// ListByParent returns the user's direct children of parentID (nil for root
// pages) ordered by creation time ascending. This is the fallback ordering
// for scopes without an order record; callers holding an order record sort
// by it instead. Soft-deleted pages are filtered unless includeDeleted.
func (r *Repo) ListByParent(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, includeDeleted bool) ([]*domain.Page, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByParentSQL, userID, parentID, includeDeleted)
	if err != nil {
		return nil, fmt.Errorf("list pages by parent: %w", err)
	}
	defer rows.Close()

	pages, err := scanPages(rows)
	if err != nil {
		return nil, fmt.Errorf("list pages by parent: %w", err)
	}

	return pages, nil
}

// ListTrashed returns all of the user's soft-deleted pages.
func (r *Repo) ListTrashed(ctx context.Context, userID uuid.UUID) ([]*domain.Page, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listTrashedSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list trashed pages: %w", err)
	}
	defer rows.Close()

	pages, err := scanPages(rows)
	if err != nil {
		return nil, fmt.Errorf("list trashed pages: %w", err)
	}

	return pages, nil
}

// ListTrashedBefore returns soft-deleted pages across ALL users whose last
// mutation is older than threshold, ordered by user. Used by the retention
// cron, which purges them one owner at a time.
func (r *Repo) ListTrashedBefore(ctx context.Context, threshold time.Time) ([]*domain.Page, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listTrashedBeforeSQL, threshold)
	if err != nil {
		return nil, fmt.Errorf("list trashed pages before: %w", err)
	}
	defer rows.Close()

	pages, err := scanPages(rows)
	if err != nil {
		return nil, fmt.Errorf("list trashed pages before: %w", err)
	}

	return pages, nil
}

// Update applies a partial update to a page scoped by user_id. A zero
// affected-row count (missing page or foreign owner) is returned as 0, not
// an error; cross-owner updates are a silent no-op by design of the
// least-privilege update pattern.
func (r *Repo) Update(ctx context.Context, userID, pageID uuid.UUID, params domain.PageUpdateParams) (int64, error) {
	if params.IsEmpty() {
		return 0, nil
	}

	update := psql.Update("pages").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"user_id": userID, "id": pageID})

	if params.Name != nil {
		update = update.Set("name", nullableText(*params.Name))
	}
	if params.Content != nil {
		update = update.Set("content", nullableText(*params.Content))
	}
	if params.Icon != nil {
		update = update.
			Set("icon_type", params.Icon.Type.String()).
			Set("icon_value", params.Icon.Value)
	}

	sql, args, err := update.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "page", pageID)
	}

	return tag.RowsAffected(), nil
}

// SetDeleted flips the soft-delete flag on every given page of the user and
// refreshes updated_at. Returns the number of rows affected.
func (r *Repo) SetDeleted(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, isDeleted bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, setDeletedSQL, userID, ids, isDeleted)
	if err != nil {
		return 0, postgres.MapError(err, "page", userID)
	}

	return tag.RowsAffected(), nil
}

// SetParent rewrites a page's parent pointer (nil promotes it to root).
func (r *Repo) SetParent(ctx context.Context, userID, pageID uuid.UUID, parentID *uuid.UUID) (int64, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, setParentSQL, userID, pageID, parentID)
	if err != nil {
		return 0, postgres.MapError(err, "page", pageID)
	}

	return tag.RowsAffected(), nil
}

// DeleteByIDs permanently removes the user's pages with the given ids.
// Returns the number of rows deleted.
func (r *Repo) DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteByIDsSQL, userID, ids)
	if err != nil {
		return 0, postgres.MapError(err, "page", userID)
	}

	return tag.RowsAffected(), nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanPage(row pgx.Row) (*domain.Page, error) {
	var (
		p                 domain.Page
		pageType          string
		name, content     pgtype.Text
		iconType, iconVal pgtype.Text
	)

	err := row.Scan(
		&p.ID, &p.UserID, &pageType, &name, &content,
		&iconType, &iconVal, &p.ParentID, &p.IsDeleted,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Type = domain.PageType(pageType)
	if name.Valid {
		p.Name = &name.String
	}
	if content.Valid {
		p.Content = &content.String
	}
	if iconType.Valid {
		p.Icon = &domain.Icon{Type: domain.IconType(iconType.String), Value: iconVal.String}
	}

	return &p, nil
}

func scanPages(rows pgx.Rows) ([]*domain.Page, error) {
	var result []*domain.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []*domain.Page{}
	}

	return result, nil
}

// ---------------------------------------------------------------------------
// pgtype helpers
// ---------------------------------------------------------------------------

// ptrStringToPgText converts a *string to pgtype.Text (nil -> NULL).
func ptrStringToPgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

// nullableText maps the empty string to NULL: ptr("") in update params
// means "clear the value".
func nullableText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
