// Package pageorder implements per-parent sibling order records using
// PostgreSQL. Each scope (a parent page, or the root scope when the parent
// is nil) owns at most one row holding the ordered child id array. The row
// is the sole source of truth for display order within its scope.
package pageorder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/inkleaf/inkleaf-backend/internal/adapter/postgres"
)

// Repo provides order-record persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new order record repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// The unique scope index collapses a NULL parent into the zero uuid, so the
// ON CONFLICT targets below must spell out the same expression.
const scopeConflictTarget = `(user_id, COALESCE(parent_id, '00000000-0000-0000-0000-000000000000'::uuid))`

// appendChildSQL is a single-statement load-or-create + append. The @> guard
// makes the append idempotent, and a single INSERT ... ON CONFLICT statement
// cannot lose concurrent appends the way a read-modify-write cycle can.
const appendChildSQL = `
INSERT INTO page_orders (user_id, parent_id, page_ids)
VALUES ($1, $2, ARRAY[$3]::uuid[])
ON CONFLICT ` + scopeConflictTarget + `
DO UPDATE SET page_ids = array_append(page_orders.page_ids, $3), updated_at = now()
WHERE NOT page_orders.page_ids @> ARRAY[$3]::uuid[]`

const removeChildSQL = `
UPDATE page_orders
SET page_ids = array_remove(page_ids, $3), updated_at = now()
WHERE user_id = $1 AND parent_id IS NOT DISTINCT FROM $2`

const deleteEmptySQL = `
DELETE FROM page_orders
WHERE user_id = $1 AND parent_id IS NOT DISTINCT FROM $2 AND cardinality(page_ids) = 0`

const setOrderSQL = `
INSERT INTO page_orders (user_id, parent_id, page_ids)
VALUES ($1, $2, $3)
ON CONFLICT ` + scopeConflictTarget + `
DO UPDATE SET page_ids = EXCLUDED.page_ids, updated_at = now()`

const deleteScopeSQL = `
DELETE FROM page_orders
WHERE user_id = $1 AND parent_id IS NOT DISTINCT FROM $2`

const getOrderSQL = `
SELECT page_ids FROM page_orders
WHERE user_id = $1 AND parent_id IS NOT DISTINCT FROM $2`

const getOrderLockedSQL = getOrderSQL + `
FOR UPDATE`

// AppendChild appends childID to the scope's list, creating the record when
// the scope has none. Appending an id already in the list is a no-op.
func (r *Repo) AppendChild(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, childID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, appendChildSQL, userID, parentID, childID); err != nil {
		return postgres.MapError(err, "order record", childID)
	}

	return nil
}

// RemoveChild removes childID from the scope's list and deletes the record
// entirely when the list becomes empty: an empty list is never persisted.
// Removing from an absent scope is a no-op.
func (r *Repo) RemoveChild(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, childID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, removeChildSQL, userID, parentID, childID); err != nil {
		return postgres.MapError(err, "order record", childID)
	}

	if _, err := querier.Exec(ctx, deleteEmptySQL, userID, parentID); err != nil {
		return postgres.MapError(err, "order record", childID)
	}

	return nil
}

// SetOrder replaces the scope's list wholesale. An empty list deletes the
// record. Membership validation is the caller's contract; the store
// persists exactly what it is given.
func (r *Repo) SetOrder(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, orderedIDs []uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if len(orderedIDs) == 0 {
		if _, err := querier.Exec(ctx, deleteScopeSQL, userID, parentID); err != nil {
			return postgres.MapError(err, "order record", userID)
		}
		return nil
	}

	if _, err := querier.Exec(ctx, setOrderSQL, userID, parentID, orderedIDs); err != nil {
		return postgres.MapError(err, "order record", userID)
	}

	return nil
}

// TransferChild atomically moves childID between scopes: it is removed from
// the old scope and the new scope's list is replaced with newOrderedIDs,
// which must already include childID. Callers run this inside a transaction.
func (r *Repo) TransferChild(ctx context.Context, userID uuid.UUID, oldParentID, newParentID *uuid.UUID, childID uuid.UUID, newOrderedIDs []uuid.UUID) error {
	if err := r.RemoveChild(ctx, userID, oldParentID, childID); err != nil {
		return fmt.Errorf("remove from old scope: %w", err)
	}

	if err := r.SetOrder(ctx, userID, newParentID, newOrderedIDs); err != nil {
		return fmt.Errorf("set new scope order: %w", err)
	}

	return nil
}

// GetOrder returns the scope's ordered id list. The second return value
// distinguishes an absent record (never created, or deleted after becoming
// empty) from an existing one.
func (r *Repo) GetOrder(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID) ([]uuid.UUID, bool, error) {
	return r.getOrder(ctx, userID, parentID, getOrderSQL)
}

// GetOrderLocked is GetOrder with a FOR UPDATE row lock, for callers that
// validate membership and then rewrite the list inside one transaction.
func (r *Repo) GetOrderLocked(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID) ([]uuid.UUID, bool, error) {
	return r.getOrder(ctx, userID, parentID, getOrderLockedSQL)
}

func (r *Repo) getOrder(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, sql string) ([]uuid.UUID, bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var ids []uuid.UUID
	err := querier.QueryRow(ctx, sql, userID, parentID).Scan(&ids)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get order record: %w", err)
	}

	return ids, true, nil
}
