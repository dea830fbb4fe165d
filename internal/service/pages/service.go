// Package pages implements the page-tree service: transactional create,
// read, update, move, trash and restore operations over the page storage
// engine. Every multi-step operation runs inside one database transaction;
// the page row, closure entries, order records and pinned records either all
// change together or not at all.
package pages

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/inkleaf/inkleaf-backend/internal/domain"
)

type pageRepo interface {
	Insert(ctx context.Context, p *domain.Page) (*domain.Page, error)
	GetByID(ctx context.Context, userID, pageID uuid.UUID) (*domain.Page, error)
	ListByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*domain.Page, error)
	ListByParent(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, includeDeleted bool) ([]*domain.Page, error)
	ListTrashed(ctx context.Context, userID uuid.UUID) ([]*domain.Page, error)
	ListTrashedBefore(ctx context.Context, threshold time.Time) ([]*domain.Page, error)
	Update(ctx context.Context, userID, pageID uuid.UUID, params domain.PageUpdateParams) (int64, error)
	SetDeleted(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, isDeleted bool) (int64, error)
	SetParent(ctx context.Context, userID, pageID uuid.UUID, parentID *uuid.UUID) (int64, error)
	DeleteByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}

type pathRepo interface {
	AddSelf(ctx context.Context, id uuid.UUID) error
	AddAncestors(ctx context.Context, parentID, id uuid.UUID) error
	GetAncestorsOf(ctx context.Context, id uuid.UUID) ([]domain.PathEntry, error)
	GetDescendantsOf(ctx context.Context, id uuid.UUID) ([]domain.PathEntry, error)
	RemoveAllEntriesFor(ctx context.Context, ids []uuid.UUID) error
	DetachFromAncestors(ctx context.Context, id uuid.UUID) error
}

type orderRepo interface {
	AppendChild(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, childID uuid.UUID) error
	RemoveChild(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, childID uuid.UUID) error
	SetOrder(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, orderedIDs []uuid.UUID) error
	TransferChild(ctx context.Context, userID uuid.UUID, oldParentID, newParentID *uuid.UUID, childID uuid.UUID, newOrderedIDs []uuid.UUID) error
	GetOrder(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID) ([]uuid.UUID, bool, error)
	GetOrderLocked(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID) ([]uuid.UUID, bool, error)
}

type pinnedRepo interface {
	DeleteByPages(ctx context.Context, userID uuid.UUID, pageIDs []uuid.UUID) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides page-tree operations.
type Service struct {
	pages  pageRepo
	paths  pathRepo
	orders orderRepo
	pins   pinnedRepo
	tx     txManager
	log    *slog.Logger
}

// NewService creates a new pages service.
func NewService(
	log *slog.Logger,
	pages pageRepo,
	paths pathRepo,
	orders orderRepo,
	pins pinnedRepo,
	tx txManager,
) *Service {
	return &Service{
		pages:  pages,
		paths:  paths,
		orders: orders,
		pins:   pins,
		tx:     tx,
		log:    log.With("service", "pages"),
	}
}

// relatedClosure returns id plus every transitive descendant of id, in the
// order the path index yields them (depth ascending, id itself first).
func (s *Service) relatedClosure(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	entries, err := s.paths.GetDescendantsOf(ctx, id)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(entries)+1)
	closure := make([]uuid.UUID, 0, len(entries)+1)

	seen[id] = struct{}{}
	closure = append(closure, id)

	for _, e := range entries {
		if _, ok := seen[e.DescendantID]; ok {
			continue
		}
		seen[e.DescendantID] = struct{}{}
		closure = append(closure, e.DescendantID)
	}

	return closure, nil
}
