// Package pinned implements the favorites service: users pin pages for quick
// access, and the pin list keeps a stable user-chosen order.
package pinned

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/inkleaf/inkleaf-backend/internal/domain"
	"github.com/inkleaf/inkleaf-backend/pkg/ctxutil"
)

type pageRepo interface {
	GetByID(ctx context.Context, userID, pageID uuid.UUID) (*domain.Page, error)
	ListByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*domain.Page, error)
}

type pinnedRepo interface {
	Pin(ctx context.Context, userID, pageID uuid.UUID) error
	Unpin(ctx context.Context, userID, pageID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]domain.PinnedPage, error)
}

// Service provides pinned-page operations.
type Service struct {
	pages pageRepo
	pins  pinnedRepo
	log   *slog.Logger
}

// NewService creates a new pinned service.
func NewService(log *slog.Logger, pages pageRepo, pins pinnedRepo) *Service {
	return &Service{
		pages: pages,
		pins:  pins,
		log:   log.With("service", "pinned"),
	}
}

// Pin adds a page to the user's favorites. Only live pages can be pinned: a
// missing page fails with domain.ErrNotFound and a trashed one with
// domain.ErrConflict. Pinning an already pinned page is a no-op.
func (s *Service) Pin(ctx context.Context, pageID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	page, err := s.pages.GetByID(ctx, userID, pageID)
	if err != nil {
		return fmt.Errorf("get page: %w", err)
	}
	if page.IsDeleted {
		return fmt.Errorf("page %s is in the trash: %w", pageID, domain.ErrConflict)
	}

	if err := s.pins.Pin(ctx, userID, pageID); err != nil {
		return fmt.Errorf("pin page: %w", err)
	}

	s.log.InfoContext(ctx, "page pinned",
		slog.String("user_id", userID.String()),
		slog.String("page_id", pageID.String()),
	)

	return nil
}

// Unpin removes a page from the user's favorites. Unpinning a page that is
// not pinned is a no-op.
func (s *Service) Unpin(ctx context.Context, pageID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := s.pins.Unpin(ctx, userID, pageID); err != nil {
		return fmt.Errorf("unpin page: %w", err)
	}

	return nil
}

// List returns the user's pinned pages in pin order, resolved to full page
// records. Records whose page row has vanished are skipped.
func (s *Service) List(ctx context.Context) ([]*domain.Page, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	records, err := s.pins.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list pinned records: %w", err)
	}
	if len(records) == 0 {
		return []*domain.Page{}, nil
	}

	ids := make([]uuid.UUID, len(records))
	for i, rec := range records {
		ids[i] = rec.PageID
	}

	pagesByID, err := s.pages.ListByIDs(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("load pinned pages: %w", err)
	}

	result := make([]*domain.Page, 0, len(records))
	for _, rec := range records {
		if p, ok := pagesByID[rec.PageID]; ok {
			result = append(result, p)
		}
	}

	return result, nil
}
