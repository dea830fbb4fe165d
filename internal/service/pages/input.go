package pages

import (
	"github.com/google/uuid"

	"github.com/inkleaf/inkleaf-backend/internal/domain"
)

// CreateInput carries the fields for creating a page. ID may be supplied by
// the client (optimistic-update flows pre-generate ids); when present it
// must be a well-formed UUID. ParentID nil creates a root page.
type CreateInput struct {
	ID       *string
	Type     domain.PageType
	Name     *string
	Content  *string
	Icon     *domain.Icon
	ParentID *uuid.UUID
}

// Validate checks the input and resolves the page id, generating one when
// the client supplied none.
func (in CreateInput) Validate() (uuid.UUID, error) {
	var errs []domain.FieldError

	if !in.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "unknown page type"})
	}
	if in.Icon != nil && !in.Icon.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "icon", Message: "unknown icon type"})
	}

	id := uuid.New()
	if in.ID != nil {
		parsed, err := uuid.Parse(*in.ID)
		if err != nil || parsed == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: "id", Message: "must be a well-formed UUID"})
		} else {
			id = parsed
		}
	}

	if len(errs) > 0 {
		return uuid.Nil, domain.NewValidationErrors(errs)
	}

	return id, nil
}

// UpdateInput carries partial-update fields for a page. Nil fields are left
// unchanged; a pointer to the empty string clears Name or Content. Order,
// when non-nil, replaces the ordered list of the page's own children.
type UpdateInput struct {
	Name    *string
	Content *string
	Icon    *domain.Icon
	Order   []uuid.UUID
}

func (in UpdateInput) params() domain.PageUpdateParams {
	return domain.PageUpdateParams{
		Name:    in.Name,
		Content: in.Content,
		Icon:    in.Icon,
	}
}
