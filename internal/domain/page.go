package domain

import (
	"time"

	"github.com/google/uuid"
)

// Page is one node of a user's page tree. ParentID is nil for root pages;
// a non-nil ParentID referenced an existing page owned by the same user at
// creation time, but the link can be severed later by a partial restore.
type Page struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      PageType
	Name      *string
	Content   *string
	Icon      *Icon
	ParentID  *uuid.UUID
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Icon is an optional page icon descriptor.
type Icon struct {
	Type  IconType
	Value string
}

// PageUpdateParams carries partial-update fields for a page. A nil field
// means "leave unchanged"; for Name and Content a pointer to the empty
// string clears the value.
type PageUpdateParams struct {
	Name    *string
	Content *string
	Icon    *Icon
}

// IsEmpty reports whether the update would change nothing.
func (p PageUpdateParams) IsEmpty() bool {
	return p.Name == nil && p.Content == nil && p.Icon == nil
}

// PathEntry is one ancestor→descendant relationship in the closure table.
// Every page has exactly one self entry (Ancestor == Descendant, Depth 0).
type PathEntry struct {
	AncestorID   uuid.UUID
	DescendantID uuid.UUID
	Depth        int
}

// IsSelf reports whether the entry is a page's depth-0 self entry.
func (e PathEntry) IsSelf() bool {
	return e.AncestorID == e.DescendantID && e.Depth == 0
}

// PageOrder is the ordered list of direct-child ids for one scope.
// A nil ParentID denotes the root scope. An order record is never persisted
// with an empty list; it is deleted when its last entry is removed.
type PageOrder struct {
	UserID    uuid.UUID
	ParentID  *uuid.UUID
	PageIDs   []uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PinnedPage marks a page as a user favorite. A pinned record exists only
// while the referenced page is not soft-deleted.
type PinnedPage struct {
	UserID    uuid.UUID
	PageID    uuid.UUID
	Position  int
	CreatedAt time.Time
}

// User is an owner record. Authentication lives outside this service; users
// exist so pages and pinned rows have a real owner to reference.
type User struct {
	ID        uuid.UUID
	Email     string
	CreatedAt time.Time
}
