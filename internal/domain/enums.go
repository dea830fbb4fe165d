package domain

// PageType identifies what kind of block tree a page's content holds.
type PageType string

const (
	// PageTypeRichText is a structured rich-text document.
	PageTypeRichText PageType = "RICH_TEXT"
	// PageTypePlainText is an unformatted text page.
	PageTypePlainText PageType = "PLAIN_TEXT"
	// PageTypeDatabase is a structured-object collection page.
	PageTypeDatabase PageType = "DATABASE"
	// PageTypeEmbed is an embedded external frame.
	PageTypeEmbed PageType = "EMBED"
)

func (t PageType) String() string { return string(t) }

func (t PageType) IsValid() bool {
	switch t {
	case PageTypeRichText, PageTypePlainText, PageTypeDatabase, PageTypeEmbed:
		return true
	}
	return false
}

// IconType identifies the kind of icon descriptor attached to a page.
type IconType string

const (
	IconTypeEmoji IconType = "EMOJI"
	IconTypeImage IconType = "IMAGE"
)

func (t IconType) String() string { return string(t) }

func (t IconType) IsValid() bool {
	switch t {
	case IconTypeEmoji, IconTypeImage:
		return true
	}
	return false
}
