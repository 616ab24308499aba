package model

import (
	"encoding/json"
	"time"
)

// Portfolio is the single hosted site belonging to a user. Exactly one
// portfolio exists per user — both rows are created in one transaction at
// registration, and the portfolio is removed with the user.
//
// Manifest is stored and served as opaque JSON (json.RawMessage) — the
// service never deep-validates it against the Manifest shape. A user can
// store `{}` and that is intentional: the document is replaced wholesale by
// its owner, and the renderers tolerate missing sections.
type Portfolio struct {
	ID        string          `json:"id"        db:"id"`
	UserID    string          `json:"userId"    db:"user_id"`
	Manifest  json.RawMessage `json:"manifest"  db:"manifest"`
	Theme     string          `json:"theme"     db:"theme"`
	Subdomain string          `json:"subdomain" db:"subdomain"` // unique routing key
	IsPublic  bool            `json:"isPublic"  db:"is_public"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// PublicPortfolio is one row of the public directory listing, also the
// input to sitemap generation.
type PublicPortfolio struct {
	Username  string    `json:"username"`
	Subdomain string    `json:"subdomain"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Themes users can select. The renderers are purely presentational and live
// in the frontend; the backend only stores and validates the selector.
const (
	ThemeMinimal   = "minimal"
	ThemeSearch    = "search"
	ThemeStreaming = "streaming"
	ThemeNewspaper = "newspaper"
	ThemeNotes     = "notes"
	ThemeEditor    = "editor"
	ThemeDesktop   = "desktop"
)

// ValidThemes is the closed set accepted by the theme update endpoint.
var ValidThemes = []string{
	ThemeMinimal,
	ThemeSearch,
	ThemeStreaming,
	ThemeNewspaper,
	ThemeNotes,
	ThemeEditor,
	ThemeDesktop,
}

// IsValidTheme reports whether name is one of the known themes.
func IsValidTheme(name string) bool {
	for _, t := range ValidThemes {
		if name == t {
			return true
		}
	}
	return false
}
