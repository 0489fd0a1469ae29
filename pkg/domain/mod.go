package domain

import (
	"time"

	"github.com/google/uuid"
)

// ModStatus is the moderation state of a mod.
type ModStatus string

const (
	ModPending  ModStatus = "pending"
	ModApproved ModStatus = "approved"
	ModRejected ModStatus = "rejected"
)

// Mod represents a shared mod listing.
type Mod struct {
	ID            uuid.UUID `json:"id"`
	AuthorID      uuid.UUID `json:"author_id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Tagline       string    `json:"tagline,omitempty"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category"`
	Status        ModStatus `json:"status"`
	RejectReason  string    `json:"reject_reason,omitempty"`
	Downloads     int       `json:"downloads"`
	Favorites     int       `json:"favorites"`
	IconURL       string    `json:"icon_url,omitempty"`
	DownloadURL   string    `json:"download_url,omitempty"`
	Author        *Author   `json:"author,omitempty"` // author info for display
	Comments      []Comment `json:"comments,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Valid mod categories.
var ValidCategories = []string{
	"story",
	"comedy",
	"horror",
	"romance",
	"gameplay",
	"music",
	"art",
	"translation",
	"utility",
	"other",
}

var validCategorySet = func() map[string]bool {
	m := make(map[string]bool, len(ValidCategories))
	for _, c := range ValidCategories {
		m[c] = true
	}
	return m
}()

// ValidCategory returns true if the given category is a known mod category.
func ValidCategory(c string) bool {
	return validCategorySet[c]
}

// Author is the user who published a mod or wrote a comment.
type Author struct {
	Login       string `json:"login"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	ModCount    int    `json:"mod_count"`
}
