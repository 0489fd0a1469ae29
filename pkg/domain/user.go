package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered Sayonika user.
type User struct {
	ID          uuid.UUID  `json:"id"`
	Login       string     `json:"login"`
	DisplayName string     `json:"display_name,omitempty"`
	Email       string     `json:"email,omitempty"`
	Bio         string     `json:"bio,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	Admin       bool       `json:"admin"`
	ModCount    int        `json:"mod_count"`
	CreatedAt   time.Time  `json:"created_at"`
	LastSeenAt  *time.Time `json:"last_seen_at,omitempty"`
}

// Achievement is a badge a user has earned on the platform.
type Achievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	EarnedAt    time.Time `json:"earned_at"`
}
