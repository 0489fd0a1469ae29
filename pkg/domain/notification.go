package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind distinguishes notification variants for icon selection
// and click navigation.
type NotificationKind string

const (
	KindAchievement NotificationKind = "achievement"
	KindModApproved NotificationKind = "mod_approved"
	KindModRejected NotificationKind = "mod_rejected"
	KindGeneral     NotificationKind = "general"
)

// Notification represents a single notification event delivered to a user.
// IDs are server-assigned and unique per user; the list endpoint returns
// records newest first.
type Notification struct {
	ID        int64            `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	RelatedID *uuid.UUID       `json:"related_id,omitempty"` // referenced mod, if any
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

// UnreadCount is the response body of the lightweight count endpoint.
type UnreadCount struct {
	Count int `json:"count"`
}
