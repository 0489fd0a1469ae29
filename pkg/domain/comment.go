package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a comment on a mod. Replies carry the parent comment's ID;
// top-level comments have a nil ParentID.
type Comment struct {
	ID        uuid.UUID  `json:"id"`
	ModID     uuid.UUID  `json:"mod_id"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	Login     string     `json:"login"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"created_at"`
}
