package domain

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus is the lifecycle state of a support ticket.
type TicketStatus string

const (
	TicketOpen     TicketStatus = "open"
	TicketAnswered TicketStatus = "answered"
	TicketClosed   TicketStatus = "closed"
)

// Ticket is a support ticket opened by a user.
type Ticket struct {
	ID        uuid.UUID     `json:"id"`
	Subject   string        `json:"subject"`
	Opener    string        `json:"opener"`
	Status    TicketStatus  `json:"status"`
	Replies   []TicketReply `json:"replies,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TicketReply is a single message in a ticket thread.
type TicketReply struct {
	ID        uuid.UUID `json:"id"`
	TicketID  uuid.UUID `json:"ticket_id"`
	Login     string    `json:"login"`
	Staff     bool      `json:"staff"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
