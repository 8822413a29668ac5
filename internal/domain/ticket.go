package domain

import "time"

// Defaults applied when a ticket is created without explicit values.
// Status is free-text beyond the initial value; callers may set any string.
const (
	TicketStatusOpen      = "Open"
	TicketPriorityDefault = "Medium"
	TicketCategoryDefault = "Support"
)

// Ticket is the aggregate for support requests. Every ticket is owned by
// exactly one user; only the owner may read, mutate, or delete it.
type Ticket struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description string
	Status      string
	Priority    string
	Category    string
	CreatedAt   time.Time
}
