package dto

import "github.com/ticketrack/ticketrack/internal/domain"

// createdAtLayout renders creation time as a display string. Callers must
// not parse or sort on it.
const createdAtLayout = "Jan 02, 03:04 PM"

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
}

// UpdateTicketRequest carries the only mutable field. Unknown fields in the
// request body decode to nothing and are silently ignored.
type UpdateTicketRequest struct {
	Status *string `json:"status"`
}

// TicketResponse is a list/detail item.
type TicketResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	CreatedAt   string `json:"created_at"`
}

// NewTicketResponse maps a domain ticket onto the wire shape.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		Category:    ticket.Category,
		CreatedAt:   ticket.CreatedAt.Format(createdAtLayout),
	}
}
