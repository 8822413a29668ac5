package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ticketrack/ticketrack/internal/domain"
	"github.com/ticketrack/ticketrack/internal/events"
	"github.com/ticketrack/ticketrack/internal/repository"
	apperrors "github.com/ticketrack/ticketrack/pkg/util"
)

// TicketService coordinates ticket workflows with ownership enforcement.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles requirements for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    string
	Category    string
}

// TicketUpdateInput carries the mutable fields of an update request. Only
// status is applied; anything else the caller sends is ignored upstream.
type TicketUpdateInput struct {
	Status *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create persists a ticket for the owner. Status always starts Open;
// priority and category default when blank.
func (s *TicketService) Create(ctx context.Context, ownerID int64, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	ticket := &domain.Ticket{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusOpen,
		Priority:    input.Priority,
		Category:    input.Category,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityDefault
	}
	if ticket.Category == "" {
		ticket.Category = domain.TicketCategoryDefault
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketCreated,
		ActorID: ownerID,
		Payload: events.TicketCreatedPayload{
			TicketID: ticket.ID,
			Title:    ticket.Title,
			Priority: ticket.Priority,
			Category: ticket.Category,
		},
	})
	return ticket, nil
}

// List returns the owner's tickets, newest first. A user with no tickets
// gets an empty slice.
func (s *TicketService) List(ctx context.Context, ownerID int64) ([]domain.Ticket, error) {
	return s.tickets.ListByOwner(ctx, ownerID)
}

// Update applies the status field when present. Existence is checked before
// ownership so an unknown id answers NotFound rather than Forbidden.
func (s *TicketService) Update(ctx context.Context, ownerID, ticketID int64, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.getOwned(ctx, ownerID, ticketID)
	if err != nil {
		return nil, err
	}
	if input.Status == nil {
		return ticket, nil
	}

	oldStatus := ticket.Status
	ticket.Status = *input.Status
	if err := s.tickets.UpdateStatus(ctx, ticket.ID, ticket.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	if oldStatus != ticket.Status {
		s.publishEvent(ctx, events.Event{
			Type:    events.EventTicketStatusChanged,
			ActorID: ownerID,
			Payload: events.TicketStatusChangedPayload{
				TicketID:  ticket.ID,
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}
	return ticket, nil
}

// Delete removes the ticket permanently.
func (s *TicketService) Delete(ctx context.Context, ownerID, ticketID int64) error {
	if _, err := s.getOwned(ctx, ownerID, ticketID); err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("ticket", nil)
		}
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketDeleted,
		ActorID: ownerID,
		Payload: events.TicketDeletedPayload{TicketID: ticketID},
	})
	return nil
}

func (s *TicketService) getOwned(ctx context.Context, ownerID, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	if ticket.OwnerID != ownerID {
		return nil, apperrors.NewForbidden("not the ticket owner")
	}
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
