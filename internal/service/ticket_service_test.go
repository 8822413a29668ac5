package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ticketrack/ticketrack/internal/domain"
	"github.com/ticketrack/ticketrack/internal/repository"
	apperrors "github.com/ticketrack/ticketrack/pkg/util"
)

func newTicketService() (*TicketService, *repository.MemoryTicketRepository) {
	repo := repository.NewMemoryTicketRepository()
	return NewTicketService(TicketDependencies{TicketRepo: repo}), repo
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	require.Equal(t, status, domainErr.HTTPStatus)
}

func TestTicketService_CreateDefaults(t *testing.T) {
	svc, _ := newTicketService()

	ticket, err := svc.Create(context.Background(), 1, TicketCreateInput{
		Title:       "Printer on fire",
		Description: "Smoke everywhere",
	})
	require.NoError(t, err)
	require.Equal(t, "Open", ticket.Status)
	require.Equal(t, "Medium", ticket.Priority)
	require.Equal(t, "Support", ticket.Category)
	require.Equal(t, int64(1), ticket.OwnerID)
	require.False(t, ticket.CreatedAt.IsZero())
}

func TestTicketService_CreateValidation(t *testing.T) {
	svc, _ := newTicketService()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, TicketCreateInput{Description: "no title"})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.Create(ctx, 1, TicketCreateInput{Title: "no description"})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.Create(ctx, 1, TicketCreateInput{Title: "  ", Description: "blank title"})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestTicketService_ListNewestFirst(t *testing.T) {
	svc, repo := newTicketService()
	ctx := context.Background()
	base := time.Now()

	t1 := &domain.Ticket{OwnerID: 1, Title: "first", Description: "d", Status: domain.TicketStatusOpen, CreatedAt: base.Add(-time.Minute)}
	t2 := &domain.Ticket{OwnerID: 1, Title: "second", Description: "d", Status: domain.TicketStatusOpen, CreatedAt: base}
	require.NoError(t, repo.Create(ctx, t1))
	require.NoError(t, repo.Create(ctx, t2))

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "second", list[0].Title)
	require.Equal(t, "first", list[1].Title)
}

func TestTicketService_ListEmpty(t *testing.T) {
	svc, _ := newTicketService()

	list, err := svc.List(context.Background(), 99)
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestTicketService_UpdateOwnership(t *testing.T) {
	svc, _ := newTicketService()
	ctx := context.Background()

	ticket, err := svc.Create(ctx, 1, TicketCreateInput{Title: "t", Description: "d"})
	require.NoError(t, err)

	status := "Closed"
	_, err = svc.Update(ctx, 2, ticket.ID, TicketUpdateInput{Status: &status})
	requireStatus(t, err, http.StatusForbidden)

	_, err = svc.Update(ctx, 1, 999, TicketUpdateInput{Status: &status})
	requireStatus(t, err, http.StatusNotFound)

	updated, err := svc.Update(ctx, 1, ticket.ID, TicketUpdateInput{Status: &status})
	require.NoError(t, err)
	require.Equal(t, "Closed", updated.Status)

	// repeated identical update is a no-op
	updated, err = svc.Update(ctx, 1, ticket.ID, TicketUpdateInput{Status: &status})
	require.NoError(t, err)
	require.Equal(t, "Closed", updated.Status)
}

func TestTicketService_UpdateWithoutStatus(t *testing.T) {
	svc, _ := newTicketService()
	ctx := context.Background()

	ticket, err := svc.Create(ctx, 1, TicketCreateInput{Title: "t", Description: "d"})
	require.NoError(t, err)

	unchanged, err := svc.Update(ctx, 1, ticket.ID, TicketUpdateInput{})
	require.NoError(t, err)
	require.Equal(t, "Open", unchanged.Status)
	require.Equal(t, ticket.Title, unchanged.Title)
}

func TestTicketService_StatusFreeText(t *testing.T) {
	svc, _ := newTicketService()
	ctx := context.Background()

	ticket, err := svc.Create(ctx, 1, TicketCreateInput{Title: "t", Description: "d"})
	require.NoError(t, err)

	status := "Waiting On Vendor"
	updated, err := svc.Update(ctx, 1, ticket.ID, TicketUpdateInput{Status: &status})
	require.NoError(t, err)
	require.Equal(t, "Waiting On Vendor", updated.Status)
}

func TestTicketService_DeleteTwice(t *testing.T) {
	svc, _ := newTicketService()
	ctx := context.Background()

	ticket, err := svc.Create(ctx, 1, TicketCreateInput{Title: "t", Description: "d"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, ticket.ID))
	err = svc.Delete(ctx, 1, ticket.ID)
	requireStatus(t, err, http.StatusNotFound)
}

func TestTicketService_DeleteWrongOwner(t *testing.T) {
	svc, _ := newTicketService()
	ctx := context.Background()

	ticket, err := svc.Create(ctx, 1, TicketCreateInput{Title: "t", Description: "d"})
	require.NoError(t, err)

	err = svc.Delete(ctx, 2, ticket.ID)
	requireStatus(t, err, http.StatusForbidden)

	// still present for the real owner
	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
