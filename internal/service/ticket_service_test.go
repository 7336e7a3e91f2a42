package service

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/awaaz-labs/civic-portal/internal/domain"
	"github.com/awaaz-labs/civic-portal/internal/repository"
)

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets []*domain.Ticket
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket.ID = primitive.NewObjectID()
	clone := *ticket
	r.tickets = append(r.tickets, &clone)
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.ID == id {
			clone := *t
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.Ticket
	for _, t := range r.tickets {
		if filter.ReporterID != nil || filter.ReporterEmail != nil {
			byID := filter.ReporterID != nil && t.ReporterID != nil && *t.ReporterID == *filter.ReporterID
			byEmail := filter.ReporterEmail != nil && t.ReporterEmail == *filter.ReporterEmail
			if !byID && !byEmail {
				continue
			}
		}
		matched = append(matched, *t)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (r *fakeTicketRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, update repository.StatusUpdate) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.ID == id {
			t.Status = update.Status
			if update.Resolution != nil {
				t.Resolution = *update.Resolution
			}
			clone := *t
			return &clone, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func newTestTicketService() (*TicketService, *fakeTicketRepo) {
	repo := &fakeTicketRepo{}
	return NewTicketService(TicketDependencies{TicketRepo: repo}), repo
}

func validTicketInput() TicketCreateInput {
	return TicketCreateInput{
		Title:         "Broken streetlight",
		Description:   "The light at the corner has been out for a week.",
		Category:      domain.TicketCategoryInfrastructure,
		Location:      domain.Location{Address: "5th and Main"},
		ReporterEmail: "jane@example.com",
	}
}

func TestCreateTicketDefaults(t *testing.T) {
	svc, _ := newTestTicketService()

	ticket, err := svc.CreateTicket(context.Background(), validTicketInput())
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
	assert.False(t, ticket.ID.IsZero())
}

func TestCreateTicketValidation(t *testing.T) {
	svc, _ := newTestTicketService()
	ctx := context.Background()

	missing := validTicketInput()
	missing.Title = "   "
	_, err := svc.CreateTicket(ctx, missing)
	requireStatus(t, err, http.StatusBadRequest)

	badCategory := validTicketInput()
	badCategory.Category = "weather"
	_, err = svc.CreateTicket(ctx, badCategory)
	requireStatus(t, err, http.StatusBadRequest)

	badPriority := validTicketInput()
	badPriority.Priority = "critical"
	_, err = svc.CreateTicket(ctx, badPriority)
	requireStatus(t, err, http.StatusBadRequest)
}

func TestCreateTicketNormalizesReporterEmail(t *testing.T) {
	svc, _ := newTestTicketService()

	input := validTicketInput()
	input.ReporterEmail = " Jane@Example.COM "
	ticket, err := svc.CreateTicket(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", ticket.ReporterEmail)
}

func TestGetTicket(t *testing.T) {
	svc, _ := newTestTicketService()
	created, err := svc.CreateTicket(context.Background(), validTicketInput())
	require.NoError(t, err)

	fetched, err := svc.GetTicket(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.Title, fetched.Title)

	_, err = svc.GetTicket(context.Background(), "bogus")
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.GetTicket(context.Background(), primitive.NewObjectID().Hex())
	requireStatus(t, err, http.StatusNotFound)
}

func TestListForReporterScoping(t *testing.T) {
	svc, _ := newTestTicketService()
	ctx := context.Background()

	mine := validTicketInput()
	_, err := svc.CreateTicket(ctx, mine)
	require.NoError(t, err)

	other := validTicketInput()
	other.ReporterEmail = "someone-else@example.com"
	_, err = svc.CreateTicket(ctx, other)
	require.NoError(t, err)

	tickets, err := svc.ListForReporter(ctx, nil, "jane@example.com")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "jane@example.com", tickets[0].ReporterEmail)

	_, err = svc.ListForReporter(ctx, nil, "  ")
	requireStatus(t, err, http.StatusBadRequest)
}

func TestListAllPagination(t *testing.T) {
	svc, _ := newTestTicketService()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := svc.CreateTicket(ctx, validTicketInput())
		require.NoError(t, err)
	}

	page1, err := svc.ListAll(ctx, 1, 3)
	require.NoError(t, err)
	assert.Len(t, page1, 3)

	page2, err := svc.ListAll(ctx, 2, 3)
	require.NoError(t, err)
	assert.Len(t, page2, 2)
}

func TestUpdateStatusWithResolution(t *testing.T) {
	svc, _ := newTestTicketService()
	ctx := context.Background()
	created, err := svc.CreateTicket(ctx, validTicketInput())
	require.NoError(t, err)

	resolution := "Bulb replaced by maintenance crew."
	updated, err := svc.UpdateStatus(ctx, created.ID.Hex(), domain.TicketStatusResolved, &resolution)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, updated.Status)
	assert.Equal(t, resolution, updated.Resolution)

	// A follow-up status change without a resolution keeps the stored one.
	updated, err = svc.UpdateStatus(ctx, created.ID.Hex(), domain.TicketStatusClosed, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, updated.Status)
	assert.Equal(t, resolution, updated.Resolution)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, _ := newTestTicketService()
	created, err := svc.CreateTicket(context.Background(), validTicketInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), created.ID.Hex(), "archived", nil)
	requireStatus(t, err, http.StatusBadRequest)
}

func TestUpdateStatusUnknownTicket(t *testing.T) {
	svc, _ := newTestTicketService()

	_, err := svc.UpdateStatus(context.Background(), primitive.NewObjectID().Hex(), domain.TicketStatusResolved, nil)
	requireStatus(t, err, http.StatusNotFound)
}
