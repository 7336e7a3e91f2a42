package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/awaaz-labs/civic-portal/internal/domain"
	"github.com/awaaz-labs/civic-portal/internal/events"
	"github.com/awaaz-labs/civic-portal/internal/repository"
	"github.com/awaaz-labs/civic-portal/internal/storage"
	apperrors "github.com/awaaz-labs/civic-portal/pkg/util"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 2000
	maxResolutionLength  = 1000
	defaultPageSize      = 20
)

// TicketService coordinates ticket intake and triage.
type TicketService struct {
	tickets    repository.TicketRepository
	images     *storage.ImageStore
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	ImageStore *storage.ImageStore
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		images:     deps.ImageStore,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes an intake payload.
type TicketCreateInput struct {
	Title         string
	Description   string
	Category      domain.TicketCategory
	Priority      domain.TicketPriority
	Location      domain.Location
	Images        []string
	ReporterID    *primitive.ObjectID
	ReporterEmail string
}

// CreateTicket validates and persists a new ticket with status open.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	address := strings.TrimSpace(input.Location.Address)

	if title == "" || description == "" || input.Category == "" || address == "" {
		return nil, apperrors.NewValidationError("title, description, category and location address are required", nil)
	}
	if len(title) > maxTitleLength {
		return nil, apperrors.NewValidationError("title cannot exceed 200 characters", nil)
	}
	if len(description) > maxDescriptionLength {
		return nil, apperrors.NewValidationError("description cannot exceed 2000 characters", nil)
	}
	if !input.Category.Valid() {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	images, err := s.images.StoreImages(ctx, input.Images)
	if err != nil {
		return nil, apperrors.NewValidationError("could not process attached images", nil)
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		Category:    input.Category,
		Priority:    priority,
		Status:      domain.TicketStatusOpen,
		Location: domain.Location{
			Address:     address,
			Coordinates: input.Location.Coordinates,
		},
		ReporterID:    input.ReporterID,
		ReporterEmail: strings.ToLower(strings.TrimSpace(input.ReporterEmail)),
		Images:        images,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.EventTicketCreated, events.TicketCreatedPayload{
		TicketID:      ticket.ID.Hex(),
		Title:         ticket.Title,
		Category:      ticket.Category,
		Priority:      ticket.Priority,
		ReporterEmail: ticket.ReporterEmail,
	})
	return ticket, nil
}

// GetTicket fetches a single ticket.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	id, err := primitive.ObjectIDFromHex(ticketID)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid ticket id", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	return ticket, nil
}

// ListAll returns every ticket, newest first, paginated.
func (s *TicketService) ListAll(ctx context.Context, page, pageSize int) ([]domain.Ticket, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return s.tickets.List(ctx, repository.TicketFilter{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
}

// ListForReporter returns tickets submitted by the given identity, matched by
// stored reporter id or email.
func (s *TicketService) ListForReporter(ctx context.Context, reporterID *primitive.ObjectID, email string) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{ReporterID: reporterID}
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
		filter.ReporterEmail = &email
	}
	if filter.ReporterID == nil && filter.ReporterEmail == nil {
		return nil, apperrors.NewValidationError("reporter identity required", nil)
	}
	return s.tickets.List(ctx, filter)
}

// UpdateStatus applies a triage decision. A nil resolution leaves any stored
// resolution untouched.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID string, status domain.TicketStatus, resolution *string) (*domain.Ticket, error) {
	id, err := primitive.ObjectIDFromHex(ticketID)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid ticket id", nil)
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": status})
	}
	if resolution != nil && len(*resolution) > maxResolutionLength {
		return nil, apperrors.NewValidationError("resolution cannot exceed 1000 characters", nil)
	}

	previous, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}

	ticket, err := s.tickets.UpdateStatus(ctx, id, repository.StatusUpdate{
		Status:     status,
		Resolution: resolution,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}

	s.publishEvent(ctx, events.EventTicketStatusChanged, events.TicketStatusChangedPayload{
		TicketID:   ticket.ID.Hex(),
		OldStatus:  previous.Status,
		NewStatus:  ticket.Status,
		Resolution: ticket.Resolution,
	})
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}
