package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/awaaz-labs/civic-portal/internal/api/dto"
	"github.com/awaaz-labs/civic-portal/internal/auth"
	"github.com/awaaz-labs/civic-portal/internal/domain"
	"github.com/awaaz-labs/civic-portal/internal/service"
	apperrors "github.com/awaaz-labs/civic-portal/pkg/util"
)

// TicketsHandler manages ticket intake, listing and triage endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create handles POST /api/tickets. A valid session stamps the reporter
// identity from the token; otherwise the submission is accepted anonymously.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Priority:      req.Priority,
		Location:      locationFromPayload(req.Location),
		Images:        req.Images,
		ReporterEmail: req.ReporterEmail,
	}
	if principal, ok := auth.PrincipalFromContext(c); ok {
		input.ReporterEmail = principal.Email
		if id, err := primitive.ObjectIDFromHex(principal.UserID); err == nil {
			input.ReporterID = &id
		}
	}

	ticket, err := h.service.CreateTicket(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"ticket": dto.NewTicketResponse(ticket)},
	})
}

// List handles GET /api/tickets. Admin sessions may request all tickets via
// ?admin=true; citizens get their own submissions; anonymous callers may
// filter by reporter_email.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, authenticated := auth.PrincipalFromContext(c)

	var (
		tickets []domain.Ticket
		err     error
	)
	switch {
	case c.Query("admin") == "true":
		if !authenticated {
			return apperrors.NewUnauthorized("admin session required")
		}
		if principal.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("admin privileges required")
		}
		page := parseIntQuery(c.Query("page"), 1)
		pageSize := parseIntQuery(c.Query("page_size"), 20)
		tickets, err = h.service.ListAll(c.Context(), page, pageSize)
	case authenticated:
		var reporterID *primitive.ObjectID
		if id, idErr := primitive.ObjectIDFromHex(principal.UserID); idErr == nil {
			reporterID = &id
		}
		tickets, err = h.service.ListForReporter(c.Context(), reporterID, principal.Email)
	default:
		tickets, err = h.service.ListForReporter(c.Context(), nil, c.Query("reporter_email"))
	}
	if err != nil {
		return err
	}

	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"tickets": items}})
}

// Update handles PUT /api/tickets for admin triage.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketID == "" || req.Status == "" {
		return apperrors.NewValidationError("ticket_id and status are required", nil)
	}

	ticket, err := h.service.UpdateStatus(c.Context(), req.TicketID, req.Status, req.Resolution)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"ticket": dto.NewTicketResponse(ticket)},
	})
}

func locationFromPayload(payload dto.LocationPayload) domain.Location {
	location := domain.Location{Address: payload.Address}
	if payload.Coordinates != nil {
		location.Coordinates = &domain.Coordinates{
			Latitude:  payload.Coordinates.Latitude,
			Longitude: payload.Coordinates.Longitude,
		}
	}
	return location
}

func parseIntQuery(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
