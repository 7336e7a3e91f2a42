package dto

import (
	"time"

	"github.com/awaaz-labs/civic-portal/internal/domain"
)

// CoordinatesPayload is an optional geo point.
type CoordinatesPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationPayload describes where the reported issue is.
type LocationPayload struct {
	Address     string              `json:"address"`
	Coordinates *CoordinatesPayload `json:"coordinates,omitempty"`
}

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Category      domain.TicketCategory `json:"category"`
	Priority      domain.TicketPriority `json:"priority"`
	Location      LocationPayload       `json:"location"`
	Images        []string              `json:"images"`
	ReporterEmail string                `json:"reporter_email"`
}

// UpdateTicketRequest payload for triage decisions. Resolution is a pointer
// so an omitted field leaves the stored resolution untouched.
type UpdateTicketRequest struct {
	TicketID   string              `json:"ticket_id"`
	Status     domain.TicketStatus `json:"status"`
	Resolution *string             `json:"resolution"`
}

// TicketResponse is the public view of a ticket.
type TicketResponse struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Category      domain.TicketCategory `json:"category"`
	Priority      domain.TicketPriority `json:"priority"`
	Status        domain.TicketStatus   `json:"status"`
	Resolution    string                `json:"resolution,omitempty"`
	Location      LocationPayload       `json:"location"`
	ReporterEmail string                `json:"reporter_email,omitempty"`
	Images        []string              `json:"images,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// NewTicketResponse maps a domain ticket to its public view.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	location := LocationPayload{Address: ticket.Location.Address}
	if ticket.Location.Coordinates != nil {
		location.Coordinates = &CoordinatesPayload{
			Latitude:  ticket.Location.Coordinates.Latitude,
			Longitude: ticket.Location.Coordinates.Longitude,
		}
	}
	return TicketResponse{
		ID:            ticket.ID.Hex(),
		Title:         ticket.Title,
		Description:   ticket.Description,
		Category:      ticket.Category,
		Priority:      ticket.Priority,
		Status:        ticket.Status,
		Resolution:    ticket.Resolution,
		Location:      location,
		ReporterEmail: ticket.ReporterEmail,
		Images:        ticket.Images,
		CreatedAt:     ticket.CreatedAt,
		UpdatedAt:     ticket.UpdatedAt,
	}
}
