package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// Valid reports whether the status is part of the canonical set.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates triage urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// Valid reports whether the priority is one of the known values.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// TicketCategory classifies the civic issue.
type TicketCategory string

const (
	TicketCategoryInfrastructure TicketCategory = "infrastructure"
	TicketCategoryUtilities      TicketCategory = "utilities"
	TicketCategorySafety         TicketCategory = "safety"
	TicketCategoryEnvironment    TicketCategory = "environment"
	TicketCategoryTransport      TicketCategory = "transport"
	TicketCategoryOther          TicketCategory = "other"
)

// Valid reports whether the category is one of the known values.
func (c TicketCategory) Valid() bool {
	switch c {
	case TicketCategoryInfrastructure, TicketCategoryUtilities, TicketCategorySafety,
		TicketCategoryEnvironment, TicketCategoryTransport, TicketCategoryOther:
		return true
	}
	return false
}

// Coordinates is an optional geo point attached to a ticket location.
type Coordinates struct {
	Latitude  float64 `bson:"latitude"`
	Longitude float64 `bson:"longitude"`
}

// Location describes where the reported issue is.
type Location struct {
	Address     string       `bson:"address"`
	Coordinates *Coordinates `bson:"coordinates,omitempty"`
}

// Ticket is a citizen-submitted civic issue record.
type Ticket struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty"`
	Title         string              `bson:"title"`
	Description   string              `bson:"description"`
	Category      TicketCategory      `bson:"category"`
	Priority      TicketPriority      `bson:"priority"`
	Status        TicketStatus        `bson:"status"`
	Resolution    string              `bson:"resolution,omitempty"`
	Location      Location            `bson:"location"`
	ReporterID    *primitive.ObjectID `bson:"reporter_id,omitempty"`
	ReporterEmail string              `bson:"reporter_email,omitempty"`
	Images        []string            `bson:"images,omitempty"`
	CreatedAt     time.Time           `bson:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at"`
}
