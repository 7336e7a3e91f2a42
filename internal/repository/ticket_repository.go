package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/awaaz-labs/civic-portal/internal/domain"
)

// TicketFilter captures listing parameters. Nil fields are ignored.
type TicketFilter struct {
	ReporterID    *primitive.ObjectID
	ReporterEmail *string
	Statuses      []domain.TicketStatus
	Categories    []domain.TicketCategory
	Limit         int
	Offset        int
}

// StatusUpdate describes a triage mutation. A nil Resolution leaves the
// stored resolution untouched.
type StatusUpdate struct {
	Status     domain.TicketStatus
	Resolution *string
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, update StatusUpdate) (*domain.Ticket, error)
}

type ticketRepository struct {
	coll *mongo.Collection
}

// NewTicketRepository returns a MongoDB-backed implementation.
func NewTicketRepository(db *mongo.Database) TicketRepository {
	return &ticketRepository{coll: db.Collection("tickets")}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	now := time.Now().UTC()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, ticket)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		ticket.ID = id
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	query := bson.M{}
	if filter.ReporterID != nil && filter.ReporterEmail != nil {
		query["$or"] = bson.A{
			bson.M{"reporter_id": *filter.ReporterID},
			bson.M{"reporter_email": *filter.ReporterEmail},
		}
	} else if filter.ReporterID != nil {
		query["reporter_id"] = *filter.ReporterID
	} else if filter.ReporterEmail != nil {
		query["reporter_email"] = *filter.ReporterEmail
	}
	if len(filter.Statuses) > 0 {
		query["status"] = bson.M{"$in": filter.Statuses}
	}
	if len(filter.Categories) > 0 {
		query["category"] = bson.M{"$in": filter.Categories}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []domain.Ticket
	if err := cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, update StatusUpdate) (*domain.Ticket, error) {
	set := bson.M{
		"status":     update.Status,
		"updated_at": time.Now().UTC(),
	}
	if update.Resolution != nil {
		set["resolution"] = *update.Resolution
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ticket domain.Ticket
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&ticket)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}
