package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zaikaclub/zaika/internal/booking"
)

type BookingRepo struct {
	collection *mongo.Collection
}

func NewBookingRepo(db *mongo.Database) *BookingRepo {
	return &BookingRepo{
		collection: db.Collection("bookings"),
	}
}

func (r *BookingRepo) Create(ctx context.Context, b *booking.Booking) error {
	if b == nil {
		return fmt.Errorf("booking is nil")
	}

	err := withRetry(ctx, func(ctx context.Context) error {
		_, err := r.collection.InsertOne(ctx, b)
		return err
	})
	if err != nil {
		return fmt.Errorf("cannot create booking: %w", err)
	}

	return nil
}

func (r *BookingRepo) Get(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var b booking.Booking
	err := withRetry(ctx, func(ctx context.Context) error {
		return r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&b)
	})
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get booking: %w", err)
	}
	return &b, nil
}

func (r *BookingRepo) Save(ctx context.Context, b *booking.Booking) error {
	if b == nil {
		return fmt.Errorf("booking is nil")
	}

	filter := bson.M{"_id": b.ID.String()}
	update := bson.M{"$set": b}

	var matched int64
	err := withRetry(ctx, func(ctx context.Context) error {
		result, err := r.collection.UpdateOne(ctx, filter, update)
		if err != nil {
			return err
		}
		matched = result.MatchedCount
		return nil
	})
	if err != nil {
		return fmt.Errorf("cannot update booking: %w", err)
	}
	if matched == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}

func (r *BookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	var deleted int64
	err := withRetry(ctx, func(ctx context.Context) error {
		result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.String()})
		if err != nil {
			return err
		}
		deleted = result.DeletedCount
		return nil
	})
	if err != nil {
		return fmt.Errorf("cannot delete booking: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}

func (r *BookingRepo) List(ctx context.Context, filter booking.Filter) ([]*booking.Booking, error) {
	query := bson.M{}

	if filter.Status != "" {
		query["status"] = filter.Status
	}

	dateRange := bson.M{}
	if !filter.DateFrom.IsZero() {
		dateRange["$gte"] = filter.DateFrom
	}
	if !filter.DateTo.IsZero() {
		dateRange["$lt"] = filter.DateTo.Add(24 * time.Hour)
	}
	if len(dateRange) > 0 {
		query["event_date"] = dateRange
	}

	if filter.Query != "" {
		regex := bson.M{"$regex": filter.Query, "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"client_name": regex},
			bson.M{"contact_email": regex},
			bson.M{"contact_phone": regex},
			bson.M{"event_type": regex},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "event_date", Value: 1}})
	return r.find(ctx, query, opts)
}

func (r *BookingRepo) ListByDate(ctx context.Context, day time.Time) ([]*booking.Booking, error) {
	startOfDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	query := bson.M{
		"event_date": bson.M{
			"$gte": startOfDay,
			"$lt":  endOfDay,
		},
	}

	return r.find(ctx, query, nil)
}

// ListUpcoming returns bookings on or after from. A positive days value
// bounds the window; days <= 0 means every future date.
func (r *BookingRepo) ListUpcoming(ctx context.Context, from time.Time, days int) ([]*booking.Booking, error) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())

	window := bson.M{"$gte": start}
	if days > 0 {
		window["$lt"] = start.AddDate(0, 0, days)
	}
	query := bson.M{"event_date": window}

	opts := options.Find().SetSort(bson.D{{Key: "event_date", Value: 1}})
	return r.find(ctx, query, opts)
}

func (r *BookingRepo) ExistsWithFoodItem(ctx context.Context, foodItemID uuid.UUID) (bool, error) {
	query := bson.M{"items.food_item_id": foodItemID.String()}

	var count int64
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		count, err = r.collection.CountDocuments(ctx, query, options.Count().SetLimit(1))
		return err
	})
	if err != nil {
		return false, fmt.Errorf("cannot count bookings by food item: %w", err)
	}

	return count > 0, nil
}

func (r *BookingRepo) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]*booking.Booking, error) {
	var result []*booking.Booking
	err := withRetry(ctx, func(ctx context.Context) error {
		var cursor *mongo.Cursor
		var err error
		if opts != nil {
			cursor, err = r.collection.Find(ctx, query, opts)
		} else {
			cursor, err = r.collection.Find(ctx, query)
		}
		if err != nil {
			return err
		}
		defer cursor.Close(ctx)

		result = nil
		return cursor.All(ctx, &result)
	})
	if err != nil {
		return nil, fmt.Errorf("cannot list bookings: %w", err)
	}

	return result, nil
}
