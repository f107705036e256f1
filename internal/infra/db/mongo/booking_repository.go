package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "homestay/internal/domain/booking"
	domainlistings "homestay/internal/domain/listings"
	"homestay/internal/domain/shared/daterange"
	"homestay/internal/domain/shared/storage"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("bookings")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, storage.Wrap("bookings.by_id", err)
	}
	return doc.toAggregate(), nil
}

// Create inserts the immutable booking record; bookings are never
// updated after commit.
func (r *BookingRepository) Create(ctx context.Context, b *domainbooking.Booking) error {
	if _, err := r.col.InsertOne(ctx, newBookingDocument(b)); err != nil {
		return storage.Wrap("bookings.create", err)
	}
	return nil
}

func (r *BookingRepository) ListByTenant(ctx context.Context, tenantID string, limit, page int) ([]*domainbooking.Booking, error) {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.col.Find(ctx, bson.M{"tenant_id": tenantID}, opts)
	if err != nil {
		return nil, storage.Wrap("bookings.list", err)
	}
	defer cursor.Close(ctx)

	out := make([]*domainbooking.Booking, 0)
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, storage.Wrap("bookings.decode", err)
		}
		out = append(out, doc.toAggregate())
	}
	if err := cursor.Err(); err != nil {
		return nil, storage.Wrap("bookings.cursor", err)
	}
	return out, nil
}

type bookingDocument struct {
	ID        string `bson:"_id"`
	ListingID string `bson:"listing_id"`
	TenantID  string `bson:"tenant_id"`
	CheckIn   int64  `bson:"check_in"`
	CheckOut  int64  `bson:"check_out"`
	Total     int64  `bson:"total"`
	CreatedAt int64  `bson:"created_at"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:        string(b.ID),
		ListingID: string(b.ListingID),
		TenantID:  b.TenantID,
		CheckIn:   b.Range.CheckIn.UnixMilli(),
		CheckOut:  b.Range.CheckOut.UnixMilli(),
		Total:     b.Total,
		CreatedAt: b.CreatedAt.UnixMilli(),
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:        domainbooking.BookingID(d.ID),
		ListingID: domainlistings.ListingID(d.ListingID),
		TenantID:  d.TenantID,
		Range: daterange.Range{
			CheckIn:  time.UnixMilli(d.CheckIn).UTC(),
			CheckOut: time.UnixMilli(d.CheckOut).UTC(),
		},
		Total:     d.Total,
		CreatedAt: time.UnixMilli(d.CreatedAt).UTC(),
	}
}
