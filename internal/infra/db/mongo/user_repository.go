package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"homestay/internal/domain/shared/storage"
	"homestay/internal/domain/users"
)

// UserRepository persists users. Income and the back-reference lists are
// mutated with single-field atomic operators ($inc, $push), never via
// read-modify-write, so concurrent commits cannot clobber each other's
// increments.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection("users")}
}

func (r *UserRepository) ByID(ctx context.Context, id string) (*users.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, users.ErrNotFound
		}
		return nil, storage.Wrap("users.by_id", err)
	}
	return doc.toAggregate(), nil
}

func (r *UserRepository) Save(ctx context.Context, u *users.User) error {
	doc := newUserDocument(u)
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return storage.Wrap("users.save", err)
}

func (r *UserRepository) AddIncome(ctx context.Context, id string, amount int64) error {
	return r.apply(ctx, "users.add_income", id, bson.M{"$inc": bson.M{"income": amount}})
}

func (r *UserRepository) LinkBooking(ctx context.Context, id string, bookingID string) error {
	return r.apply(ctx, "users.link_booking", id, bson.M{"$push": bson.M{"booking_ids": bookingID}})
}

func (r *UserRepository) LinkListing(ctx context.Context, id string, listingID string) error {
	return r.apply(ctx, "users.link_listing", id, bson.M{"$push": bson.M{"listing_ids": listingID}})
}

func (r *UserRepository) SetWallet(ctx context.Context, id string, walletID string) error {
	update := bson.M{"$set": bson.M{"wallet_id": walletID}}
	if walletID == "" {
		update = bson.M{"$unset": bson.M{"wallet_id": ""}}
	}
	return r.apply(ctx, "users.set_wallet", id, update)
}

func (r *UserRepository) apply(ctx context.Context, op, id string, update bson.M) error {
	res, err := r.col.UpdateByID(ctx, id, update)
	if err != nil {
		return storage.Wrap(op, err)
	}
	if res.MatchedCount == 0 {
		return users.ErrNotFound
	}
	return nil
}

type userDocument struct {
	ID         string   `bson:"_id"`
	Name       string   `bson:"name"`
	Avatar     string   `bson:"avatar"`
	Contact    string   `bson:"contact"`
	WalletID   string   `bson:"wallet_id,omitempty"`
	Income     int64    `bson:"income"`
	BookingIDs []string `bson:"booking_ids"`
	ListingIDs []string `bson:"listing_ids"`
	CreatedAt  int64    `bson:"created_at"`
}

func newUserDocument(u *users.User) userDocument {
	return userDocument{
		ID:         u.ID,
		Name:       u.Name,
		Avatar:     u.Avatar,
		Contact:    u.Contact,
		WalletID:   u.WalletID,
		Income:     u.Income,
		BookingIDs: u.BookingIDs,
		ListingIDs: u.ListingIDs,
		CreatedAt:  u.CreatedAt.UnixMilli(),
	}
}

func (d userDocument) toAggregate() *users.User {
	return &users.User{
		ID:         d.ID,
		Name:       d.Name,
		Avatar:     d.Avatar,
		Contact:    d.Contact,
		WalletID:   d.WalletID,
		Income:     d.Income,
		BookingIDs: d.BookingIDs,
		ListingIDs: d.ListingIDs,
		CreatedAt:  time.UnixMilli(d.CreatedAt).UTC(),
	}
}
