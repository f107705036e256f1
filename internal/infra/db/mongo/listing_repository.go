package mongo

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlistings "homestay/internal/domain/listings"
	domainreviews "homestay/internal/domain/reviews"
	"homestay/internal/domain/shared/daterange"
	"homestay/internal/domain/shared/storage"
)

// ListingRepository persists listings with their embedded calendar and
// reviews. Save is a conditional write on the stored version, so a commit
// racing from another process surfaces ErrConcurrentUpdate instead of
// silently losing calendar days.
type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("listings")}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainlistings.ErrNotFound
		}
		return nil, storage.Wrap("listings.by_id", err)
	}
	return doc.toAggregate()
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	doc := newListingDocument(listing)
	filter := bson.M{"_id": doc.ID, "version": listing.Version}
	doc.Version = listing.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainlistings.ErrConcurrentUpdate
		}
		return storage.Wrap("listings.save", err)
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return domainlistings.ErrConcurrentUpdate
	}
	listing.Version = doc.Version
	return nil
}

func (r *ListingRepository) Search(ctx context.Context, params domainlistings.SearchParams) (domainlistings.SearchResult, error) {
	opts := params.Normalized()
	filter := bson.M{}
	if opts.Country != "" {
		filter["address.country"] = opts.Country
	}
	if opts.Admin != "" {
		filter["address.admin"] = opts.Admin
	}
	if opts.City != "" {
		filter["address.city"] = opts.City
	}
	if opts.HostID != "" {
		filter["host_id"] = opts.HostID
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return domainlistings.SearchResult{}, storage.Wrap("listings.count", err)
	}

	findOpts := options.Find().
		SetSkip(int64(opts.Offset())).
		SetLimit(int64(opts.Limit))
	switch opts.Sort {
	case domainlistings.SortPriceLowHigh:
		findOpts.SetSort(bson.D{{Key: "price", Value: 1}})
	case domainlistings.SortPriceHighLow:
		findOpts.SetSort(bson.D{{Key: "price", Value: -1}})
	default:
		findOpts.SetSort(bson.D{{Key: "created_at", Value: -1}})
	}

	cursor, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return domainlistings.SearchResult{}, storage.Wrap("listings.search", err)
	}
	defer cursor.Close(ctx)

	result := make([]*domainlistings.Listing, 0)
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			return domainlistings.SearchResult{}, storage.Wrap("listings.decode", err)
		}
		agg, err := doc.toAggregate()
		if err != nil {
			return domainlistings.SearchResult{}, err
		}
		result = append(result, agg)
	}
	if err := cursor.Err(); err != nil {
		return domainlistings.SearchResult{}, storage.Wrap("listings.cursor", err)
	}
	return domainlistings.SearchResult{Total: int(total), Result: result}, nil
}

type listingDocument struct {
	ID          string           `bson:"_id"`
	Title       string           `bson:"title"`
	Description string           `bson:"description"`
	Image       string           `bson:"image"`
	HostID      string           `bson:"host_id"`
	Type        string           `bson:"type"`
	Address     addressDocument  `bson:"address"`
	Price       int64            `bson:"price"`
	NumOfGuests int              `bson:"num_of_guests"`
	BookingIDs  []string         `bson:"booking_ids"`
	Calendar    map[string]bool  `bson:"calendar"`
	Reviews     []reviewDocument `bson:"reviews"`
	NumReviews  int              `bson:"num_reviews"`
	Rating      float64          `bson:"rating"`
	CreatedAt   int64            `bson:"created_at"`
	Version     int64            `bson:"version"`
}

type addressDocument struct {
	Text    string `bson:"text"`
	Country string `bson:"country"`
	Admin   string `bson:"admin"`
	City    string `bson:"city"`
}

type reviewDocument struct {
	ID        string `bson:"_id"`
	AuthorID  string `bson:"author_id"`
	Rating    int    `bson:"rating"`
	Comment   string `bson:"comment,omitempty"`
	CreatedAt int64  `bson:"created_at"`
}

func newListingDocument(l *domainlistings.Listing) listingDocument {
	calendar := make(map[string]bool, len(l.Calendar))
	for day := range l.Calendar {
		calendar[strconv.Itoa(int(day))] = true
	}
	reviews := make([]reviewDocument, 0, len(l.Reviews))
	for _, rv := range l.Reviews {
		reviews = append(reviews, reviewDocument{
			ID:        string(rv.ID),
			AuthorID:  rv.AuthorID,
			Rating:    rv.Rating,
			Comment:   rv.Comment,
			CreatedAt: rv.CreatedAt.UnixMilli(),
		})
	}
	return listingDocument{
		ID:          string(l.ID),
		Title:       l.Title,
		Description: l.Description,
		Image:       l.Image,
		HostID:      l.HostID,
		Type:        string(l.Type),
		Address: addressDocument{
			Text:    l.Address.Text,
			Country: l.Address.Country,
			Admin:   l.Address.Admin,
			City:    l.Address.City,
		},
		Price:       l.Price,
		NumOfGuests: l.NumOfGuests,
		BookingIDs:  l.BookingIDs,
		Calendar:    calendar,
		Reviews:     reviews,
		NumReviews:  l.NumReviews,
		Rating:      l.Rating,
		CreatedAt:   l.CreatedAt.UnixMilli(),
		Version:     l.Version,
	}
}

func (d listingDocument) toAggregate() (*domainlistings.Listing, error) {
	calendar := make(domainlistings.CalendarIndex, len(d.Calendar))
	for key, booked := range d.Calendar {
		if !booked {
			continue
		}
		day, err := strconv.Atoi(key)
		if err != nil {
			return nil, storage.Wrap("listings.calendar_key", err)
		}
		calendar[daterange.DayNumber(day)] = true
	}
	reviews := make(domainreviews.List, 0, len(d.Reviews))
	for _, rv := range d.Reviews {
		reviews = append(reviews, domainreviews.Review{
			ID:        domainreviews.ReviewID(rv.ID),
			AuthorID:  rv.AuthorID,
			Rating:    rv.Rating,
			Comment:   rv.Comment,
			CreatedAt: time.UnixMilli(rv.CreatedAt).UTC(),
		})
	}
	return &domainlistings.Listing{
		ID:          domainlistings.ListingID(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Image:       d.Image,
		HostID:      d.HostID,
		Type:        domainlistings.ListingType(d.Type),
		Address: domainlistings.Address{
			Text:    d.Address.Text,
			Country: d.Address.Country,
			Admin:   d.Address.Admin,
			City:    d.Address.City,
		},
		Price:       d.Price,
		NumOfGuests: d.NumOfGuests,
		BookingIDs:  d.BookingIDs,
		Calendar:    calendar,
		Reviews:     reviews,
		NumReviews:  d.NumReviews,
		Rating:      d.Rating,
		CreatedAt:   time.UnixMilli(d.CreatedAt).UTC(),
		Version:     d.Version,
	}, nil
}
