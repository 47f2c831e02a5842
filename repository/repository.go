package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	models "github.com/codingclub/content-service/models"
)

// ErrNotFound is returned when no document matches the requested id.
var ErrNotFound = errors.New("document not found")

const (
	EventsCollection       = "events"
	FAQsCollection         = "faqs"
	TestimonialsCollection = "testimonials"
	AchievementsCollection = "achievements"
)

const opTimeout = 10 * time.Second

type stamper interface {
	Stamp(now time.Time)
}

// Query describes one page of a filtered, sorted listing.
type Query struct {
	Filter bson.M
	Sort   bson.D
	Page   models.PageRequest
}

// Collection is a typed view over one MongoDB collection.
type Collection[T any] struct {
	col *mongo.Collection
	now func() time.Time
}

func NewCollection[T any](db *mongo.Database, name string) *Collection[T] {
	return &Collection[T]{col: db.Collection(name), now: time.Now}
}

// Create stamps the document's id and timestamps and inserts it.
func (r *Collection[T]) Create(ctx context.Context, doc *T) error {
	if s, ok := any(doc).(stamper); ok {
		s.Stamp(r.now())
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert into %s: %w", r.col.Name(), err)
	}
	return nil
}

// List returns one page of documents matching q and the total match count.
func (r *Collection[T]) List(ctx context.Context, q Query) ([]T, int64, error) {
	filter := q.Filter
	if filter == nil {
		filter = bson.M{}
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(q.Sort).
		SetSkip(q.Page.Skip()).
		SetLimit(int64(q.Page.Limit))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find in %s: %w", r.col.Name(), err)
	}

	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", r.col.Name(), err)
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.col.Name(), err)
	}
	return items, total, nil
}

func (r *Collection[T]) GetByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc T
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, r.wrap("find", err)
	}
	return &doc, nil
}

// Update $sets the given fields, stamps updatedAt and returns the document
// as stored afterwards.
func (r *Collection[T]) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*T, error) {
	fields := bson.M{}
	for k, v := range set {
		fields[k] = v
	}
	fields["updatedAt"] = r.now()

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc T
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&doc); err != nil {
		return nil, r.wrap("update", err)
	}
	return &doc, nil
}

// Delete removes the document and returns it as it was before deletion.
func (r *Collection[T]) Delete(ctx context.Context, id primitive.ObjectID) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc T
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, r.wrap("delete", err)
	}
	return &doc, nil
}

func (r *Collection[T]) wrap(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return fmt.Errorf("%s in %s: %w", op, r.col.Name(), err)
}

// Stores groups the four content collections.
type Stores struct {
	Events       *Collection[models.Event]
	FAQs         *Collection[models.FAQ]
	Testimonials *Collection[models.Testimonial]
	Achievements *Collection[models.Achievement]
}

func NewStores(db *mongo.Database) *Stores {
	return &Stores{
		Events:       NewCollection[models.Event](db, EventsCollection),
		FAQs:         NewCollection[models.FAQ](db, FAQsCollection),
		Testimonials: NewCollection[models.Testimonial](db, TestimonialsCollection),
		Achievements: NewCollection[models.Achievement](db, AchievementsCollection),
	}
}
