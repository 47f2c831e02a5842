// Package pipeline turns create, update and delete requests for content
// entities into media-store and repository calls, keeping stored image
// references and media assets consistent when a step fails part way.
package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/codingclub/content-service/models"
	repository "github.com/codingclub/content-service/repository"
	utils "github.com/codingclub/content-service/utils"
)

const (
	EventsFolder       = "events"
	AchievementsFolder = "achievements"
	TestimonialsFolder = "testimonials"
)

// MediaStore is the binary asset host.
type MediaStore interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader) (models.Image, error)
	Delete(ctx context.Context, publicID string) error
}

// Alerter notifies operators about assets that could not be cleaned up.
type Alerter interface {
	Alert(ctx context.Context, subject, body string) error
}

type Store[T any] interface {
	Create(ctx context.Context, doc *T) error
	List(ctx context.Context, q repository.Query) ([]T, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*T, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*T, error)
}

type Stores struct {
	Events       Store[models.Event]
	FAQs         Store[models.FAQ]
	Testimonials Store[models.Testimonial]
	Achievements Store[models.Achievement]
}

// Attachment is one uploaded file of a request.
type Attachment struct {
	Filename string
	Caption  string
	Open     func() (io.ReadCloser, error)
}

type Options struct {
	UploadConcurrency int
	Logger            *slog.Logger
	Alerter           Alerter
}

type Pipeline struct {
	events       Store[models.Event]
	faqs         Store[models.FAQ]
	testimonials Store[models.Testimonial]
	achievements Store[models.Achievement]

	media       MediaStore
	alerter     Alerter
	logger      *slog.Logger
	concurrency int
	now         func() time.Time
}

func New(stores Stores, media MediaStore, opts Options) *Pipeline {
	concurrency := opts.UploadConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		events:       stores.Events,
		faqs:         stores.FAQs,
		testimonials: stores.Testimonials,
		achievements: stores.Achievements,
		media:        media,
		alerter:      opts.Alerter,
		logger:       utils.WithComponent(logger, "pipeline"),
		concurrency:  concurrency,
		now:          time.Now,
	}
}

// ListResult is one page of a listing.
type ListResult[T any] struct {
	Items      []T
	Pagination models.Pagination
}

func list[T any](ctx context.Context, store Store[T], q repository.Query) (ListResult[T], error) {
	items, total, err := store.List(ctx, q)
	if err != nil {
		return ListResult[T]{}, err
	}
	if items == nil {
		items = []T{}
	}
	return ListResult[T]{Items: items, Pagination: models.NewPagination(q.Page, total)}, nil
}

func get[T any](ctx context.Context, store Store[T], id primitive.ObjectID, notFound string) (*T, error) {
	doc, err := store.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, notFound)
	}
	return doc, nil
}

func storeErr(err error, notFound string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NotFound(notFound)
	}
	return err
}

func (p *Pipeline) log(ctx context.Context) *slog.Logger {
	return utils.LoggerFromContext(ctx, p.logger)
}
