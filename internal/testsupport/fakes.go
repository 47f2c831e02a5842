// Package testsupport holds in-memory stand-ins for the document store and
// the media host, shared by package tests.
package testsupport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/codingclub/content-service/models"
	repository "github.com/codingclub/content-service/repository"
)

// Recorder keeps the global order of side effects across fakes.
type Recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *Recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

// Snapshot returns the side effects recorded so far.
func (r *Recorder) Snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Count returns how many recorded calls start with prefix.
func (r *Recorder) Count(prefix string) int {
	n := 0
	for _, c := range r.Snapshot() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// MemStore is a document collection kept as BSON in memory. It records
// "<name>.create|update|delete:<hex id>".
type MemStore[T any] struct {
	mu    sync.Mutex
	rec   *Recorder
	name  string
	order []primitive.ObjectID
	docs  map[primitive.ObjectID]bson.Raw

	CreateErr error
	UpdateErr error
	// UpdateErrOnce clears UpdateErr after the first update it fails.
	UpdateErrOnce bool

	// LastQuery is the query of the most recent List call.
	LastQuery repository.Query
}

func NewMemStore[T any](rec *Recorder, name string) *MemStore[T] {
	return &MemStore[T]{rec: rec, name: name, docs: map[primitive.ObjectID]bson.Raw{}}
}

func (s *MemStore[T]) Create(_ context.Context, doc *T) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	if st, ok := any(doc).(interface{ Stamp(time.Time) }); ok {
		st.Stamp(time.Now())
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	id := bson.Raw(raw).Lookup("_id").ObjectID()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[id] = raw
	s.order = append(s.order, id)
	s.rec.add("%s.create:%s", s.name, id.Hex())
	return nil
}

// List ignores the filter and sort and pages over insertion order.
func (s *MemStore[T]) List(_ context.Context, q repository.Query) ([]T, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastQuery = q

	var all []T
	for _, id := range s.order {
		raw, ok := s.docs[id]
		if !ok {
			continue
		}
		var doc T
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, 0, err
		}
		all = append(all, doc)
	}

	start := int(q.Page.Skip())
	if start > len(all) {
		start = len(all)
	}
	end := start + q.Page.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (s *MemStore[T]) GetByID(_ context.Context, id primitive.ObjectID) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decode(id)
}

func (s *MemStore[T]) decode(id primitive.ObjectID) (*T, error) {
	raw, ok := s.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *MemStore[T]) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.UpdateErr; err != nil {
		if s.UpdateErrOnce {
			s.UpdateErr = nil
		}
		s.rec.add("%s.update-failed:%s", s.name, id.Hex())
		return nil, err
	}

	raw, ok := s.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	var merged bson.M
	if err := bson.Unmarshal(raw, &merged); err != nil {
		return nil, err
	}
	for k, v := range set {
		merged[k] = v
	}
	merged["updatedAt"] = time.Now()
	next, err := bson.Marshal(merged)
	if err != nil {
		return nil, err
	}
	s.docs[id] = next
	s.rec.add("%s.update:%s", s.name, id.Hex())
	return s.decode(id)
}

func (s *MemStore[T]) Delete(_ context.Context, id primitive.ObjectID) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.decode(id)
	if err != nil {
		return nil, err
	}
	delete(s.docs, id)
	s.rec.add("%s.delete:%s", s.name, id.Hex())
	return doc, nil
}

// Seed stores doc as-is without recording a call.
func (s *MemStore[T]) Seed(doc *T) primitive.ObjectID {
	if st, ok := any(doc).(interface{ Stamp(time.Time) }); ok {
		st.Stamp(time.Now())
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		panic(err)
	}
	id := bson.Raw(raw).Lookup("_id").ObjectID()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[id] = raw
	s.order = append(s.order, id)
	return id
}

// Media is a media host that derives public ids from folder and file name.
// It records "media.upload:<id>", "media.upload-failed:<file>",
// "media.delete:<id>" and "media.delete-failed:<id>". Set FailUpload,
// FailDelete and Delay before use.
type Media struct {
	mu         sync.Mutex
	rec        *Recorder
	live       map[string]bool
	FailUpload map[string]error
	FailDelete map[string]error
	Delay      map[string]time.Duration
}

func NewMedia(rec *Recorder) *Media {
	return &Media{
		rec:        rec,
		live:       map[string]bool{},
		FailUpload: map[string]error{},
		FailDelete: map[string]error{},
		Delay:      map[string]time.Duration{},
	}
}

func (m *Media) Upload(ctx context.Context, folder, filename string, r io.Reader) (models.Image, error) {
	if _, err := io.ReadAll(r); err != nil {
		return models.Image{}, err
	}
	m.mu.Lock()
	d := m.Delay[filename]
	failErr := m.FailUpload[filename]
	m.mu.Unlock()

	if d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return models.Image{}, ctx.Err()
		}
	}
	if failErr != nil {
		m.rec.add("media.upload-failed:%s", filename)
		return models.Image{}, failErr
	}

	id := folder + "/" + strings.TrimSuffix(filename, ".jpg")
	m.mu.Lock()
	m.live[id] = true
	m.mu.Unlock()
	m.rec.add("media.upload:%s", id)
	return models.Image{URL: "https://res.cloudinary.com/demo/image/upload/v1/" + id + ".jpg", PublicID: id}, nil
}

func (m *Media) Delete(_ context.Context, publicID string) error {
	m.mu.Lock()
	failErr := m.FailDelete[publicID]
	m.mu.Unlock()
	if failErr != nil {
		m.rec.add("media.delete-failed:%s", publicID)
		return failErr
	}
	m.mu.Lock()
	delete(m.live, publicID)
	m.mu.Unlock()
	m.rec.add("media.delete:%s", publicID)
	return nil
}

// LiveCount is the number of assets currently held.
func (m *Media) LiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// Put registers existing assets and returns references to them.
func (m *Media) Put(ids ...string) []models.Image {
	m.mu.Lock()
	defer m.mu.Unlock()
	images := make([]models.Image, 0, len(ids))
	for _, id := range ids {
		m.live[id] = true
		images = append(images, models.Image{URL: "https://res.cloudinary.com/demo/image/upload/v1/" + id + ".jpg", PublicID: id})
	}
	return images
}

// Alerter keeps the last alert it was sent.
type Alerter struct {
	mu      sync.Mutex
	subject string
	body    string
}

func (a *Alerter) Alert(_ context.Context, subject, body string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subject, a.body = subject, body
	return nil
}

func (a *Alerter) Last() (subject, body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.subject, a.body
}

// ErrBoom is a generic injected failure.
var ErrBoom = errors.New("boom")
