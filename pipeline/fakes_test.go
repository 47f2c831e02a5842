package pipeline

import (
	"io"
	"strings"

	"github.com/codingclub/content-service/internal/testsupport"
	models "github.com/codingclub/content-service/models"
)

var errBoom = testsupport.ErrBoom

func attachment(name, caption string) Attachment {
	return Attachment{
		Filename: name,
		Caption:  caption,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("binary:" + name)), nil
		},
	}
}

type harness struct {
	rec          *testsupport.Recorder
	media        *testsupport.Media
	events       *testsupport.MemStore[models.Event]
	faqs         *testsupport.MemStore[models.FAQ]
	testimonials *testsupport.MemStore[models.Testimonial]
	achievements *testsupport.MemStore[models.Achievement]
	alerter      *testsupport.Alerter
	p            *Pipeline
}

func newHarness(concurrency int) *harness {
	rec := &testsupport.Recorder{}
	h := &harness{
		rec:          rec,
		media:        testsupport.NewMedia(rec),
		events:       testsupport.NewMemStore[models.Event](rec, "events"),
		faqs:         testsupport.NewMemStore[models.FAQ](rec, "faqs"),
		testimonials: testsupport.NewMemStore[models.Testimonial](rec, "testimonials"),
		achievements: testsupport.NewMemStore[models.Achievement](rec, "achievements"),
		alerter:      &testsupport.Alerter{},
	}
	h.p = New(Stores{
		Events:       h.events,
		FAQs:         h.faqs,
		Testimonials: h.testimonials,
		Achievements: h.achievements,
	}, h.media, Options{UploadConcurrency: concurrency, Alerter: h.alerter})
	return h
}

func ptr[T any](v T) *T { return &v }
