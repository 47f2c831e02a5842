package models

import (
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("error = %v, want validation errors", err)
	}
	out := map[string]string{}
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

func validEvent() *Event {
	return &Event{
		Title:       "Go Workshop",
		Date:        time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		Description: "hands-on",
		Category:    EventCategoryWorkshop,
		Status:      EventStatusUpcoming,
	}
}

func TestValidateEvent(t *testing.T) {
	if err := Validate(validEvent()); err != nil {
		t.Fatalf("valid event: %v", err)
	}

	e := validEvent()
	e.Title = ""
	e.Date = time.Time{}
	e.Category = "party"
	got := fieldErrors(t, Validate(e))
	if got["title"] != "required" || got["date"] != "required" || got["category"] != "oneof" {
		t.Fatalf("errors = %v", got)
	}

	e = validEvent()
	limit := 10
	e.MaxParticipants = &limit
	e.CurrentParticipants = 10
	if err := Validate(e); err != nil {
		t.Fatalf("at capacity should be valid: %v", err)
	}
	e.CurrentParticipants = 11
	if got := fieldErrors(t, Validate(e)); got["currentParticipants"] != "ltefield" {
		t.Fatalf("errors = %v", got)
	}

	zero := 0
	e = validEvent()
	e.MaxParticipants = &zero
	if got := fieldErrors(t, Validate(e)); got["maxParticipants"] != "min" {
		t.Fatalf("errors = %v", got)
	}

	e = validEvent()
	e.Images = []Image{{PublicID: "events/a"}}
	if got := fieldErrors(t, Validate(e)); got["url"] != "required" {
		t.Fatalf("image without url: %v", got)
	}
}

func TestValidateAchievementAndTestimonial(t *testing.T) {
	a := &Achievement{
		Title: "ICPC", Description: "2nd", Date: time.Now(), Category: AchievementCategoryCompetition,
		Participants: []Participant{{Name: "Ada"}},
	}
	if got := fieldErrors(t, Validate(a)); got["role"] != "required" {
		t.Fatalf("errors = %v", got)
	}

	tm := &Testimonial{Name: "G", Role: "r", Content: "c", Rating: 0}
	if got := fieldErrors(t, Validate(tm)); got["rating"] != "min" {
		t.Fatalf("errors = %v", got)
	}
	tm.Rating = DefaultRating
	if err := Validate(tm); err != nil {
		t.Fatalf("valid testimonial: %v", err)
	}
}

func TestPagination(t *testing.T) {
	p := NewPageRequest(0, 0)
	if p.Page != DefaultPage || p.Limit != DefaultLimit || p.Skip() != 0 {
		t.Fatalf("defaults = %+v", p)
	}
	if got := NewPageRequest(3, 500); got.Limit != 500 || got.Skip() != 1000 {
		t.Fatalf("large limit = %+v skip %d", got, got.Skip())
	}
	if got := NewPagination(NewPageRequest(1, 200), 250); got != (Pagination{Page: 1, Limit: 200, Total: 250, Pages: 2}) {
		t.Fatalf("large limit pagination = %+v", got)
	}
	if got := NewPagination(NewPageRequest(2, 5), 12); got.Pages != 3 {
		t.Fatalf("pages = %d", got.Pages)
	}
	if got := NewPagination(NewPageRequest(1, 10), 0); got.Pages != 0 {
		t.Fatalf("empty pages = %d", got.Pages)
	}
}

func TestEventVirtuals(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	e := validEvent()
	e.Date = now.Add(24 * time.Hour)
	if !e.IsUpcoming(now) || e.IsPast(now) {
		t.Fatal("future upcoming event misclassified")
	}
	e.Status = EventStatusCompleted
	if e.IsUpcoming(now) || !e.IsPast(now) {
		t.Fatal("completed event misclassified")
	}
}
