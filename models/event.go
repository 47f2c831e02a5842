package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	EventCategoryWorkshop    = "workshop"
	EventCategoryHackathon   = "hackathon"
	EventCategorySeminar     = "seminar"
	EventCategoryCompetition = "competition"
	EventCategoryOther       = "other"

	EventStatusUpcoming  = "upcoming"
	EventStatusOngoing   = "ongoing"
	EventStatusCompleted = "completed"
	EventStatusCancelled = "cancelled"
)

type Event struct {
	Base                `bson:",inline"`
	Title               string               `bson:"title" json:"title" validate:"required,max=200"`
	Date                time.Time            `bson:"date" json:"date"`
	Description         string               `bson:"description" json:"description" validate:"required"`
	Content             string               `bson:"content,omitempty" json:"content,omitempty"`
	Images              []Image              `bson:"images" json:"images" validate:"dive"`
	Category            string               `bson:"category" json:"category" validate:"oneof=workshop hackathon seminar competition other"`
	Status              string               `bson:"status" json:"status" validate:"oneof=upcoming ongoing completed cancelled"`
	Location            string               `bson:"location,omitempty" json:"location,omitempty"`
	RegistrationLink    string               `bson:"registrationLink,omitempty" json:"registrationLink,omitempty"`
	MaxParticipants     *int                 `bson:"maxParticipants,omitempty" json:"maxParticipants,omitempty" validate:"omitempty,min=1"`
	CurrentParticipants int                  `bson:"currentParticipants" json:"currentParticipants" validate:"min=0"`
	Tags                []string             `bson:"tags" json:"tags"`
	Organizers          []primitive.ObjectID `bson:"organizers" json:"organizers"`
}

// IsUpcoming reports whether the event is scheduled after now and still
// marked upcoming.
func (e Event) IsUpcoming(now time.Time) bool {
	return e.Date.After(now) && e.Status == EventStatusUpcoming
}

func (e Event) IsPast(now time.Time) bool {
	return e.Date.Before(now) || e.Status == EventStatusCompleted
}

func (e Event) MarshalJSON() ([]byte, error) {
	type event Event
	now := time.Now()
	return json.Marshal(struct {
		event
		IsUpcoming bool `json:"isUpcoming"`
		IsPast     bool `json:"isPast"`
	}{event(e), e.IsUpcoming(now), e.IsPast(now)})
}

type EventFilter struct {
	Category string
	Status   string
	Upcoming bool
	Search   string
}
