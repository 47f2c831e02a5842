package pipeline

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/codingclub/content-service/models"
	repository "github.com/codingclub/content-service/repository"
	utils "github.com/codingclub/content-service/utils"
)

// EventFields holds the event fields a request supplied. Nil means the field
// was not sent.
type EventFields struct {
	Title               *string
	Date                *time.Time
	Description         *string
	Content             *string
	Category            *string
	Status              *string
	Location            *string
	RegistrationLink    *string
	MaxParticipants     *int
	CurrentParticipants *int
	Tags                []string
	Organizers          []primitive.ObjectID
}

func (f EventFields) apply(e *models.Event, set bson.M) {
	if f.Title != nil {
		e.Title = strings.TrimSpace(*f.Title)
		set["title"] = e.Title
	}
	if f.Date != nil {
		e.Date = *f.Date
		set["date"] = e.Date
	}
	if f.Description != nil {
		e.Description = *f.Description
		set["description"] = e.Description
	}
	if f.Content != nil {
		e.Content = *f.Content
		set["content"] = e.Content
	}
	if f.Category != nil {
		e.Category = *f.Category
		set["category"] = e.Category
	}
	if f.Status != nil {
		e.Status = *f.Status
		set["status"] = e.Status
	}
	if f.Location != nil {
		e.Location = *f.Location
		set["location"] = e.Location
	}
	if f.RegistrationLink != nil {
		e.RegistrationLink = *f.RegistrationLink
		set["registrationLink"] = e.RegistrationLink
	}
	if f.MaxParticipants != nil {
		n := *f.MaxParticipants
		e.MaxParticipants = &n
		set["maxParticipants"] = n
	}
	if f.CurrentParticipants != nil {
		e.CurrentParticipants = *f.CurrentParticipants
		set["currentParticipants"] = e.CurrentParticipants
	}
	if f.Tags != nil {
		e.Tags = f.Tags
		set["tags"] = e.Tags
	}
	if f.Organizers != nil {
		e.Organizers = f.Organizers
		set["organizers"] = e.Organizers
	}
}

func (p *Pipeline) ListEvents(ctx context.Context, f models.EventFilter, page models.PageRequest) (ListResult[models.Event], error) {
	return list(ctx, p.events, repository.EventQuery(f, page, p.now()))
}

func (p *Pipeline) GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	return get(ctx, p.events, id, "Event not found")
}

func (p *Pipeline) CreateEvent(ctx context.Context, owner primitive.ObjectID, fields EventFields, files []Attachment) (*models.Event, error) {
	event := &models.Event{
		Category:   models.EventCategoryOther,
		Status:     models.EventStatusUpcoming,
		Tags:       []string{},
		Organizers: []primitive.ObjectID{},
		Images:     []models.Image{},
	}
	event.CreatedBy = owner
	fields.apply(event, bson.M{})
	if err := models.Validate(event); err != nil {
		return nil, err
	}

	images, err := p.stage(ctx, EventsFolder, files)
	if err != nil {
		return nil, err
	}
	event.Images = images

	if err := p.events.Create(ctx, event); err != nil {
		p.discard(ctx, images)
		return nil, err
	}
	return event, nil
}

// UpdateEvent merges fields into the stored event and appends any new
// images after the existing ones.
func (p *Pipeline) UpdateEvent(ctx context.Context, id primitive.ObjectID, fields EventFields, files []Attachment) (*models.Event, error) {
	event, err := p.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	fields.apply(event, set)
	if err := models.Validate(event); err != nil {
		return nil, err
	}

	images, err := p.stage(ctx, EventsFolder, files)
	if err != nil {
		return nil, err
	}
	if len(images) > 0 {
		event.Images = append(event.Images, images...)
		set["images"] = event.Images
	}
	if len(set) == 0 {
		return event, nil
	}

	updated, err := p.events.Update(ctx, id, set)
	if err != nil {
		p.discard(ctx, images)
		return nil, storeErr(err, "Event not found")
	}
	return updated, nil
}

// DeleteEvent removes every image of the event from the media store and only
// then deletes the document.
func (p *Pipeline) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	event, err := p.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if err := p.deleteImages(ctx, event.Images); err != nil {
		return err
	}
	if _, err := p.events.Delete(ctx, id); err != nil {
		return storeErr(err, "Event not found")
	}
	p.log(ctx).Info("event deleted", "event_id", id.Hex(), "images", len(event.Images))
	return nil
}

// RemoveEventImage deletes one image, addressed by its media key, from an
// event.
func (p *Pipeline) RemoveEventImage(ctx context.Context, id primitive.ObjectID, publicID string) (*models.Event, error) {
	event, err := p.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, img := range event.Images {
		if img.PublicID == publicID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, utils.NotFound("Image not found")
	}

	if err := p.deleteImages(ctx, event.Images[idx:idx+1]); err != nil {
		return nil, err
	}

	remaining := make([]models.Image, 0, len(event.Images)-1)
	remaining = append(remaining, event.Images[:idx]...)
	remaining = append(remaining, event.Images[idx+1:]...)

	updated, err := p.events.Update(ctx, id, bson.M{"images": remaining})
	if err != nil {
		return nil, storeErr(err, "Event not found")
	}
	return updated, nil
}
