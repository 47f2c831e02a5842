package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Base carries the fields every content document shares. The repository
// owns ID and the timestamps; CreatedBy is fixed at creation.
type Base struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Stamp assigns an id and timestamps to a document about to be inserted.
func (b *Base) Stamp(now time.Time) {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// Image is a reference to an asset held by the media store. PublicID is the
// key the store needs to delete it.
type Image struct {
	URL      string `bson:"url" json:"url" validate:"required"`
	PublicID string `bson:"publicId" json:"publicId"`
	Caption  string `bson:"caption,omitempty" json:"caption,omitempty"`
}

func PublicIDs(images []Image) []string {
	ids := make([]string, 0, len(images))
	for _, img := range images {
		ids = append(ids, img.PublicID)
	}
	return ids
}
