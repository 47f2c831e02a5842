package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AchievementCategoryCompetition = "competition"
	AchievementCategoryProject     = "project"
	AchievementCategoryRecognition = "recognition"
	AchievementCategoryMilestone   = "milestone"
)

type Participant struct {
	Name   string              `bson:"name" json:"name" validate:"required"`
	Role   string              `bson:"role" json:"role" validate:"required"`
	UserID *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
}

type Achievement struct {
	Base          `bson:",inline"`
	Title         string        `bson:"title" json:"title" validate:"required,max=200"`
	Description   string        `bson:"description" json:"description" validate:"required"`
	Date          time.Time     `bson:"date" json:"date"`
	Category      string        `bson:"category" json:"category" validate:"required,oneof=competition project recognition milestone"`
	Images        []Image       `bson:"images" json:"images" validate:"dive"`
	Participants  []Participant `bson:"participants" json:"participants" validate:"dive"`
	IsHighlighted bool          `bson:"isHighlighted" json:"isHighlighted"`
}

type AchievementFilter struct {
	Category    string
	Highlighted bool
	Search      string
}
