package pipeline

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/codingclub/content-service/models"
	repository "github.com/codingclub/content-service/repository"
)

type AchievementFields struct {
	Title         *string
	Description   *string
	Date          *time.Time
	Category      *string
	Participants  []models.Participant
	IsHighlighted *bool
}

func (f AchievementFields) apply(a *models.Achievement, set bson.M) {
	if f.Title != nil {
		a.Title = strings.TrimSpace(*f.Title)
		set["title"] = a.Title
	}
	if f.Description != nil {
		a.Description = *f.Description
		set["description"] = a.Description
	}
	if f.Date != nil {
		a.Date = *f.Date
		set["date"] = a.Date
	}
	if f.Category != nil {
		a.Category = *f.Category
		set["category"] = a.Category
	}
	if f.Participants != nil {
		a.Participants = f.Participants
		set["participants"] = a.Participants
	}
	if f.IsHighlighted != nil {
		a.IsHighlighted = *f.IsHighlighted
		set["isHighlighted"] = a.IsHighlighted
	}
}

func (p *Pipeline) ListAchievements(ctx context.Context, f models.AchievementFilter, page models.PageRequest) (ListResult[models.Achievement], error) {
	return list(ctx, p.achievements, repository.AchievementQuery(f, page))
}

func (p *Pipeline) GetAchievement(ctx context.Context, id primitive.ObjectID) (*models.Achievement, error) {
	return get(ctx, p.achievements, id, "Achievement not found")
}

func (p *Pipeline) CreateAchievement(ctx context.Context, owner primitive.ObjectID, fields AchievementFields, files []Attachment) (*models.Achievement, error) {
	achievement := &models.Achievement{
		Images:       []models.Image{},
		Participants: []models.Participant{},
	}
	achievement.CreatedBy = owner
	fields.apply(achievement, bson.M{})
	if err := models.Validate(achievement); err != nil {
		return nil, err
	}

	images, err := p.stage(ctx, AchievementsFolder, files)
	if err != nil {
		return nil, err
	}
	achievement.Images = images

	if err := p.achievements.Create(ctx, achievement); err != nil {
		p.discard(ctx, images)
		return nil, err
	}
	return achievement, nil
}

func (p *Pipeline) UpdateAchievement(ctx context.Context, id primitive.ObjectID, fields AchievementFields, files []Attachment) (*models.Achievement, error) {
	achievement, err := p.GetAchievement(ctx, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	fields.apply(achievement, set)
	if err := models.Validate(achievement); err != nil {
		return nil, err
	}

	images, err := p.stage(ctx, AchievementsFolder, files)
	if err != nil {
		return nil, err
	}
	if len(images) > 0 {
		achievement.Images = append(achievement.Images, images...)
		set["images"] = achievement.Images
	}
	if len(set) == 0 {
		return achievement, nil
	}

	updated, err := p.achievements.Update(ctx, id, set)
	if err != nil {
		p.discard(ctx, images)
		return nil, storeErr(err, "Achievement not found")
	}
	return updated, nil
}

func (p *Pipeline) DeleteAchievement(ctx context.Context, id primitive.ObjectID) error {
	achievement, err := p.GetAchievement(ctx, id)
	if err != nil {
		return err
	}
	if err := p.deleteImages(ctx, achievement.Images); err != nil {
		return err
	}
	if _, err := p.achievements.Delete(ctx, id); err != nil {
		return storeErr(err, "Achievement not found")
	}
	p.log(ctx).Info("achievement deleted", "achievement_id", id.Hex(), "images", len(achievement.Images))
	return nil
}
