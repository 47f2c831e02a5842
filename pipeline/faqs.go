package pipeline

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/codingclub/content-service/models"
	repository "github.com/codingclub/content-service/repository"
)

type FAQFields struct {
	Question *string
	Answer   *string
	Category *string
	Order    *int
	IsActive *bool
}

func (f FAQFields) apply(q *models.FAQ, set bson.M) {
	if f.Question != nil {
		q.Question = strings.TrimSpace(*f.Question)
		set["question"] = q.Question
	}
	if f.Answer != nil {
		q.Answer = *f.Answer
		set["answer"] = q.Answer
	}
	if f.Category != nil && *f.Category != "" {
		q.Category = *f.Category
		set["category"] = q.Category
	}
	if f.Order != nil {
		q.Order = *f.Order
		set["order"] = q.Order
	}
	if f.IsActive != nil {
		q.IsActive = *f.IsActive
		set["isActive"] = q.IsActive
	}
}

func (p *Pipeline) ListFAQs(ctx context.Context, f models.FAQFilter, page models.PageRequest) (ListResult[models.FAQ], error) {
	return list(ctx, p.faqs, repository.FAQQuery(f, page))
}

func (p *Pipeline) GetFAQ(ctx context.Context, id primitive.ObjectID) (*models.FAQ, error) {
	return get(ctx, p.faqs, id, "FAQ not found")
}

func (p *Pipeline) CreateFAQ(ctx context.Context, owner primitive.ObjectID, fields FAQFields) (*models.FAQ, error) {
	faq := &models.FAQ{Category: models.DefaultFAQCategory, IsActive: true}
	faq.CreatedBy = owner
	fields.apply(faq, bson.M{})
	if err := models.Validate(faq); err != nil {
		return nil, err
	}
	if err := p.faqs.Create(ctx, faq); err != nil {
		return nil, err
	}
	return faq, nil
}

func (p *Pipeline) UpdateFAQ(ctx context.Context, id primitive.ObjectID, fields FAQFields) (*models.FAQ, error) {
	faq, err := p.GetFAQ(ctx, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	fields.apply(faq, set)
	if err := models.Validate(faq); err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return faq, nil
	}

	updated, err := p.faqs.Update(ctx, id, set)
	if err != nil {
		return nil, storeErr(err, "FAQ not found")
	}
	return updated, nil
}

func (p *Pipeline) DeleteFAQ(ctx context.Context, id primitive.ObjectID) error {
	if _, err := p.faqs.Delete(ctx, id); err != nil {
		return storeErr(err, "FAQ not found")
	}
	return nil
}
