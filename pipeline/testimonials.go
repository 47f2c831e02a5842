package pipeline

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/codingclub/content-service/models"
	repository "github.com/codingclub/content-service/repository"
)

type TestimonialFields struct {
	Name     *string
	Role     *string
	Content  *string
	Rating   *int
	Order    *int
	IsActive *bool
}

func (f TestimonialFields) apply(t *models.Testimonial, set bson.M) {
	if f.Name != nil {
		t.Name = strings.TrimSpace(*f.Name)
		set["name"] = t.Name
	}
	if f.Role != nil {
		t.Role = *f.Role
		set["role"] = t.Role
	}
	if f.Content != nil {
		t.Content = *f.Content
		set["content"] = t.Content
	}
	if f.Rating != nil {
		t.Rating = *f.Rating
		set["rating"] = t.Rating
	}
	if f.Order != nil {
		t.Order = *f.Order
		set["order"] = t.Order
	}
	if f.IsActive != nil {
		t.IsActive = *f.IsActive
		set["isActive"] = t.IsActive
	}
}

func (p *Pipeline) ListTestimonials(ctx context.Context, f models.TestimonialFilter, page models.PageRequest) (ListResult[models.Testimonial], error) {
	return list(ctx, p.testimonials, repository.TestimonialQuery(f, page))
}

func (p *Pipeline) GetTestimonial(ctx context.Context, id primitive.ObjectID) (*models.Testimonial, error) {
	return get(ctx, p.testimonials, id, "Testimonial not found")
}

func (p *Pipeline) CreateTestimonial(ctx context.Context, owner primitive.ObjectID, fields TestimonialFields, image *Attachment) (*models.Testimonial, error) {
	testimonial := &models.Testimonial{Rating: models.DefaultRating, IsActive: true}
	testimonial.CreatedBy = owner
	fields.apply(testimonial, bson.M{})
	if err := models.Validate(testimonial); err != nil {
		return nil, err
	}

	staged, err := p.stage(ctx, TestimonialsFolder, single(image))
	if err != nil {
		return nil, err
	}
	if len(staged) == 1 {
		testimonial.Image = &staged[0]
	}

	if err := p.testimonials.Create(ctx, testimonial); err != nil {
		p.discard(ctx, staged)
		return nil, err
	}
	return testimonial, nil
}

// UpdateTestimonial merges fields and, when a new image is attached, replaces
// the current one. The old asset is deleted before the new one is uploaded;
// if anything fails after that delete the stored reference is cleared so the
// testimonial never points at a deleted asset.
func (p *Pipeline) UpdateTestimonial(ctx context.Context, id primitive.ObjectID, fields TestimonialFields, image *Attachment) (*models.Testimonial, error) {
	testimonial, err := p.GetTestimonial(ctx, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	fields.apply(testimonial, set)
	if err := models.Validate(testimonial); err != nil {
		return nil, err
	}

	var (
		staged     []models.Image
		oldDeleted bool
	)
	if image != nil {
		if testimonial.Image != nil {
			if err := p.deleteImages(ctx, []models.Image{*testimonial.Image}); err != nil {
				return nil, err
			}
			oldDeleted = true
		}

		staged, err = p.stage(ctx, TestimonialsFolder, single(image))
		if err != nil {
			if oldDeleted {
				p.clearTestimonialImage(ctx, id)
			}
			return nil, err
		}
		testimonial.Image = &staged[0]
		set["image"] = staged[0]
	}
	if len(set) == 0 {
		return testimonial, nil
	}

	updated, err := p.testimonials.Update(ctx, id, set)
	if err != nil {
		p.discard(ctx, staged)
		if oldDeleted {
			p.clearTestimonialImage(ctx, id)
		}
		return nil, storeErr(err, "Testimonial not found")
	}
	return updated, nil
}

// clearTestimonialImage drops the image reference after its asset is gone.
// It runs even when the request context is already cancelled.
func (p *Pipeline) clearTestimonialImage(ctx context.Context, id primitive.ObjectID) {
	clearCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	if _, err := p.testimonials.Update(clearCtx, id, bson.M{"image": nil}); err != nil {
		p.log(ctx).Error("clearing deleted testimonial image failed", "testimonial_id", id.Hex(), "error", err)
	}
}

func (p *Pipeline) DeleteTestimonial(ctx context.Context, id primitive.ObjectID) error {
	testimonial, err := p.GetTestimonial(ctx, id)
	if err != nil {
		return err
	}
	if testimonial.Image != nil {
		if err := p.deleteImages(ctx, []models.Image{*testimonial.Image}); err != nil {
			return err
		}
	}
	if _, err := p.testimonials.Delete(ctx, id); err != nil {
		return storeErr(err, "Testimonial not found")
	}
	return nil
}

func single(a *Attachment) []Attachment {
	if a == nil {
		return nil
	}
	return []Attachment{*a}
}
