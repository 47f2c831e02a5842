package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	models "github.com/codingclub/content-service/models"
	pipeline "github.com/codingclub/content-service/pipeline"
	utils "github.com/codingclub/content-service/utils"
)

type testimonialInput struct {
	Name     *string `form:"name" json:"name"`
	Role     *string `form:"role" json:"role"`
	Content  *string `form:"content" json:"content"`
	Rating   *int    `form:"rating" json:"rating"`
	Order    *int    `form:"order" json:"order"`
	IsActive *bool   `form:"isActive" json:"isActive"`
}

func bindTestimonial(c *gin.Context) (pipeline.TestimonialFields, *pipeline.Attachment, error) {
	var input testimonialInput
	if err := c.ShouldBind(&input); err != nil {
		return pipeline.TestimonialFields{}, nil, bindError("Invalid testimonial data", err)
	}

	files, err := uploadedFiles(c, "image")
	if err != nil {
		return pipeline.TestimonialFields{}, nil, err
	}
	if len(files) > 1 {
		return pipeline.TestimonialFields{}, nil, utils.BadRequest("Only one image is allowed", nil)
	}
	var image *pipeline.Attachment
	if len(files) == 1 {
		image = &files[0]
	}

	return pipeline.TestimonialFields{
		Name:     input.Name,
		Role:     input.Role,
		Content:  input.Content,
		Rating:   input.Rating,
		Order:    input.Order,
		IsActive: input.IsActive,
	}, image, nil
}

// ---------------- CREATE ----------------
func CreateTestimonial(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := currentUser(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		fields, image, err := bindTestimonial(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		testimonial, err := p.CreateTestimonial(c.Request.Context(), userID, fields, image)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "testimonial": testimonial})
	}
}

// ---------------- LIST ----------------
func ListTestimonials(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := p.ListTestimonials(c.Request.Context(), models.TestimonialFilter{Active: activeFilter(c)}, pageRequest(c))
		if err != nil {
			_ = c.Error(err)
			return
		}

		bases := make([]models.Base, len(res.Items))
		for i, t := range res.Items {
			bases[i] = t.Base
		}
		if notModified(c, listETag(c, latestOf(bases), res.Pagination.Total)) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "testimonials": res.Items, "pagination": res.Pagination})
	}
}

// ---------------- GET ----------------
func GetTestimonial(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "testimonial")
		if err != nil {
			_ = c.Error(err)
			return
		}

		testimonial, err := p.GetTestimonial(c.Request.Context(), id)
		if err != nil {
			_ = c.Error(err)
			return
		}

		if notModified(c, utils.GenerateETag(testimonial.ID, testimonial.UpdatedAt)) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "testimonial": testimonial})
	}
}

// ---------------- UPDATE ----------------
func UpdateTestimonial(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "testimonial")
		if err != nil {
			_ = c.Error(err)
			return
		}

		fields, image, err := bindTestimonial(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		testimonial, err := p.UpdateTestimonial(c.Request.Context(), id, fields, image)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "testimonial": testimonial})
	}
}

// ---------------- DELETE ----------------
func DeleteTestimonial(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "testimonial")
		if err != nil {
			_ = c.Error(err)
			return
		}

		if err := p.DeleteTestimonial(c.Request.Context(), id); err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Testimonial deleted successfully"})
	}
}
