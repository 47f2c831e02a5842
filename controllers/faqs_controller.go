package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	models "github.com/codingclub/content-service/models"
	pipeline "github.com/codingclub/content-service/pipeline"
	utils "github.com/codingclub/content-service/utils"
)

type faqInput struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
	Category *string `json:"category"`
	Order    *int    `json:"order"`
	IsActive *bool   `json:"isActive"`
}

func bindFAQ(c *gin.Context) (pipeline.FAQFields, error) {
	var input faqInput
	if err := c.ShouldBindJSON(&input); err != nil {
		return pipeline.FAQFields{}, bindError("Invalid FAQ data", err)
	}
	return pipeline.FAQFields{
		Question: input.Question,
		Answer:   input.Answer,
		Category: input.Category,
		Order:    input.Order,
		IsActive: input.IsActive,
	}, nil
}

// ---------------- CREATE ----------------
func CreateFAQ(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := currentUser(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		fields, err := bindFAQ(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		faq, err := p.CreateFAQ(c.Request.Context(), userID, fields)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "faq": faq})
	}
}

// ---------------- LIST ----------------
func ListFAQs(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.FAQFilter{
			Category: c.Query("category"),
			Active:   activeFilter(c),
			Search:   strings.TrimSpace(c.Query("search")),
		}

		res, err := p.ListFAQs(c.Request.Context(), filter, pageRequest(c))
		if err != nil {
			_ = c.Error(err)
			return
		}

		bases := make([]models.Base, len(res.Items))
		for i, f := range res.Items {
			bases[i] = f.Base
		}
		if notModified(c, listETag(c, latestOf(bases), res.Pagination.Total)) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "faqs": res.Items, "pagination": res.Pagination})
	}
}

// ---------------- GET ----------------
func GetFAQ(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "FAQ")
		if err != nil {
			_ = c.Error(err)
			return
		}

		faq, err := p.GetFAQ(c.Request.Context(), id)
		if err != nil {
			_ = c.Error(err)
			return
		}

		if notModified(c, utils.GenerateETag(faq.ID, faq.UpdatedAt)) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "faq": faq})
	}
}

// ---------------- UPDATE ----------------
func UpdateFAQ(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "FAQ")
		if err != nil {
			_ = c.Error(err)
			return
		}

		fields, err := bindFAQ(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		faq, err := p.UpdateFAQ(c.Request.Context(), id, fields)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "faq": faq})
	}
}

// ---------------- DELETE ----------------
func DeleteFAQ(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "FAQ")
		if err != nil {
			_ = c.Error(err)
			return
		}

		if err := p.DeleteFAQ(c.Request.Context(), id); err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "FAQ deleted successfully"})
	}
}
