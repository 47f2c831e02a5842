package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	models "github.com/codingclub/content-service/models"
	pipeline "github.com/codingclub/content-service/pipeline"
	utils "github.com/codingclub/content-service/utils"
)

type achievementInput struct {
	Title         *string `form:"title" json:"title"`
	Description   *string `form:"description" json:"description"`
	Date          *string `form:"date" json:"date"`
	Category      *string `form:"category" json:"category"`
	IsHighlighted *bool   `form:"isHighlighted" json:"isHighlighted"`
	// Participants is a JSON array encoded as a single form value.
	Participants *string `form:"participants" json:"participants"`
}

func bindAchievement(c *gin.Context) (pipeline.AchievementFields, error) {
	var input achievementInput
	if err := c.ShouldBind(&input); err != nil {
		return pipeline.AchievementFields{}, bindError("Invalid achievement data", err)
	}

	date, err := parseDate(input.Date)
	if err != nil {
		return pipeline.AchievementFields{}, err
	}

	var participants []models.Participant
	if input.Participants != nil {
		participants = []models.Participant{}
		if raw := strings.TrimSpace(*input.Participants); raw != "" {
			if err := json.Unmarshal([]byte(raw), &participants); err != nil {
				return pipeline.AchievementFields{}, utils.BadRequest("Invalid participants format", err)
			}
		}
	}

	return pipeline.AchievementFields{
		Title:         input.Title,
		Description:   input.Description,
		Date:          date,
		Category:      input.Category,
		Participants:  participants,
		IsHighlighted: input.IsHighlighted,
	}, nil
}

// ---------------- CREATE ----------------
func CreateAchievement(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := currentUser(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		fields, err := bindAchievement(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		files, err := uploadedFiles(c, "images")
		if err != nil {
			_ = c.Error(err)
			return
		}

		achievement, err := p.CreateAchievement(c.Request.Context(), userID, fields, files)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "achievement": achievement})
	}
}

// ---------------- LIST ----------------
func ListAchievements(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.AchievementFilter{
			Category:    c.Query("category"),
			Highlighted: c.Query("highlighted") == "true",
			Search:      strings.TrimSpace(c.Query("search")),
		}

		res, err := p.ListAchievements(c.Request.Context(), filter, pageRequest(c))
		if err != nil {
			_ = c.Error(err)
			return
		}

		bases := make([]models.Base, len(res.Items))
		for i, a := range res.Items {
			bases[i] = a.Base
		}
		if notModified(c, listETag(c, latestOf(bases), res.Pagination.Total)) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "achievements": res.Items, "pagination": res.Pagination})
	}
}

// ---------------- GET ----------------
func GetAchievement(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "achievement")
		if err != nil {
			_ = c.Error(err)
			return
		}

		achievement, err := p.GetAchievement(c.Request.Context(), id)
		if err != nil {
			_ = c.Error(err)
			return
		}

		if notModified(c, utils.GenerateETag(achievement.ID, achievement.UpdatedAt)) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "achievement": achievement})
	}
}

// ---------------- UPDATE ----------------
func UpdateAchievement(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "achievement")
		if err != nil {
			_ = c.Error(err)
			return
		}

		fields, err := bindAchievement(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		files, err := uploadedFiles(c, "images")
		if err != nil {
			_ = c.Error(err)
			return
		}

		achievement, err := p.UpdateAchievement(c.Request.Context(), id, fields, files)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "achievement": achievement})
	}
}

// ---------------- DELETE ----------------
func DeleteAchievement(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "achievement")
		if err != nil {
			_ = c.Error(err)
			return
		}

		if err := p.DeleteAchievement(c.Request.Context(), id); err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Achievement deleted successfully"})
	}
}
