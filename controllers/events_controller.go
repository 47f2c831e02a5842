package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	models "github.com/codingclub/content-service/models"
	pipeline "github.com/codingclub/content-service/pipeline"
	utils "github.com/codingclub/content-service/utils"
)

type eventInput struct {
	Title               *string  `form:"title" json:"title"`
	Date                *string  `form:"date" json:"date"`
	Description         *string  `form:"description" json:"description"`
	Content             *string  `form:"content" json:"content"`
	Category            *string  `form:"category" json:"category"`
	Status              *string  `form:"status" json:"status"`
	Location            *string  `form:"location" json:"location"`
	RegistrationLink    *string  `form:"registrationLink" json:"registrationLink"`
	MaxParticipants     *int     `form:"maxParticipants" json:"maxParticipants"`
	CurrentParticipants *int     `form:"currentParticipants" json:"currentParticipants"`
	Tags                []string `form:"tags" json:"tags"`
	Organizers          []string `form:"organizers" json:"organizers"`
}

func bindEvent(c *gin.Context) (pipeline.EventFields, error) {
	var input eventInput
	if err := c.ShouldBind(&input); err != nil {
		return pipeline.EventFields{}, bindError("Invalid event data", err)
	}

	date, err := parseDate(input.Date)
	if err != nil {
		return pipeline.EventFields{}, err
	}
	organizers, err := parseObjectIDs(input.Organizers, "organizer")
	if err != nil {
		return pipeline.EventFields{}, err
	}

	return pipeline.EventFields{
		Title:               input.Title,
		Date:                date,
		Description:         input.Description,
		Content:             input.Content,
		Category:            input.Category,
		Status:              input.Status,
		Location:            input.Location,
		RegistrationLink:    input.RegistrationLink,
		MaxParticipants:     input.MaxParticipants,
		CurrentParticipants: input.CurrentParticipants,
		Tags:                splitOptional(input.Tags),
		Organizers:          organizers,
	}, nil
}

// ---------------- CREATE ----------------
func CreateEvent(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := currentUser(c)
		if err != nil {
			_ = c.Error(err)
			return
		}

		fields, err := bindEvent(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		files, err := uploadedFiles(c, "images")
		if err != nil {
			_ = c.Error(err)
			return
		}

		event, err := p.CreateEvent(c.Request.Context(), userID, fields, files)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "event": event})
	}
}

// ---------------- LIST ----------------
func ListEvents(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.EventFilter{
			Category: c.Query("category"),
			Status:   c.Query("status"),
			Upcoming: c.Query("upcoming") == "true",
			Search:   strings.TrimSpace(c.Query("search")),
		}

		res, err := p.ListEvents(c.Request.Context(), filter, pageRequest(c))
		if err != nil {
			_ = c.Error(err)
			return
		}

		bases := make([]models.Base, len(res.Items))
		for i, e := range res.Items {
			bases[i] = e.Base
		}
		if notModified(c, listETag(c, latestOf(bases), res.Pagination.Total)) {
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "events": res.Items, "pagination": res.Pagination})
	}
}

// ---------------- GET ----------------
func GetEvent(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "event")
		if err != nil {
			_ = c.Error(err)
			return
		}

		event, err := p.GetEvent(c.Request.Context(), id)
		if err != nil {
			_ = c.Error(err)
			return
		}

		if notModified(c, utils.GenerateETag(event.ID, event.UpdatedAt)) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "event": event})
	}
}

// ---------------- UPDATE ----------------
func UpdateEvent(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "event")
		if err != nil {
			_ = c.Error(err)
			return
		}

		fields, err := bindEvent(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		files, err := uploadedFiles(c, "images")
		if err != nil {
			_ = c.Error(err)
			return
		}

		event, err := p.UpdateEvent(c.Request.Context(), id, fields, files)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "event": event})
	}
}

// ---------------- DELETE ----------------
func DeleteEvent(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "event")
		if err != nil {
			_ = c.Error(err)
			return
		}

		if err := p.DeleteEvent(c.Request.Context(), id); err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event deleted successfully"})
	}
}

// RemoveEventImage serves DELETE /events/:id/images/*imageId. Media keys
// contain slashes, so the key is taken from a catch-all parameter.
func RemoveEventImage(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "event")
		if err != nil {
			_ = c.Error(err)
			return
		}
		publicID := strings.TrimPrefix(c.Param("imageId"), "/")
		if publicID == "" {
			_ = c.Error(utils.BadRequest("Image id is required", nil))
			return
		}

		event, err := p.RemoveEventImage(c.Request.Context(), id, publicID)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Image removed successfully", "event": event})
	}
}
