package controllers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	middleware "github.com/codingclub/content-service/middleware"
	models "github.com/codingclub/content-service/models"
	pipeline "github.com/codingclub/content-service/pipeline"
	utils "github.com/codingclub/content-service/utils"
)

func currentUser(c *gin.Context) (primitive.ObjectID, error) {
	userID, err := primitive.ObjectIDFromHex(c.GetString(middleware.UserIDKey))
	if err != nil {
		return primitive.NilObjectID, utils.Unauthorized("invalid user id")
	}
	return userID, nil
}

func pathID(c *gin.Context, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, utils.BadRequest("Invalid "+what+" id", nil)
	}
	return id, nil
}

func pageRequest(c *gin.Context) models.PageRequest {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return models.NewPageRequest(page, limit)
}

// activeFilter reads ?active=. Missing means active only, "all" disables
// the filter.
func activeFilter(c *gin.Context) *bool {
	raw := strings.ToLower(c.DefaultQuery("active", "true"))
	if raw == "all" {
		return nil
	}
	active := raw == "true"
	return &active
}

// uploadedFiles returns the files sent under field, wrapped with the caption
// at the same position in the repeated "captions" field.
func uploadedFiles(c *gin.Context, field string) ([]pipeline.Attachment, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, bindError("invalid form data", err)
	}

	headers := form.File[field]
	captions := form.Value["captions"]
	files := make([]pipeline.Attachment, 0, len(headers))
	for i, fh := range headers {
		var caption string
		if i < len(captions) {
			caption = strings.TrimSpace(captions[i])
		}
		files = append(files, attachment(fh, caption))
	}
	return files, nil
}

// bindError maps a body parsing failure to 400, or 413 when the body
// exceeded the configured limit.
func bindError(message string, err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return utils.NewAPIError(http.StatusRequestEntityTooLarge, "Request body too large", err)
	}
	return utils.BadRequest(message, err)
}

func attachment(fh *multipart.FileHeader, caption string) pipeline.Attachment {
	return pipeline.Attachment{
		Filename: fh.Filename,
		Caption:  caption,
		Open: func() (io.ReadCloser, error) {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := utils.ParseDate(*raw)
	if err != nil {
		return nil, utils.BadRequest("Invalid date", err)
	}
	return &t, nil
}

func parseObjectIDs(values []string, what string) ([]primitive.ObjectID, error) {
	if values == nil {
		return nil, nil
	}
	ids := []primitive.ObjectID{}
	for _, v := range utils.SplitList(values...) {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return nil, utils.BadRequest("Invalid "+what+" id: "+v, nil)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitOptional(values []string) []string {
	if values == nil {
		return nil
	}
	return utils.SplitList(values...)
}

// notModified sets the ETag header and reports whether the client already
// holds this representation.
func notModified(c *gin.Context, etag string) bool {
	c.Header("ETag", etag)
	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}

// listETag identifies a page by its most recently updated document, the
// total and the raw query.
func listETag(c *gin.Context, latest models.Base, total int64) string {
	return utils.GenerateETag(latest.ID, latest.UpdatedAt, strconv.FormatInt(total, 10), c.Request.URL.RawQuery)
}

func latestOf(bases []models.Base) models.Base {
	var latest models.Base
	for _, b := range bases {
		if b.UpdatedAt.After(latest.UpdatedAt) {
			latest = b
		}
	}
	return latest
}
