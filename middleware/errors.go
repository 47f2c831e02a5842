package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	config "github.com/codingclub/content-service/config"
	utils "github.com/codingclub/content-service/utils"
)

// duplicate key messages look like: E11000 ... index: title_1 dup key: { title: "x" }
var dupKeyIndex = regexp.MustCompile(`index: ([A-Za-z0-9.]+?)_-?1[A-Za-z0-9_.-]* dup key`)

// ErrorHandler renders the first error a handler attached with c.Error.
func ErrorHandler(cfg *config.Config, logger *slog.Logger) gin.HandlerFunc {
	production := cfg != nil && cfg.IsProduction()
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, body := renderError(err, production)

		log := utils.LoggerFromContext(c.Request.Context(), logger)
		if status >= http.StatusInternalServerError {
			log.Error("request failed", "status", status, "error", err)
		} else {
			log.Debug("request rejected", "status", status, "error", err)
		}
		c.AbortWithStatusJSON(status, body)
	}
}

func renderError(err error, production bool) (int, gin.H) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := gin.H{}
		for _, fe := range verrs {
			fields[fe.Field()] = validationMessage(fe)
		}
		return http.StatusBadRequest, gin.H{"success": false, "message": "Validation failed", "errors": fields}
	}

	if mongo.IsDuplicateKeyError(err) {
		field := "value"
		if m := dupKeyIndex.FindStringSubmatch(err.Error()); m != nil {
			field = m[1]
		}
		return http.StatusBadRequest, gin.H{"success": false, "message": field + " already exists"}
	}

	if apiErr, ok := utils.AsAPIError(err); ok {
		message := apiErr.Message
		if apiErr.Status >= http.StatusInternalServerError && production {
			message = http.StatusText(apiErr.Status)
		}
		return apiErr.Status, gin.H{"success": false, "message": message}
	}

	message := err.Error()
	if production {
		message = "Internal Server Error"
	}
	return http.StatusInternalServerError, gin.H{"success": false, "message": message}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fe.Field() + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "ltefield":
		return fe.Field() + " cannot exceed " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
