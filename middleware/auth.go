package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	utils "github.com/codingclub/content-service/utils"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey  = "user_id"
	EmailKey   = "email"
	IsAdminKey = "is_admin"
)

// AuthMiddleware verifies the bearer token and attaches the caller's
// identity to the gin context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, utils.Unauthorized("Unauthorized: No token provided"))
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			abort(c, utils.Unauthorized("Unauthorized: Invalid token format"))
			return
		}

		claims, err := utils.ValidateToken(secret, token)
		if err != nil {
			if err == utils.ErrTokenExpired {
				abort(c, utils.Forbidden("Token has expired"))
			} else {
				abort(c, utils.Forbidden("Invalid token"))
			}
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Set(IsAdminKey, claims.IsAdmin)
		c.Next()
	}
}

// AdminOnly restricts access to admin users. It must run after
// AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(IsAdminKey) {
			abort(c, utils.Forbidden("Access denied. Admin privileges required."))
			return
		}
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
