package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	config "github.com/codingclub/content-service/config"
	controllers "github.com/codingclub/content-service/controllers"
	middleware "github.com/codingclub/content-service/middleware"
	pipeline "github.com/codingclub/content-service/pipeline"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config, p *pipeline.Pipeline, limiter middleware.Limiter, logger *slog.Logger) {
	r.Use(
		middleware.RequestLogger(logger),
		middleware.ErrorHandler(cfg, logger),
		middleware.SecurityHeaders(),
		cors.New(corsConfig(cfg)),
	)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Content Service is healthy"})
	})

	auth := middleware.AuthMiddleware(cfg.JWTSecret)
	adminOnly := middleware.AdminOnly()
	rateLimit := middleware.RateLimit(limiter, logger)
	// admin wraps a mutating handler: token, privilege, then per-user rate limit
	admin := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return []gin.HandlerFunc{auth, adminOnly, rateLimit, h}
	}

	events := r.Group("/events")
	{
		events.GET("", controllers.ListEvents(p))
		events.GET("/:id", controllers.GetEvent(p))
		events.POST("", admin(controllers.CreateEvent(p))...)
		events.PUT("/:id", admin(controllers.UpdateEvent(p))...)
		events.DELETE("/:id", admin(controllers.DeleteEvent(p))...)
		events.DELETE("/:id/images/*imageId", admin(controllers.RemoveEventImage(p))...)
	}

	faqs := r.Group("/faqs")
	{
		faqs.GET("", controllers.ListFAQs(p))
		faqs.GET("/:id", controllers.GetFAQ(p))
		faqs.POST("", admin(controllers.CreateFAQ(p))...)
		faqs.PUT("/:id", admin(controllers.UpdateFAQ(p))...)
		faqs.DELETE("/:id", admin(controllers.DeleteFAQ(p))...)
	}

	testimonials := r.Group("/testimonials")
	{
		testimonials.GET("", controllers.ListTestimonials(p))
		testimonials.GET("/:id", controllers.GetTestimonial(p))
		testimonials.POST("", admin(controllers.CreateTestimonial(p))...)
		testimonials.PUT("/:id", admin(controllers.UpdateTestimonial(p))...)
		testimonials.DELETE("/:id", admin(controllers.DeleteTestimonial(p))...)
	}

	achievements := r.Group("/achievements")
	{
		achievements.GET("", controllers.ListAchievements(p))
		achievements.GET("/:id", controllers.GetAchievement(p))
		achievements.POST("", admin(controllers.CreateAchievement(p))...)
		achievements.PUT("/:id", admin(controllers.UpdateAchievement(p))...)
		achievements.DELETE("/:id", admin(controllers.DeleteAchievement(p))...)
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Content-Type", "Authorization", middleware.RequestIDHeader, "If-None-Match"},
		ExposeHeaders:    []string{"ETag", middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.ClientURL != "" {
		c.AllowOrigins = []string{cfg.ClientURL}
	} else {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	}
	return c
}
