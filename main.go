package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	config "github.com/codingclub/content-service/config"
	middleware "github.com/codingclub/content-service/middleware"
	pipeline "github.com/codingclub/content-service/pipeline"
	repository "github.com/codingclub/content-service/repository"
	routes "github.com/codingclub/content-service/routes"
	utils "github.com/codingclub/content-service/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := utils.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	// --- Database ---
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	client, err := repository.Connect(ctx, cfg.MongoURI)
	if err != nil {
		cancel()
		logger.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	db := client.Database(cfg.DBName)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logger.Warn("failed to ensure indexes", "error", err)
	}
	cancel()
	logger.Info("connected to MongoDB", "database", cfg.DBName)

	// --- Media store ---
	media, err := utils.NewCloudinaryStore(cfg)
	if err != nil {
		logger.Error("failed to initialise media store", "error", err)
		os.Exit(1)
	}

	opts := pipeline.Options{UploadConcurrency: cfg.UploadConcurrency, Logger: logger}
	if cfg.MailEnabled() {
		opts.Alerter = utils.NewMailer(cfg.Mail)
	} else {
		logger.Info("mail alerts disabled")
	}

	stores := repository.NewStores(db)
	p := pipeline.New(pipeline.Stores{
		Events:       stores.Events,
		FAQs:         stores.FAQs,
		Testimonials: stores.Testimonials,
		Achievements: stores.Achievements,
	}, media, opts)

	// --- Rate limiting ---
	var limiter middleware.Limiter = middleware.NewMemoryLimiter(cfg.RateLimit, cfg.RateLimitWindow)
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		limiter = middleware.NewRedisLimiter(redisClient, cfg.RateLimit, cfg.RateLimitWindow)
		logger.Info("rate limiting via redis", "addr", cfg.RedisAddr)
	}

	// --- HTTP ---
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.BodyLimit(cfg.MaxUploadBytes))
	router.MaxMultipartMemory = 8 << 20
	routes.SetupRoutes(router, cfg, p, limiter, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("content service listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errs:
		logger.Error("server error", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", "error", err)
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn("failed to close redis client", "error", err)
		}
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		logger.Warn("failed to disconnect from MongoDB", "error", err)
	}
}
