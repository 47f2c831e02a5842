package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Cloudinary struct {
	CloudName string
	APIKey    string
	APISecret string
}

type Mail struct {
	APIURL  string
	APIKey  string
	From    string
	AlertTo string
}

type Config struct {
	Env       string
	Port      string
	MongoURI  string
	DBName    string
	JWTSecret string
	ClientURL string

	Cloudinary        Cloudinary
	UploadConcurrency int
	UploadTimeout     time.Duration
	MaxUploadBytes    int64

	LogLevel  string
	LogFormat string

	RedisAddr       string
	RedisPassword   string
	RateLimit       int
	RateLimitWindow time.Duration

	Mail Mail
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:       strings.ToLower(getEnv("APP_ENV", EnvDevelopment)),
		Port:      getEnv("PORT", "5003"),
		MongoURI:  os.Getenv("MONGO_URI"),
		DBName:    getEnv("MONGO_DB", "content"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		ClientURL: getEnv("CLIENT_URL", "http://localhost:5173"),
		Cloudinary: Cloudinary{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		Mail: Mail{
			APIURL:  os.Getenv("ZEPTO_API_URL"),
			APIKey:  os.Getenv("ZEPTO_API_KEY"),
			From:    os.Getenv("EMAIL_FROM"),
			AlertTo: os.Getenv("ALERT_EMAIL"),
		},
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Env != EnvDevelopment && cfg.Env != EnvProduction {
		return nil, fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, cfg.Env)
	}

	var err error
	if cfg.UploadConcurrency, err = getInt("UPLOAD_CONCURRENCY", 3); err != nil {
		return nil, err
	}
	if cfg.UploadConcurrency < 1 {
		return nil, fmt.Errorf("UPLOAD_CONCURRENCY must be at least 1")
	}
	if cfg.UploadTimeout, err = getDuration("UPLOAD_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	maxMB, err := getInt("MAX_UPLOAD_MB", 50)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxMB) << 20
	if cfg.RateLimit, err = getInt("RATE_LIMIT", 60); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = getDuration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// MailEnabled reports whether cleanup alerts can be delivered.
func (c *Config) MailEnabled() bool {
	return c.Mail.APIURL != "" && c.Mail.APIKey != "" && c.Mail.From != "" && c.Mail.AlertTo != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 30s: %w", key, err)
	}
	return d, nil
}
