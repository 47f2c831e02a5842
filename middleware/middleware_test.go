package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	config "github.com/codingclub/content-service/config"
	models "github.com/codingclub/content-service/models"
	utils "github.com/codingclub/content-service/utils"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(cfg *config.Config, mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(cfg, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	r.Use(mw...)
	return r
}

func token(t *testing.T, isAdmin bool) string {
	t.Helper()
	tok, err := utils.GenerateToken(testSecret, "64b7f0c2a1b2c3d4e5f60718", "ada@example.com", isAdmin, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	return tok
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestAuthMiddleware(t *testing.T) {
	r := newEngine(nil, AuthMiddleware(testSecret), AdminOnly())
	r.POST("/events", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"user": c.GetString(UserIDKey), "admin": c.GetBool(IsAdminKey)})
	})

	expired, err := utils.GenerateToken(testSecret, "u1", "", true, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	forged, err := utils.GenerateToken("other-secret", "u1", "", true, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "Unauthorized: No token provided"},
		{"no scheme", token(t, true), http.StatusUnauthorized, "Unauthorized: Invalid token format"},
		{"empty token", "Bearer ", http.StatusUnauthorized, "Unauthorized: Invalid token format"},
		{"garbage token", "Bearer not-a-jwt", http.StatusForbidden, "Invalid token"},
		{"wrong secret", "Bearer " + forged, http.StatusForbidden, "Invalid token"},
		{"expired", "Bearer " + expired, http.StatusForbidden, "Token has expired"},
		{"not admin", "Bearer " + token(t, false), http.StatusForbidden, "Access denied. Admin privileges required."},
		{"admin", "Bearer " + token(t, true), http.StatusCreated, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/events", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			body := decode(t, rec)
			if tt.message != "" {
				if body["message"] != tt.message || body["success"] != false {
					t.Fatalf("body = %v", body)
				}
				return
			}
			if body["user"] != "64b7f0c2a1b2c3d4e5f60718" || body["admin"] != true {
				t.Fatalf("identity not attached: %v", body)
			}
		})
	}
}

func TestErrorHandlerRendering(t *testing.T) {
	invalid := models.Validate(&models.FAQ{Question: "q"})
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: content.faqs index: question_1 dup key: { question: "q" }`,
	}}}
	compoundDup := mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: content.events index: title_1_date_-1 dup key: { title: "x", date: new Date(1) }`,
	}}}

	tests := []struct {
		name       string
		production bool
		err        error
		status     int
		message    string
	}{
		{"api error", false, utils.NotFound("Event not found"), http.StatusNotFound, "Event not found"},
		{"validation", false, invalid, http.StatusBadRequest, "Validation failed"},
		{"duplicate key", false, dup, http.StatusBadRequest, "question already exists"},
		{"compound duplicate key", false, compoundDup, http.StatusBadRequest, "title already exists"},
		{"internal development", false, errors.New("socket closed"), http.StatusInternalServerError, "socket closed"},
		{"internal production", true, errors.New("socket closed"), http.StatusInternalServerError, "Internal Server Error"},
		{"bad gateway production", true, utils.BadGateway("image upload failed", errors.New("x")), http.StatusBadGateway, "Bad Gateway"},
		{"bad request production", true, utils.BadRequest("Invalid event id", nil), http.StatusBadRequest, "Invalid event id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Env: config.EnvDevelopment}
			if tt.production {
				cfg.Env = config.EnvProduction
			}
			r := newEngine(cfg)
			r.GET("/x", func(c *gin.Context) { _ = c.Error(tt.err) })

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			body := decode(t, rec)
			if body["message"] != tt.message || body["success"] != false {
				t.Fatalf("body = %v", body)
			}
		})
	}
}

func TestErrorHandlerListsInvalidFields(t *testing.T) {
	r := newEngine(nil)
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(models.Validate(&models.Testimonial{Name: "n", Role: "r", Content: "c", Rating: 9}))
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	fields, ok := decode(t, rec)["errors"].(map[string]any)
	if !ok {
		t.Fatalf("errors field missing: %s", rec.Body.String())
	}
	if fields["rating"] != "rating must be at most 5" {
		t.Fatalf("errors = %v", fields)
	}
}

func TestRequestLoggerPropagatesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(requestLoggerWithGenerator(logger, func() string { return "generated-id" }))
	r.GET("/x", func(c *gin.Context) {
		utils.LoggerFromContext(c.Request.Context(), nil).Info("inside handler")
		c.Status(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if got := rec.Header().Get(RequestIDHeader); got != "generated-id" {
		t.Fatalf("request id header = %q", got)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("log lines = %d, want 2: %s", len(lines), buf.String())
	}
	for _, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("decode log: %v", err)
		}
		if entry["request_id"] != "generated-id" {
			t.Fatalf("request_id missing from %v", entry)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "incoming")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "incoming" {
		t.Fatalf("request id header = %q, want incoming", got)
	}
}

func TestMemoryLimiterWindows(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if ok, _, _ := l.Allow(context.Background(), "k"); !ok {
			t.Fatalf("hit %d rejected", i+1)
		}
	}
	now = now.Add(20 * time.Second)
	ok, retry, _ := l.Allow(context.Background(), "k")
	if ok || retry != 40*time.Second {
		t.Fatalf("third hit = %v retry %v, want rejected with 40s", ok, retry)
	}
	if ok, _, _ := l.Allow(context.Background(), "other"); !ok {
		t.Fatal("keys must be counted separately")
	}

	now = now.Add(time.Minute)
	if ok, _, _ := l.Allow(context.Background(), "k"); !ok {
		t.Fatal("new window should allow")
	}
}

type stubLimiter struct {
	allowed bool
	retry   time.Duration
	err     error
	keys    []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.retry, s.err
}

func TestRateLimitMiddleware(t *testing.T) {
	run := func(l Limiter, withUser bool) *httptest.ResponseRecorder {
		r := newEngine(nil)
		if withUser {
			r.Use(func(c *gin.Context) { c.Set(UserIDKey, "u1") })
		}
		r.Use(RateLimit(l, nil))
		r.DELETE("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/x", nil))
		return rec
	}

	limited := &stubLimiter{retry: 1500 * time.Millisecond}
	rec := run(limited, true)
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") != "2" {
		t.Fatalf("status = %d retry-after = %q", rec.Code, rec.Header().Get("Retry-After"))
	}
	if limited.keys[0] != "user:u1" {
		t.Fatalf("key = %q", limited.keys[0])
	}

	broken := &stubLimiter{err: errors.New("redis down")}
	if rec := run(broken, false); rec.Code != http.StatusNoContent {
		t.Fatalf("limiter errors must fail open, got %d", rec.Code)
	}
	if !strings.HasPrefix(broken.keys[0], "ip:") {
		t.Fatalf("anonymous key = %q", broken.keys[0])
	}

	if rec := run(nil, false); rec.Code != http.StatusNoContent {
		t.Fatalf("nil limiter status = %d", rec.Code)
	}
}

func TestRedisLimiter(t *testing.T) {
	addr := os.Getenv("CONTENT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CONTENT_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	l := NewRedisLimiter(client, 2, 5*time.Second)
	l.prefix = "content:test:" + time.Now().Format("150405.000000") + ":"

	for i := 0; i < 2; i++ {
		if ok, _, err := l.Allow(ctx, "k"); err != nil || !ok {
			t.Fatalf("hit %d: ok=%v err=%v", i+1, ok, err)
		}
	}
	ok, retry, err := l.Allow(ctx, "k")
	if err != nil || ok || retry <= 0 || retry > 5*time.Second {
		t.Fatalf("third hit: ok=%v retry=%v err=%v", ok, retry, err)
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	for header, want := range map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "no-referrer",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
}

func TestBodyLimit(t *testing.T) {
	r := newEngine(nil, BodyLimit(8))
	r.POST("/x", func(c *gin.Context) {
		var v map[string]any
		if err := c.ShouldBindJSON(&v); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.Status(http.StatusRequestEntityTooLarge)
				return
			}
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"a":1}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("small body status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"a":"much longer than eight bytes"}`)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("large body status = %d", rec.Code)
	}
}
