package utils

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", "64b000000000000000000001", "a@club.dev", true, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	claims, err := ValidateToken("secret", token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != "64b000000000000000000001" || !claims.IsAdmin || claims.Email != "a@club.dev" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateTokenFailures(t *testing.T) {
	good, _ := GenerateToken("secret", "u1", "", false, time.Minute)
	expired, _ := GenerateToken("secret", "u1", "", false, -time.Minute)

	if _, err := ValidateToken("other", good); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("wrong secret error = %v, want ErrTokenInvalid", err)
	}
	if _, err := ValidateToken("secret", expired); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expired error = %v, want ErrTokenExpired", err)
	}
	if _, err := ValidateToken("secret", "not-a-jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("garbage error = %v, want ErrTokenInvalid", err)
	}
}

func TestParseDate(t *testing.T) {
	for _, raw := range []string{"2025-03-01T10:00:00Z", "2025-03-01", "2025-03-01 10:00"} {
		got, err := ParseDate(raw)
		if err != nil {
			t.Fatalf("ParseDate(%q) error = %v", raw, err)
		}
		if got.Year() != 2025 || got.Month() != time.March || got.Day() != 1 {
			t.Fatalf("ParseDate(%q) = %v", raw, got)
		}
	}
	if _, err := ParseDate("March 1st"); err == nil {
		t.Fatal("ParseDate accepted free text")
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList("go, rust ,", "ai")
	want := []string{"go", "rust", "ai"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitList() = %v, want %v", got, want)
	}
	if got := SplitList(); got == nil || len(got) != 0 {
		t.Fatalf("SplitList() with no input = %#v, want empty slice", got)
	}
}

func TestGenerateETagChangesWithInputs(t *testing.T) {
	id := primitive.NewObjectID()
	now := time.Now()
	a := GenerateETag(id, now, "page=1")
	if a != GenerateETag(id, now, "page=1") {
		t.Fatal("ETag not stable")
	}
	if a == GenerateETag(id, now, "page=2") {
		t.Fatal("ETag ignores extra discriminators")
	}
	if a == GenerateETag(id, now.Add(time.Second), "page=1") {
		t.Fatal("ETag ignores updatedAt")
	}
	if !strings.HasPrefix(a, `W/"`) {
		t.Fatalf("ETag = %q, want weak validator", a)
	}
}

func TestAPIErrorUnwrap(t *testing.T) {
	root := errors.New("boom")
	err := error(BadGateway("media service error", root))
	apiErr, ok := AsAPIError(err)
	if !ok || apiErr.Status != http.StatusBadGateway {
		t.Fatalf("AsAPIError() = %v, %v", apiErr, ok)
	}
	if !errors.Is(err, root) {
		t.Fatal("APIError does not unwrap to its cause")
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("debug", "text", &buf)
	ctx := ContextWithLogger(context.Background(), logger.With("request_id", "r-1"))

	LoggerFromContext(ctx, nil).Info("hello")
	if !strings.Contains(buf.String(), "request_id=r-1") {
		t.Fatalf("log output missing request id: %s", buf.String())
	}
	if LoggerFromContext(context.Background(), logger) != logger {
		t.Fatal("fallback logger not returned")
	}
}
