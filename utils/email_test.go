package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	config "github.com/codingclub/content-service/config"
)

func TestMailerAlertPostsPayload(t *testing.T) {
	var got emailRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewMailer(config.Mail{APIURL: srv.URL, APIKey: "Zoho-enczapikey abc", From: "noreply@club.dev", AlertTo: "ops@club.dev"})
	if err := m.Alert(context.Background(), "orphaned media", "<p>events/abc</p>"); err != nil {
		t.Fatalf("Alert() error = %v", err)
	}

	if auth != "Zoho-enczapikey abc" {
		t.Fatalf("Authorization = %q", auth)
	}
	if got.From.Address != "noreply@club.dev" || len(got.To) != 1 || got.To[0].Email.Address != "ops@club.dev" {
		t.Fatalf("unexpected addressing: %+v", got)
	}
	if got.Subject != "orphaned media" || got.HtmlBody != "<p>events/abc</p>" {
		t.Fatalf("unexpected content: %+v", got)
	}
}

func TestMailerAlertReportsAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := NewMailer(config.Mail{APIURL: srv.URL, APIKey: "bad", From: "a@b.c", AlertTo: "c@d.e"})
	if err := m.Alert(context.Background(), "s", "b"); err == nil {
		t.Fatal("Alert() succeeded, want error")
	}
}
