package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	config "github.com/codingclub/content-service/config"
)

// email request payload for ZeptoMail API
type emailRequest struct {
	From     emailAddress  `json:"from"`
	To       []toRecipient `json:"to"`
	Subject  string        `json:"subject"`
	HtmlBody string        `json:"htmlbody"`
}

type emailAddress struct {
	Address string `json:"address"`
}

type toRecipient struct {
	Email emailWithName `json:"email_address"`
}

type emailWithName struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// Mailer sends operational alerts through the ZeptoMail HTTP API.
type Mailer struct {
	apiURL string
	apiKey string
	from   string
	to     string
	client *http.Client
}

func NewMailer(cfg config.Mail) *Mailer {
	return &Mailer{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		from:   cfg.From,
		to:     cfg.AlertTo,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Alert mails subject/body to the configured operations address.
func (m *Mailer) Alert(ctx context.Context, subject, body string) error {
	payload := emailRequest{
		From: emailAddress{Address: m.from},
		To: []toRecipient{
			{Email: emailWithName{Address: m.to, Name: "Content Service Ops"}},
		},
		Subject:  subject,
		HtmlBody: body,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("zeptomail API error: %s", resp.Status)
	}
	return nil
}
