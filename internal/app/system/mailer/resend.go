// internal/app/system/mailer/resend.go
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/thedevbrian/folio/internal/app/system/metrics"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// DefaultResendURL is the Resend REST API base.
const DefaultResendURL = "https://api.resend.com"

// ResendConfig configures the Resend transport.
type ResendConfig struct {
	APIKey   string
	BaseURL  string // defaults to DefaultResendURL
	From     string
	FromName string

	// HTTPClient is the base transport; the API key is added on top of it.
	HTTPClient *http.Client
}

// Resend sends email through the Resend HTTP API.
type Resend struct {
	baseURL string
	from    string
	client  *http.Client
	log     *zap.Logger
}

// APIError is a non-2xx response from Resend.
type APIError struct {
	StatusCode int
	Name       string `json:"name"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("resend: %d %s: %s", e.StatusCode, e.Name, e.Message)
	}
	return fmt.Sprintf("resend: status %d", e.StatusCode)
}

// NewResend builds a Resend sender. Requests carry the API key as a bearer
// token.
func NewResend(cfg ResendConfig, log *zap.Logger) *Resend {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultResendURL
	}
	from := cfg.From
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.From)
	}

	ctx := context.Background()
	if cfg.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, cfg.HTTPClient)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"})

	return &Resend{
		baseURL: base,
		from:    from,
		client:  oauth2.NewClient(ctx, ts),
		log:     log,
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type resendResponse struct {
	ID string `json:"id"`
}

// Send posts the email to /emails and returns the Resend message id.
func (r *Resend) Send(ctx context.Context, email Email) (string, error) {
	if email.To == "" {
		return "", ErrNoRecipient
	}

	body, err := json.Marshal(resendRequest{
		From:    r.from,
		To:      []string{email.To},
		Subject: email.Subject,
		HTML:    email.HTMLBody,
		Text:    email.TextBody,
		ReplyTo: email.ReplyTo,
	})
	if err != nil {
		return "", fmt.Errorf("resend: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("resend: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	id, err := r.do(req)
	metrics.ObserveUpstream("resend", start, err)
	if err != nil {
		r.log.Error("failed to send email",
			zap.String("to", email.To),
			zap.String("subject", email.Subject),
			zap.Error(err))
		return "", err
	}

	r.log.Info("email sent",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.String("message_id", id))
	return id, nil
}

func (r *Resend) do(req *http.Request) (string, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resend: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("resend: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		return "", apiErr
	}

	var out resendResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("resend: decode response: %w", err)
	}
	return out.ID, nil
}
