// internal/app/system/newsletter/newsletter.go

// Package newsletter adds visitors to the Mailchimp audience.
package newsletter

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/thedevbrian/folio/internal/app/system/metrics"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned by Subscribe when no API key is set.
var ErrNotConfigured = errors.New("newsletter: not configured")

// Subscriber adds or updates a list member.
type Subscriber interface {
	Subscribe(ctx context.Context, name, email string) error
}

// Config holds the Mailchimp settings.
type Config struct {
	APIKey     string
	Server     string // data center prefix, e.g. "us21"
	AudienceID string
	BaseURL    string // overrides https://{Server}.api.mailchimp.com/3.0

	HTTPClient *http.Client
}

// Client talks to the Mailchimp Marketing API.
type Client struct {
	cfg     Config
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// APIError is a non-2xx response from Mailchimp.
type APIError struct {
	StatusCode int
	Title      string `json:"title"`
	Detail     string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Title != "" {
		return fmt.Sprintf("mailchimp: %d %s: %s", e.StatusCode, e.Title, e.Detail)
	}
	return fmt.Sprintf("mailchimp: status %d", e.StatusCode)
}

// New builds a Client. Server is taken from the API key suffix when empty.
func New(cfg Config, log *zap.Logger) *Client {
	if cfg.Server == "" {
		if i := strings.LastIndex(cfg.APIKey, "-"); i >= 0 {
			cfg.Server = cfg.APIKey[i+1:]
		}
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://" + cfg.Server + ".api.mailchimp.com/3.0"
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{cfg: cfg, baseURL: base, http: hc, log: log}
}

// MemberHash is the Mailchimp subscriber hash: MD5 of the lowercased email.
func MemberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(email)))
	return hex.EncodeToString(sum[:])
}

// MergeFields splits a display name into FNAME and, when there is a
// second word, LNAME.
func MergeFields(name string) map[string]string {
	words := strings.Fields(name)
	fields := map[string]string{}
	if len(words) > 0 {
		fields["FNAME"] = words[0]
	}
	if len(words) > 1 {
		fields["LNAME"] = words[1]
	}
	return fields
}

type memberRequest struct {
	EmailAddress string            `json:"email_address"`
	StatusIfNew  string            `json:"status_if_new"`
	MergeFields  map[string]string `json:"merge_fields,omitempty"`
}

// Subscribe upserts email into the audience. Existing members keep their
// status; new ones are subscribed.
func (c *Client) Subscribe(ctx context.Context, name, email string) error {
	if c.cfg.APIKey == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(memberRequest{
		EmailAddress: email,
		StatusIfNew:  "subscribed",
		MergeFields:  MergeFields(name),
	})
	if err != nil {
		return fmt.Errorf("mailchimp: encode request: %w", err)
	}

	endpoint := c.baseURL + "/lists/" + url.PathEscape(c.cfg.AudienceID) + "/members/" + MemberHash(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mailchimp: build request: %w", err)
	}
	req.SetBasicAuth("folio", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	err = c.do(req)
	metrics.ObserveUpstream("mailchimp", start, err)
	if err != nil {
		c.log.Error("newsletter subscribe failed", zap.String("email", email), zap.Error(err))
		return err
	}

	c.log.Info("newsletter subscribed", zap.String("email", email))
	return nil
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mailchimp: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = json.Unmarshal(raw, apiErr)
	return apiErr
}
