// internal/app/system/content/content.go

// Package content reads projects and blog posts from the Sanity content API
// using GROQ queries.
package content

import (
	"context"
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
	"golang.org/x/oauth2"
)

// ErrNotFound is returned by GetPost when no post has the slug.
var ErrNotFound = errors.New("content: not found")

// DateLayout renders a post date as e.g. "Tuesday 3 January 2023".
const DateLayout = "Monday 2 January 2006"

const (
	projectsQuery = `*[_type == "project"] | order(order asc) {_id, title, image{asset-> {url}}, altText, projectUrl}`
	postsQuery    = `*[_type == 'post'] | order(_createdAt desc) {_id,title,description,slug{current},_createdAt,mainImage{asset->{url}}}`
	postQuery     = `*[_type == 'post' && slug.current == $slug][0]{_id,title,description,slug{current},body,_createdAt,altText,mainImage{asset->{url}}}`
)

// Source is what pages need from the content service.
type Source interface {
	ListProjects(ctx context.Context) ([]Project, error)
	ListPosts(ctx context.Context) ([]Post, error)
	GetPost(ctx context.Context, slug string) (Post, error)
}

// Config holds the Sanity settings.
type Config struct {
	ProjectID  string
	Dataset    string // defaults to "production"
	APIVersion string // defaults to "v2022-10-20"
	Token      string // optional; required for private datasets
	BaseURL    string // overrides https://{ProjectID}.api.sanity.io

	// Location is used for FormattedCreatedAt. Defaults to UTC.
	Location *time.Location

	HTTPClient *http.Client
}

// Client queries a Sanity dataset.
type Client struct {
	queryURL string
	loc      *time.Location
	http     *http.Client
	log      *zap.Logger
}

// New builds a Client. With a Token, requests carry it as a bearer token.
func New(cfg Config, log *zap.Logger) *Client {
	if cfg.Dataset == "" {
		cfg.Dataset = "production"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v2022-10-20"
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://" + cfg.ProjectID + ".api.sanity.io"
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, hc)
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"}))
	}

	return &Client{
		queryURL: base + "/" + cfg.APIVersion + "/data/query/" + url.PathEscape(cfg.Dataset),
		loc:      loc,
		http:     hc,
		log:      log,
	}
}

// ListProjects returns the portfolio projects in display order.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var out []Project
	if err := c.query(ctx, projectsQuery, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPosts returns all posts, newest first.
func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	var out []Post
	if err := c.query(ctx, postsQuery, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].FormattedCreatedAt = c.formatDate(out[i].CreatedAt)
	}
	return out, nil
}

// GetPost returns the post with the given slug or ErrNotFound.
func (c *Client) GetPost(ctx context.Context, slug string) (Post, error) {
	var out *Post
	if err := c.query(ctx, postQuery, map[string]string{"slug": slug}, &out); err != nil {
		return Post{}, err
	}
	if out == nil {
		return Post{}, ErrNotFound
	}
	out.FormattedCreatedAt = c.formatDate(out.CreatedAt)
	return *out, nil
}

func (c *Client) formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(c.loc).Format(DateLayout)
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

// APIError is a non-2xx response from Sanity.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sanity: status %d: %s", e.StatusCode, e.Body)
}

// query runs a GROQ query. Params are sent as $name=<json string>.
func (c *Client) query(ctx context.Context, groq string, params map[string]string, dst any) error {
	q := url.Values{}
	q.Set("query", groq)
	for k, v := range params {
		enc, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("sanity: encode param %s: %w", k, err)
		}
		q.Set("$"+k, string(enc))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.queryURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("sanity: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	err = c.do(req, dst)
	metrics.ObserveUpstream("sanity", start, err)
	if err != nil {
		c.log.Error("content query failed", zap.Error(err))
	}
	return err
}

func (c *Client) do(req *http.Request, dst any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sanity: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("sanity: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := string(raw)
		if len(body) > 200 {
			body = body[:200]
		}
		return &APIError{StatusCode: resp.StatusCode, Body: body}
	}

	var qr queryResponse
	if err := json.Unmarshal(raw, &qr); err != nil {
		return fmt.Errorf("sanity: decode response: %w", err)
	}
	if len(qr.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(qr.Result, dst); err != nil {
		return fmt.Errorf("sanity: decode result: %w", err)
	}
	return nil
}
