package newsletter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

func TestMemberHash(t *testing.T) {
	// md5("urist.mcvankab@freddiesjokes.com"), the example in the Mailchimp docs.
	const want = "62eeb292278cc15f5817cb78f7790b08"
	for _, email := range []string{"urist.mcvankab@freddiesjokes.com", "Urist.McVankab@FreddiesJokes.com"} {
		if got := MemberHash(email); got != want {
			t.Errorf("MemberHash(%q) = %q, want %q", email, got, want)
		}
	}
}

func TestMergeFields(t *testing.T) {
	tests := []struct {
		name string
		want map[string]string
	}{
		{"John", map[string]string{"FNAME": "John"}},
		{"John Doe", map[string]string{"FNAME": "John", "LNAME": "Doe"}},
		{"John Doe Smith", map[string]string{"FNAME": "John", "LNAME": "Doe"}},
		{"", map[string]string{}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, MergeFields(tt.name)); diff != "" {
			t.Errorf("MergeFields(%q) mismatch (-want +got):\n%s", tt.name, diff)
		}
	}
}

func TestSubscribe(t *testing.T) {
	var got memberRequest
	var path, method, user, pass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		user, pass, _ = r.BasicAuth()
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"id":"x","status":"subscribed"}`))
	}))
	defer srv.Close()

	c := New(Config{APIKey: "key-us21", AudienceID: "aud1", BaseURL: srv.URL}, zap.NewNop())
	if err := c.Subscribe(context.Background(), "John Doe", "John@Doe.com"); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if method != http.MethodPut {
		t.Errorf("method = %s, want PUT", method)
	}
	if want := "/lists/aud1/members/" + MemberHash("john@doe.com"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if pass != "key-us21" || user == "" {
		t.Errorf("basic auth = %q:%q", user, pass)
	}
	want := memberRequest{
		EmailAddress: "John@Doe.com",
		StatusIfNew:  "subscribed",
		MergeFields:  map[string]string{"FNAME": "John", "LNAME": "Doe"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}
}

func TestSubscribe_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"title":"Invalid Resource","detail":"looks fake"}`))
	}))
	defer srv.Close()

	c := New(Config{APIKey: "k", AudienceID: "a", BaseURL: srv.URL}, zap.NewNop())
	err := c.Subscribe(context.Background(), "John", "john@doe.com")

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 400 || apiErr.Title != "Invalid Resource" {
		t.Errorf("Subscribe() error = %v, want APIError 400", err)
	}
}

func TestSubscribe_NotConfigured(t *testing.T) {
	c := New(Config{}, zap.NewNop())
	if err := c.Subscribe(context.Background(), "John", "john@doe.com"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Subscribe() error = %v, want ErrNotConfigured", err)
	}
}

func TestNew_ServerFromKey(t *testing.T) {
	c := New(Config{APIKey: "abc123-us21"}, zap.NewNop())
	if c.baseURL != "https://us21.api.mailchimp.com/3.0" {
		t.Errorf("baseURL = %q", c.baseURL)
	}
}
