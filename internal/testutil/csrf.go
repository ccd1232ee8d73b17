package testutil

import (
	"context"
	"net/http"
)

// csrfTokenKey mirrors the context key name gorilla/csrf uses. Handlers only
// read the token through csrf.Token, which tolerates a missing value, so this
// exists to give rendered forms a non-empty hidden input.
const csrfTokenKey = "gorilla.csrf.Token"

// TestCSRFToken is the value WithCSRFToken stores.
const TestCSRFToken = "test-csrf-token-12345"

// WithCSRFToken adds a mock CSRF token to the request context.
//
//	req := testutil.WithCSRFToken(httptest.NewRequest(http.MethodGet, "/login", nil))
//	h.ServeLogin(rec, req)
func WithCSRFToken(r *http.Request) *http.Request {
	ctx := context.WithValue(r.Context(), csrfTokenKey, TestCSRFToken)
	return r.WithContext(ctx)
}

// NewAuthenticatedRequestWithCSRF creates a request carrying both a signed-in
// reader and a CSRF token, for pages that render the comment form.
func NewAuthenticatedRequestWithCSRF(method, target string, user TestUser) *http.Request {
	req := NewAuthenticatedRequest(method, target, user)
	return WithCSRFToken(req)
}
