package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testKey = "xK8nP2mQ9rT5vW7yB3cF6hJ0lN4sU1wZ"

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	sm, err := NewSessionManager(testKey, "", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager() error = %v", err)
	}
	return sm
}

// carryCookies copies the cookies set on rec onto a fresh request.
func carryCookies(rec *httptest.ResponseRecorder, method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

type fakeFetcher struct {
	users map[string]*SessionUser
}

func (f fakeFetcher) FetchUser(_ context.Context, id string) *SessionUser {
	u, ok := f.users[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

func TestNewSessionManager(t *testing.T) {
	tests := []struct {
		name       string
		sessionKey string
		secure     bool
		wantErr    bool
	}{
		{"valid key dev mode", testKey, false, false},
		{"valid key prod mode", testKey, true, false},
		{"empty key", "", false, true},
		{"weak key dev mode", "short", false, false},
		{"weak key prod mode", "short", true, true},
		{"default key prod mode", "dev-only-session-key-not-for-production", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm, err := NewSessionManager(tt.sessionKey, "test-session", "", time.Hour, tt.secure, zap.NewNop())
			if tt.wantErr {
				if err == nil {
					t.Error("NewSessionManager() expected error, got nil")
				}
				return
			}
			if err != nil || sm == nil {
				t.Errorf("NewSessionManager() = %v, %v", sm, err)
			}
		})
	}
}

func TestSessionManager_SessionName(t *testing.T) {
	sm := newTestManager(t)
	if sm.SessionName() != DefaultSessionName {
		t.Errorf("SessionName() = %q, want %q", sm.SessionName(), DefaultSessionName)
	}
}

func TestCurrentUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if u, ok := CurrentUser(req); ok || u != nil {
		t.Errorf("CurrentUser() = %v, %v for anonymous request", u, ok)
	}

	want := &SessionUser{ID: primitive.NewObjectID().Hex(), Name: "john", Email: "john@doe.com"}
	u, ok := CurrentUser(WithTestUser(req, want))
	if !ok || u != want {
		t.Errorf("CurrentUser() = %v, %v, want %v", u, ok, want)
	}
}

func TestSessionUser_UserID(t *testing.T) {
	oid := primitive.NewObjectID()
	if got := (&SessionUser{ID: oid.Hex()}).UserID(); got != oid {
		t.Errorf("UserID() = %v, want %v", got, oid)
	}
	if got := (&SessionUser{ID: "bad"}).UserID(); got != primitive.NilObjectID {
		t.Errorf("UserID() = %v, want NilObjectID", got)
	}
}

func TestCreateSession_LoadSessionUser(t *testing.T) {
	sm := newTestManager(t)
	oid := primitive.NewObjectID()
	sm.SetUserFetcher(fakeFetcher{users: map[string]*SessionUser{
		oid.Hex(): {ID: oid.Hex(), Name: "john", Email: "john@doe.com"},
	}})

	rec := httptest.NewRecorder()
	if err := sm.CreateSession(rec, httptest.NewRequest(http.MethodPost, "/login", nil), oid, "tok"); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	var got *SessionUser
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	}))
	h.ServeHTTP(httptest.NewRecorder(), carryCookies(rec, http.MethodGet, "/"))

	if got == nil {
		t.Fatal("LoadSessionUser() did not inject user")
	}
	if got.Name != "john" || got.Token != "tok" {
		t.Errorf("user = %+v, want name john token tok", got)
	}
}

func TestLoadSessionUser_UnknownUserClearsSession(t *testing.T) {
	sm := newTestManager(t)
	sm.SetUserFetcher(fakeFetcher{})

	rec := httptest.NewRecorder()
	_ = sm.CreateSession(rec, httptest.NewRequest(http.MethodPost, "/login", nil), primitive.NewObjectID(), "tok")

	found := true
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = CurrentUser(r)
	}))
	h.ServeHTTP(httptest.NewRecorder(), carryCookies(rec, http.MethodGet, "/"))

	if found {
		t.Error("LoadSessionUser() injected a user the fetcher did not return")
	}
}

func TestLoadSessionUser_Anonymous(t *testing.T) {
	sm := newTestManager(t)
	called := false
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := CurrentUser(r); ok {
			t.Error("anonymous request has a user")
		}
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if !called {
		t.Error("next handler not called")
	}
}

func TestDestroySession(t *testing.T) {
	sm := newTestManager(t)
	rec := httptest.NewRecorder()
	_ = sm.CreateSession(rec, httptest.NewRequest(http.MethodPost, "/login", nil), primitive.NewObjectID(), "tok")

	out := httptest.NewRecorder()
	sm.DestroySession(out, carryCookies(rec, http.MethodPost, "/logout"))

	cookies := out.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("DestroySession() cookies = %+v, want one expired cookie", cookies)
	}
}

func TestFlash_ShownOnce(t *testing.T) {
	sm := newTestManager(t)

	rec := httptest.NewRecorder()
	if err := sm.AddFlash(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "Logged in successfully!"); err != nil {
		t.Fatalf("AddFlash() error = %v", err)
	}

	first := httptest.NewRecorder()
	if got := sm.PopFlash(first, carryCookies(rec, http.MethodGet, "/")); got != "Logged in successfully!" {
		t.Errorf("PopFlash() = %q, want the toast", got)
	}

	second := httptest.NewRecorder()
	if got := sm.PopFlash(second, carryCookies(first, http.MethodGet, "/")); got != "" {
		t.Errorf("PopFlash() second read = %q, want empty", got)
	}
}

func TestPopFlash_Empty(t *testing.T) {
	sm := newTestManager(t)
	rec := httptest.NewRecorder()
	if got := sm.PopFlash(rec, httptest.NewRequest(http.MethodGet, "/", nil)); got != "" {
		t.Errorf("PopFlash() = %q, want empty", got)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("PopFlash() with nothing queued should not write a cookie")
	}
}

func TestIsDefaultKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"dev-only-key", true},
		{"change-me-please", true},
		{"placeholder-key", true},
		{"default-session-key", true},
		{"example-key-here", true},
		{"insecure-dev-key", true},
		{"test-key-123", true},
		{"secret123", true},
		{"password123", true},
		{testKey, false},
		{"secure-random-key-that-is-long-enough", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := isDefaultKey(tt.key); got != tt.want {
				t.Errorf("isDefaultKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestClassifyCookieError(t *testing.T) {
	tests := []struct {
		name     string
		errMsg   string
		isDecode bool
		want     cookieFault
	}{
		{"expired", "expired timestamp", true, faultExpired},
		{"mac invalid", "the value is not valid: mac", true, faultTampered},
		{"hash invalid", "hash mismatch", true, faultTampered},
		{"decrypt failed", "decrypt error", true, faultCorrupt},
		{"base64 error", "base64 decode failed", true, faultCorrupt},
		{"backend", "backend error", false, faultBackend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyCookieError(fakeCookieError{msg: tt.errMsg, decode: tt.isDecode}); got != tt.want {
				t.Errorf("classifyCookieError() = %v, want %v", got, tt.want)
			}
		})
	}
	if got := classifyCookieError(nil); got != faultNone {
		t.Errorf("classifyCookieError(nil) = %v, want faultNone", got)
	}
	if got := classifyCookieError(errors.New("disk full")); got != faultBackend {
		t.Errorf("classifyCookieError(plain) = %v, want faultBackend", got)
	}
}

type fakeCookieError struct {
	msg    string
	decode bool
}

func (e fakeCookieError) Error() string    { return e.msg }
func (e fakeCookieError) IsDecode() bool   { return e.decode }
func (e fakeCookieError) IsUsage() bool    { return false }
func (e fakeCookieError) IsInternal() bool { return false }
func (e fakeCookieError) Cause() error     { return nil }

func TestLoadSessionUser_GarbageCookie(t *testing.T) {
	sm := newTestManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultSessionName, Value: "not-a-signed-value"})

	called := false
	h := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := CurrentUser(r); ok {
			t.Error("garbage cookie produced a user")
		}
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !called {
		t.Error("next handler not called")
	}
}
