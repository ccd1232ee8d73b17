// internal/app/system/auth/session.go

// Package auth keeps the signed-in visitor and the one-shot toast in a
// signed gorilla session cookie.
package auth

import (
	"encoding/gob"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DefaultSessionName is the cookie name used when none is configured.
const DefaultSessionName = "__3r14n_session"

// session value keys
const (
	keyAuthenticated = "is_authenticated"
	keyUserID        = "user_id"
	keyToken         = "session_token"
	keyToast         = "toast"
)

func init() {
	// flashes are stored as []interface{}
	gob.Register([]interface{}{})
}

// weakKeyMarkers flag placeholder keys copied from sample configs.
var weakKeyMarkers = []string{
	"dev-only", "change-me", "placeholder", "default", "example",
	"insecure", "test-key", "secret123", "password",
}

// SessionConfigError is returned by NewSessionManager for an unusable key.
type SessionConfigError struct {
	Message string
}

func (e *SessionConfigError) Error() string { return e.Message }

// SessionManager owns the cookie store. All handlers share one instance.
type SessionManager struct {
	store       *sessions.CookieStore
	name        string
	log         *zap.Logger
	userFetcher UserFetcher
}

// NewSessionManager builds the cookie store. With secure set (production),
// a short or placeholder key is an error; otherwise it is only logged.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, log *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, &SessionConfigError{Message: "session key is empty; provide ≥32 random chars"}
	}
	if weak := len(sessionKey) < 32 || isDefaultKey(sessionKey); weak {
		if secure {
			return nil, &SessionConfigError{Message: "session key is too weak for production; provide ≥32 random chars"}
		}
		log.Warn("session key is weak; 32+ random chars required in production", zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = DefaultSessionName
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	log.Info("session manager ready", zap.String("name", name), zap.Bool("secure", secure))

	return &SessionManager{store: store, name: name, log: log}, nil
}

// SessionName returns the cookie name.
func (sm *SessionManager) SessionName() string { return sm.name }

// SetUserFetcher installs the lookup used by LoadSessionUser. Call it once
// the database is connected.
func (sm *SessionManager) SetUserFetcher(uf UserFetcher) { sm.userFetcher = uf }

// session returns the request's session, or a fresh one when the cookie
// cannot be decoded.
func (sm *SessionManager) session(r *http.Request) *sessions.Session {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		sm.logDecodeError(r, err)
		sess, _ = sm.store.New(r, sm.name)
	}
	return sess
}

// CreateSession marks the visitor as signed in as userID. token identifies
// this sign-in.
func (sm *SessionManager) CreateSession(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID, token string) error {
	sess := sm.session(r)
	sess.Values[keyAuthenticated] = true
	sess.Values[keyUserID] = userID.Hex()
	sess.Values[keyToken] = token
	return sess.Save(r, w)
}

// DestroySession signs the visitor out and expires the cookie.
func (sm *SessionManager) DestroySession(w http.ResponseWriter, r *http.Request) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		return
	}
	clearUser(sess)
	sess.Options.MaxAge = -1
	_ = sess.Save(r, w)
}

func clearUser(sess *sessions.Session) {
	sess.Values[keyAuthenticated] = false
	delete(sess.Values, keyUserID)
	delete(sess.Values, keyToken)
}

func stringValue(sess *sessions.Session, key string) string {
	s, _ := sess.Values[key].(string)
	return s
}

func isDefaultKey(key string) bool {
	lower := strings.ToLower(key)
	for _, m := range weakKeyMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
