package auth

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserFetcher loads the signed-in visitor on each request. It returns nil
// when the account is gone or no longer confirmed.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

// SessionUser is the signed-in visitor. ID is the account id that comments
// are stored against.
type SessionUser struct {
	ID    string
	Name  string // profile display name
	Email string
	Token string
}

// UserID parses ID. An invalid ID yields NilObjectID.
func (u *SessionUser) UserID() primitive.ObjectID {
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

type ctxKey struct{}

// CurrentUser returns the visitor put in context by LoadSessionUser.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(ctxKey{}).(*SessionUser)
	return u, ok
}

// WithTestUser returns r carrying u, as LoadSessionUser would.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey{}, u))
}

// LoadSessionUser puts the signed-in visitor in the request context. With a
// UserFetcher the account is re-read every request, and a session whose
// account has disappeared is cleared.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := sm.session(r)
		signedIn, _ := sess.Values[keyAuthenticated].(bool)
		userID := stringValue(sess, keyUserID)
		if !signedIn || userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		token := stringValue(sess, keyToken)
		if sm.userFetcher == nil {
			next.ServeHTTP(w, WithTestUser(r, &SessionUser{ID: userID, Token: token}))
			return
		}

		u := sm.userFetcher.FetchUser(r.Context(), userID)
		if u == nil {
			sm.log.Info("session cleared: account not found",
				zap.String("user_id", userID),
				zap.String("path", r.URL.Path))
			clearUser(sess)
			_ = sess.Save(r, w)
			next.ServeHTTP(w, r)
			return
		}
		u.Token = token
		next.ServeHTTP(w, WithTestUser(r, u))
	})
}
