package auth

import (
	"net/http"

	"go.uber.org/zap"
)

// AddFlash queues a toast for the next page the visitor sees.
func (sm *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, msg string) error {
	sess := sm.session(r)
	sess.AddFlash(msg, keyToast)
	return sess.Save(r, w)
}

// PopFlash returns the queued toast and clears it in the same response, so
// a toast is shown at most once. Nothing is written when none is queued.
func (sm *SessionManager) PopFlash(w http.ResponseWriter, r *http.Request) string {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		return ""
	}
	flashes := sess.Flashes(keyToast)
	if len(flashes) == 0 {
		return ""
	}
	if err := sess.Save(r, w); err != nil {
		sm.log.Warn("clear flash failed", zap.Error(err))
	}
	msg, _ := flashes[len(flashes)-1].(string)
	return msg
}
