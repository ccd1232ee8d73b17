package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// cookieFault groups cookie decode failures by how loudly they are logged.
type cookieFault int

const (
	faultNone     cookieFault = iota
	faultExpired              // timestamp too old; routine
	faultTampered             // MAC mismatch
	faultCorrupt              // undecodable, or the key was rotated
	faultBackend              // not a decode error
)

func classifyCookieError(err error) cookieFault {
	if err == nil {
		return faultNone
	}
	var scErr securecookie.Error
	if !errors.As(err, &scErr) || !scErr.IsDecode() {
		return faultBackend
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "expired timestamp"):
		return faultExpired
	case strings.Contains(msg, "mac"), strings.Contains(msg, "hash"):
		return faultTampered
	default:
		return faultCorrupt
	}
}

func (sm *SessionManager) logDecodeError(r *http.Request, err error) {
	path := zap.String("path", r.URL.Path)
	switch classifyCookieError(err) {
	case faultExpired:
		sm.log.Debug("session expired", path)
	case faultTampered:
		sm.log.Warn("session MAC invalid", path,
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("user_agent", r.UserAgent()))
	case faultCorrupt:
		sm.log.Info("session undecodable, starting fresh", path, zap.Error(err))
	default:
		sm.log.Error("session store error", path, zap.Error(err))
	}
}
