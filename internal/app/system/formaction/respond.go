// internal/app/system/formaction/respond.go
package formaction

import (
	"errors"
	"net/http"
	"strings"

	"github.com/thedevbrian/folio/internal/app/system/formcheck"
	"github.com/thedevbrian/folio/internal/app/system/jsonutil"
	"github.com/thedevbrian/folio/internal/app/system/network"
	"go.uber.org/zap"
)

// View is what a page template needs to show the outcome of a post.
type View struct {
	FieldErrors formcheck.FieldErrors
	Fields      map[string]string
	Data        any
	Error       string // whole-form failure banner
	Success     bool
}

// Page re-renders a form page with status and the outcome of a post.
type Page func(w http.ResponseWriter, r *http.Request, status int, v View)

// Respond writes the outcome of Action.Run.
//
// Browsers (Accept: text/html or HTMX) get redirects and the page
// re-rendered through page. Other clients get JSON: the success payload,
// {"fieldErrors", "fields"} for field errors, or {"error"} for whole-form
// failures.
func Respond(w http.ResponseWriter, r *http.Request, res Result, err error, page Page, logger *zap.Logger) {
	html := page != nil && WantsHTML(r)

	if err != nil {
		var ae *Error
		if !errors.As(err, &ae) {
			logger.Error("form action failed",
				zap.Error(err),
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method))
			if html {
				page(w, r, http.StatusInternalServerError, View{Error: MsgUpstream})
				return
			}
			jsonutil.InternalError(w, "internal error")
			return
		}

		switch ae.Kind {
		case SpamRejection:
			logger.Info("form rejected as spam",
				zap.String("path", r.URL.Path),
				zap.String("reason", errString(ae.Err)),
				zap.String("client_ip", network.ClientIP(r)))
		case UpstreamFailure:
			logger.Error("upstream failure during form action",
				zap.Error(ae.Err),
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method))
		default:
			logger.Debug("form action conflict",
				zap.String("path", r.URL.Path),
				zap.String("message", ae.Message))
		}

		if html {
			page(w, r, ae.Status, View{Error: ae.Message})
			return
		}
		jsonutil.Error(w, ae.Status, ae.Message)
		return
	}

	switch res.Kind {
	case KindRedirect:
		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Redirect", res.Location)
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Redirect(w, r, res.Location, http.StatusSeeOther)
	case KindBadRequest:
		if html {
			page(w, r, http.StatusBadRequest, View{FieldErrors: res.FieldErrors, Fields: res.Fields})
			return
		}
		jsonutil.FieldErrors(w, res.FieldErrors, res.Fields)
	default:
		if html {
			page(w, r, http.StatusOK, View{Data: res.Data, Success: true})
			return
		}
		jsonutil.OK(w, res.Data)
	}
}

// WantsHTML reports whether the client expects a page rather than JSON.
func WantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
