// internal/app/features/errors/errors.go

// Package errors renders the site's error pages.
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/thedevbrian/folio/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// Handler renders error pages. Upstream also logs the cause.
type Handler struct {
	logger *zap.Logger
}

// NewHandler creates a new error Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

type errorVM struct {
	viewdata.BaseVM
	Message string
}

func render(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	vm := errorVM{BaseVM: viewdata.New(r), Message: message}
	vm.Title = title

	w.WriteHeader(status)
	templates.Render(w, r, "errors/error", vm)
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusNotFound, "Not Found", "We couldn't find the page you were looking for.")
}

// MethodNotAllowed renders the 405 page.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusMethodNotAllowed, "Method Not Allowed", "That action isn't supported here.")
}

// Upstream logs err with the request's method, path and id, then renders
// the 502 page shown when a hosted service or the database fails while
// building a page.
func (h *Handler) Upstream(w http.ResponseWriter, r *http.Request, msg string, err error, fields ...zap.Field) {
	all := append([]zap.Field{
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}, fields...)
	if id := middleware.GetReqID(r.Context()); id != "" {
		all = append(all, zap.String("request_id", id))
	}
	h.logger.Error(msg, all...)

	render(w, r, http.StatusBadGateway, "Temporarily Unavailable", "Something went wrong on our side. Please try again.")
}
