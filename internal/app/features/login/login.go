// internal/app/features/login/login.go
package login

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/thedevbrian/folio/internal/app/system/formaction"
	"github.com/thedevbrian/folio/internal/app/system/honeypot"
	"github.com/thedevbrian/folio/internal/app/system/viewdata"
	"github.com/thedevbrian/folio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Authenticator checks credentials. *accounts.Store implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.Account, error)
}

// Limiter tracks failed logins per email. *ratelimit.Store implements it.
type Limiter interface {
	CheckAllowed(ctx context.Context, email string) (allowed bool, remaining int, lockedUntil *time.Time)
	RecordFailure(ctx context.Context, email string) (lockedOut bool, lockedUntil *time.Time, err error)
	ClearOnSuccess(ctx context.Context, email string) error
}

// Sessions signs a visitor in and queues the toast.
// *auth.SessionManager implements it.
type Sessions interface {
	CreateSession(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID, token string) error
	AddFlash(w http.ResponseWriter, r *http.Request, msg string) error
}

// SpamGate checks posts and supplies the hidden inputs forms render.
type SpamGate interface {
	formaction.Gate
	Props() (honeypot.Props, error)
}

// Handler provides login handlers.
type Handler struct {
	accounts Authenticator
	limiter  Limiter // nil disables lockout
	sessions Sessions
	gate     SpamGate
	logger   *zap.Logger
}

// NewHandler creates a new login Handler. limiter may be nil.
func NewHandler(accounts Authenticator, limiter Limiter, sessions Sessions, gate SpamGate, logger *zap.Logger) *Handler {
	return &Handler{
		accounts: accounts,
		limiter:  limiter,
		sessions: sessions,
		gate:     gate,
		logger:   logger,
	}
}

// LoginVM is the view model for the login page.
type LoginVM struct {
	viewdata.BaseVM
	Honeypot  honeypot.Props
	Form      formaction.View
	ReturnURL string
}

// Routes returns a chi.Router with login routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.showLogin)
	r.Post("/", h.handleLogin)
	return r
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	vm := LoginVM{BaseVM: viewdata.NewWithToast(w, r), ReturnURL: query.Get(r, "return")}
	h.render(w, r, http.StatusOK, vm)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	sub, err := formaction.Parse(r, formLogin)
	if err != nil {
		h.logger.Info("unreadable login form body", zap.Error(err))
		formaction.Respond(w, r, formaction.Result{}, formaction.Spam(err), nil, h.logger)
		return
	}
	res, err := h.action(w, r).Run(r.Context(), sub)
	formaction.Respond(w, r, res, err, h.page(sub.Value("return")), h.logger)
}

func (h *Handler) page(returnURL string) formaction.Page {
	return func(w http.ResponseWriter, r *http.Request, status int, v formaction.View) {
		vm := LoginVM{BaseVM: viewdata.New(r), Form: v, ReturnURL: returnURL}
		h.render(w, r, status, vm)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, vm LoginVM) {
	props, err := h.gate.Props()
	if err != nil {
		h.logger.Error("failed to build honeypot props", zap.Error(err))
	}
	vm.Honeypot = props
	vm.Title = "Login"

	w.WriteHeader(status)
	templates.Render(w, r, "login/index", vm)
}
