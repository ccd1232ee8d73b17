// internal/app/features/signup/signup.go
package signup

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/thedevbrian/folio/internal/app/system/formaction"
	"github.com/thedevbrian/folio/internal/app/system/honeypot"
	"github.com/thedevbrian/folio/internal/app/system/mailer"
	"github.com/thedevbrian/folio/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Accounts creates credentials. *accounts.Store implements it.
type Accounts interface {
	Create(ctx context.Context, email, password string) (primitive.ObjectID, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Profiles stores display names. *userstore.Store implements it.
type Profiles interface {
	ListDisplayNames(ctx context.Context) ([]string, error)
	CreateProfile(ctx context.Context, name, email string, accountID primitive.ObjectID) (primitive.ObjectID, error)
}

// Confirmations issues one-time email confirmation tokens.
// *emailverify.Store implements it.
type Confirmations interface {
	Create(ctx context.Context, email string, accountID primitive.ObjectID) (string, error)
	Expiry() time.Duration
}

// SpamGate checks posts and supplies the hidden inputs forms render.
type SpamGate interface {
	formaction.Gate
	Props() (honeypot.Props, error)
}

// Handler provides signup handlers.
type Handler struct {
	accounts      Accounts
	profiles      Profiles
	confirmations Confirmations
	mail          mailer.Sender
	gate          SpamGate
	baseURL       string
	logger        *zap.Logger
}

// NewHandler creates a new signup Handler. baseURL is the public origin
// used in confirmation links.
func NewHandler(
	accounts Accounts,
	profiles Profiles,
	confirmations Confirmations,
	mail mailer.Sender,
	gate SpamGate,
	baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		accounts:      accounts,
		profiles:      profiles,
		confirmations: confirmations,
		mail:          mail,
		gate:          gate,
		baseURL:       strings.TrimRight(baseURL, "/"),
		logger:        logger,
	}
}

// SignupVM is the view model for the signup page.
type SignupVM struct {
	viewdata.BaseVM
	Honeypot honeypot.Props
	Form     formaction.View
	Notice   string
}

// Routes returns a chi.Router with signup routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.Show)
	r.Post("/", h.Post)
	return r
}

// Show renders the empty signup form.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, http.StatusOK, formaction.View{})
}

// Post creates the account and emails the confirmation link.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	sub, err := formaction.Parse(r, formSignup)
	if err != nil {
		h.logger.Info("unreadable signup form body", zap.Error(err))
		formaction.Respond(w, r, formaction.Result{}, formaction.Spam(err), nil, h.logger)
		return
	}
	res, err := h.action().Run(r.Context(), sub)
	formaction.Respond(w, r, res, err, h.page, h.logger)
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request, status int, v formaction.View) {
	vm := SignupVM{BaseVM: viewdata.New(r), Form: v}
	vm.Title = "Sign up"
	if v.Success {
		vm.Notice = MsgCheckInbox
	}

	props, err := h.gate.Props()
	if err != nil {
		h.logger.Error("failed to build honeypot props", zap.Error(err))
	}
	vm.Honeypot = props

	w.WriteHeader(status)
	templates.Render(w, r, "signup/index", vm)
}
