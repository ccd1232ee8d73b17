// internal/app/features/authconfirm/authconfirm.go
package authconfirm

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"github.com/thedevbrian/folio/internal/app/store/emailverify"
	"github.com/thedevbrian/folio/internal/app/system/authutil"
	"github.com/thedevbrian/folio/internal/app/system/timeouts"
	"github.com/thedevbrian/folio/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrorPath is where failed confirmations land.
const ErrorPath = "/auth/auth-code-error"

// Verifications consumes one-time confirmation tokens.
// *emailverify.Store implements it.
type Verifications interface {
	Consume(ctx context.Context, token string) (*emailverify.Verification, error)
}

// Confirmer marks an account's email as verified. *accounts.Store implements it.
type Confirmer interface {
	Confirm(ctx context.Context, id primitive.ObjectID) error
}

// Sessions signs the visitor in. *auth.SessionManager implements it.
type Sessions interface {
	CreateSession(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID, token string) error
}

// Handler provides the confirmation link handlers.
type Handler struct {
	verifications Verifications
	accounts      Confirmer
	sessions      Sessions
	logger        *zap.Logger
}

// NewHandler creates a new authconfirm Handler.
func NewHandler(verifications Verifications, accounts Confirmer, sessions Sessions, logger *zap.Logger) *Handler {
	return &Handler{
		verifications: verifications,
		accounts:      accounts,
		sessions:      sessions,
		logger:        logger,
	}
}

// Routes returns a chi.Router with the /auth routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/confirm", h.confirm)
	r.Get("/auth-code-error", h.codeError)
	return r
}

// confirm handles GET /auth/confirm?token_hash=...&type=email&next=/.
// Any failure sends the visitor to the error page; the reason is only logged.
func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	token := query.Get(r, "token_hash")
	typ := query.Get(r, "type")
	next := urlutil.SafeReturn(query.Get(r, "next"), "", "/")

	if token == "" || (typ != emailverify.TypeEmail && typ != emailverify.TypeSignup) {
		h.logger.Info("confirm link missing token or type", zap.String("type", typ))
		http.Redirect(w, r, ErrorPath, http.StatusSeeOther)
		return
	}

	if err := h.verify(w, r, token); err != nil {
		if errors.Is(err, emailverify.ErrInvalidToken) {
			h.logger.Info("confirm link rejected", zap.Error(err))
		} else {
			h.logger.Error("confirm link failed", zap.Error(err))
		}
		http.Redirect(w, r, ErrorPath, http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request, token string) error {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "confirm email")
	defer cancel()

	v, err := h.verifications.Consume(ctx, token)
	if err != nil {
		return err
	}
	if err := h.accounts.Confirm(ctx, v.AccountID); err != nil {
		return err
	}

	sessionToken, err := authutil.NewToken()
	if err != nil {
		return err
	}
	if err := h.sessions.CreateSession(w, r, v.AccountID, sessionToken); err != nil {
		return err
	}

	h.logger.Info("email confirmed", zap.String("account_id", v.AccountID.Hex()))
	return nil
}

type errorVM struct {
	viewdata.BaseVM
}

func (h *Handler) codeError(w http.ResponseWriter, r *http.Request) {
	vm := errorVM{BaseVM: viewdata.New(r)}
	vm.Title = "Link expired"
	templates.Render(w, r, "authconfirm/error", vm)
}
