// internal/app/features/login/action.go
package login

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/thedevbrian/folio/internal/app/store/accounts"
	"github.com/thedevbrian/folio/internal/app/system/authutil"
	"github.com/thedevbrian/folio/internal/app/system/formaction"
	"github.com/thedevbrian/folio/internal/app/system/formcheck"
	"github.com/thedevbrian/folio/internal/app/system/network"
	"github.com/thedevbrian/folio/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const formLogin = "login"

// Messages shown on the login form.
const (
	MsgLoggedIn           = "Logged in successfully!"
	MsgInvalidCredentials = "Invalid email or password"
	MsgNotConfirmed       = "Please confirm your email before logging in"
	MsgTooManyAttempts    = "Too many failed attempts. Please try again later."
)

type loginInput struct {
	Email     formcheck.Input
	Password  formcheck.Input
	ReturnURL string
}

func decodeLogin(sub formaction.Submission) loginInput {
	return loginInput{
		Email:     sub.Field("email"),
		Password:  sub.Field("password"),
		ReturnURL: sub.Value("return"),
	}
}

func validateLogin(in loginInput) (formcheck.FieldErrors, map[string]string) {
	fe := formcheck.Collect(
		formcheck.Field("email", formcheck.Email(in.Email)),
		formcheck.Field("password", formcheck.Password(in.Password)),
	)
	return fe, map[string]string{"email": in.Email.String()}
}

// action binds the pipeline to the response so Execute can set the
// session cookie.
func (h *Handler) action(w http.ResponseWriter, r *http.Request) formaction.Action[loginInput] {
	return formaction.Action[loginInput]{
		Name:     formLogin,
		Gate:     h.gate,
		Decode:   decodeLogin,
		Validate: validateLogin,
		Execute: func(ctx context.Context, in loginInput) (formaction.Result, error) {
			return h.signIn(ctx, w, r, in)
		},
	}
}

func (h *Handler) signIn(ctx context.Context, w http.ResponseWriter, r *http.Request, in loginInput) (formaction.Result, error) {
	email := in.Email.String()

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), h.logger, "login")
	defer cancel()

	if h.limiter != nil {
		if allowed, _, _ := h.limiter.CheckAllowed(ctx, email); !allowed {
			h.logger.Info("login blocked by lockout", zap.String("client_ip", network.ClientIP(r)))
			return formaction.Result{}, formaction.Conflict(MsgTooManyAttempts)
		}
	}

	acct, err := h.accounts.Authenticate(ctx, email, in.Password.String())
	switch {
	case errors.Is(err, accounts.ErrInvalidCredentials):
		return formaction.Result{}, h.recordFailure(ctx, email)
	case errors.Is(err, accounts.ErrNotConfirmed):
		return formaction.Result{}, formaction.Conflict(MsgNotConfirmed)
	case err != nil:
		return formaction.Result{}, fmt.Errorf("authenticate: %w", err)
	}

	if h.limiter != nil {
		if err := h.limiter.ClearOnSuccess(ctx, email); err != nil {
			h.logger.Warn("failed to clear login attempts", zap.Error(err))
		}
	}

	token, err := authutil.NewToken()
	if err != nil {
		return formaction.Result{}, fmt.Errorf("session token: %w", err)
	}
	if err := h.sessions.CreateSession(w, r, acct.ID, token); err != nil {
		return formaction.Result{}, fmt.Errorf("create session: %w", err)
	}
	if err := h.sessions.AddFlash(w, r, MsgLoggedIn); err != nil {
		h.logger.Warn("failed to queue login toast", zap.Error(err))
	}

	h.logger.Info("user logged in", zap.String("user_id", acct.ID.Hex()))
	return formaction.Redirect(urlutil.SafeReturn(in.ReturnURL, "", "/")), nil
}

// recordFailure counts a bad password and picks the message. The attempt
// that triggers the lockout already reports it.
func (h *Handler) recordFailure(ctx context.Context, email string) error {
	if h.limiter == nil {
		return formaction.Conflict(MsgInvalidCredentials)
	}
	lockedOut, _, err := h.limiter.RecordFailure(ctx, email)
	if err != nil {
		h.logger.Warn("failed to record login failure", zap.Error(err))
	}
	if lockedOut {
		return formaction.Conflict(MsgTooManyAttempts)
	}
	return formaction.Conflict(MsgInvalidCredentials)
}
