// internal/app/features/signup/action.go
package signup

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/thedevbrian/folio/internal/app/store/accounts"
	userstore "github.com/thedevbrian/folio/internal/app/store/users"
	"github.com/thedevbrian/folio/internal/app/system/authutil"
	"github.com/thedevbrian/folio/internal/app/system/formaction"
	"github.com/thedevbrian/folio/internal/app/system/formcheck"
	"github.com/thedevbrian/folio/internal/app/system/mailer"
	"github.com/thedevbrian/folio/internal/app/system/timeouts"
	"github.com/thedevbrian/folio/internal/app/system/viewdata"
	"go.uber.org/zap"
)

const formSignup = "signup"

// Conflict messages.
const (
	MsgNameTaken  = "Name already in use. Please try another one."
	MsgEmailTaken = "Email already in use. Please log in instead."
)

// MsgCheckInbox is shown once the confirmation email is on its way.
const MsgCheckInbox = "Check your email inbox for a link to activate your account."

type signupInput struct {
	UserName formcheck.Input
	Email    formcheck.Input
	Password formcheck.Input
}

// The HTML input is "username"; errors and echoes use "userName".
func decodeSignup(sub formaction.Submission) signupInput {
	return signupInput{
		UserName: sub.Field("username"),
		Email:    sub.Field("email"),
		Password: sub.Field("password"),
	}
}

func validateSignup(in signupInput) (formcheck.FieldErrors, map[string]string) {
	pwMsg := formcheck.Password(in.Password)
	if pwMsg == "" {
		if err := authutil.ValidatePassword(in.Password.String()); err != nil {
			pwMsg = err.Error()
		}
	}
	fe := formcheck.Collect(
		formcheck.Field("userName", formcheck.Name(in.UserName)),
		formcheck.Field("email", formcheck.Email(in.Email)),
		formcheck.Field("password", pwMsg),
	)
	return fe, map[string]string{"userName": in.UserName.String(), "email": in.Email.String()}
}

func (h *Handler) action() formaction.Action[signupInput] {
	return formaction.Action[signupInput]{
		Name:     formSignup,
		Gate:     h.gate,
		Decode:   decodeSignup,
		Validate: validateSignup,
		Execute:  h.register,
	}
}

// register checks the display name, creates the account and profile, and
// sends the confirmation email. A profile failure removes the account so
// the email can be used again.
func (h *Handler) register(ctx context.Context, in signupInput) (formaction.Result, error) {
	name, email, password := in.UserName.String(), in.Email.String(), in.Password.String()

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), h.logger, "signup")
	defer cancel()

	names, err := h.profiles.ListDisplayNames(ctx)
	if err != nil {
		return formaction.Result{}, fmt.Errorf("list display names: %w", err)
	}
	if userstore.NameInUse(names, name) {
		return formaction.Result{}, formaction.Conflict(MsgNameTaken)
	}

	accountID, err := h.accounts.Create(ctx, email, password)
	if errors.Is(err, accounts.ErrEmailTaken) {
		return formaction.Result{}, formaction.Conflict(MsgEmailTaken)
	}
	if err != nil {
		return formaction.Result{}, fmt.Errorf("create account: %w", err)
	}

	if _, err := h.profiles.CreateProfile(ctx, name, email, accountID); err != nil {
		if delErr := h.accounts.Delete(ctx, accountID); delErr != nil {
			h.logger.Error("failed to roll back account after profile error",
				zap.String("account_id", accountID.Hex()), zap.Error(delErr))
		}
		if errors.Is(err, userstore.ErrNameTaken) {
			return formaction.Result{}, formaction.Conflict(MsgNameTaken)
		}
		return formaction.Result{}, fmt.Errorf("create profile: %w", err)
	}

	token, err := h.confirmations.Create(ctx, email, accountID)
	if err != nil {
		return formaction.Result{}, fmt.Errorf("create confirmation token: %w", err)
	}

	text, html := mailer.ConfirmSignupEmail(mailer.ConfirmSignupEmailData{
		AppName:    viewdata.SiteName,
		UserName:   name,
		ConfirmURL: h.ConfirmURL(token),
		ExpiryHrs:  int(h.confirmations.Expiry().Hours()),
	})
	if _, err := h.mail.Send(ctx, mailer.Email{
		To:       email,
		Subject:  mailer.ConfirmSubject,
		TextBody: text,
		HTMLBody: html,
	}); err != nil {
		return formaction.Result{}, fmt.Errorf("send confirmation email: %w", err)
	}

	h.logger.Info("account created", zap.String("account_id", accountID.Hex()))
	return formaction.Success(map[string]any{"id": accountID.Hex()}), nil
}

// ConfirmURL is the link mailed to a new account.
func (h *Handler) ConfirmURL(token string) string {
	q := url.Values{}
	q.Set("token_hash", token)
	q.Set("type", "email")
	q.Set("next", "/")
	return h.baseURL + "/auth/confirm?" + q.Encode()
}
