// internal/app/features/home/forms.go
package home

import (
	"context"
	"errors"

	"github.com/thedevbrian/folio/internal/app/system/formaction"
	"github.com/thedevbrian/folio/internal/app/system/formcheck"
	"github.com/thedevbrian/folio/internal/app/system/mailer"
	"github.com/thedevbrian/folio/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const (
	formContact   = "contact"
	formSubscribe = "subscribe"

	// MsgUnknownAction is returned for a post with an unrecognized _action.
	MsgUnknownAction = "Unknown action"
)

type contactInput struct {
	Name    formcheck.Input
	Phone   string // normalized
	Email   formcheck.Input
	Message formcheck.Input
}

func decodeContact(sub formaction.Submission) contactInput {
	return contactInput{
		Name:    sub.Field("name"),
		Phone:   formcheck.NormalizePhone(sub.Value("phone")),
		Email:   sub.Field("email"),
		Message: sub.Field("message"),
	}
}

func validateContact(in contactInput) (formcheck.FieldErrors, map[string]string) {
	fe := formcheck.Collect(
		formcheck.Field("name", formcheck.Name(in.Name)),
		formcheck.Field("phone", formcheck.Phone(in.Phone)),
		formcheck.Field("email", formcheck.Email(in.Email)),
		formcheck.Field("message", formcheck.Message(in.Message)),
	)
	fields := map[string]string{
		"name":    in.Name.String(),
		"email":   in.Email.String(),
		"message": in.Message.String(),
	}
	return fe, fields
}

func (h *Handler) contactAction() formaction.Action[contactInput] {
	return formaction.Action[contactInput]{
		Name:     formContact,
		Gate:     h.gate,
		Decode:   decodeContact,
		Validate: validateContact,
		Execute:  h.sendContact,
	}
}

func (h *Handler) sendContact(ctx context.Context, in contactInput) (formaction.Result, error) {
	text, html := mailer.ContactEmail(mailer.ContactEmailData{
		Name:    in.Name.String(),
		Email:   in.Email.String(),
		Phone:   in.Phone,
		Message: in.Message.String(),
	})

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), h.logger, "send contact email")
	defer cancel()

	id, err := h.mail.Send(ctx, mailer.Email{
		To:       h.contactTo,
		ReplyTo:  in.Email.String(),
		Subject:  mailer.ContactSubject,
		TextBody: text,
		HTMLBody: html,
	})
	if err != nil {
		return formaction.Result{}, err
	}
	if id == "" {
		return formaction.Result{}, formaction.Upstream(errors.New("mail provider returned no message id"))
	}
	h.logger.Info("contact message sent", zap.String("message_id", id))
	return formaction.Redirect("/success"), nil
}

type subscribeInput struct {
	Name  formcheck.Input
	Email formcheck.Input
}

func decodeSubscribe(sub formaction.Submission) subscribeInput {
	return subscribeInput{Name: sub.Field("name"), Email: sub.Field("email")}
}

func validateSubscribe(in subscribeInput) (formcheck.FieldErrors, map[string]string) {
	fe := formcheck.Collect(
		formcheck.Field("name", formcheck.Name(in.Name)),
		formcheck.Field("email", formcheck.Email(in.Email)),
	)
	return fe, map[string]string{"name": in.Name.String(), "email": in.Email.String()}
}

func (h *Handler) subscribeAction() formaction.Action[subscribeInput] {
	return formaction.Action[subscribeInput]{
		Name:     formSubscribe,
		Gate:     h.gate,
		Decode:   decodeSubscribe,
		Validate: validateSubscribe,
		Execute:  h.subscribe,
	}
}

func (h *Handler) subscribe(ctx context.Context, in subscribeInput) (formaction.Result, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), h.logger, "newsletter subscribe")
	defer cancel()

	if err := h.news.Subscribe(ctx, in.Name.String(), in.Email.String()); err != nil {
		return formaction.Result{}, err
	}
	return formaction.Success(map[string]any{"ok": true}), nil
}
