// internal/app/system/formaction/action.go
package formaction

import (
	"context"
	"errors"
	"net/url"

	"github.com/thedevbrian/folio/internal/app/system/formcheck"
	"github.com/thedevbrian/folio/internal/app/system/honeypot"
	"github.com/thedevbrian/folio/internal/app/system/metrics"
)

// Gate is the spam check run before anything else.
// *honeypot.Gate implements it.
type Gate interface {
	Check(form url.Values) error
}

// Action is one form's pipeline. T is the form's typed input, decoded once
// from the Submission so Validate and Execute work on known fields.
type Action[T any] struct {
	Name string
	Gate Gate // nil skips the spam check

	Decode func(Submission) T

	// Validate normalizes and checks fields. It returns the errors for every
	// declared field and the values to echo back on failure.
	Validate func(T) (formcheck.FieldErrors, map[string]string)

	// Execute makes the single call that does the work. Returning an *Error
	// selects the failure; any other error is reported as an upstream
	// failure.
	Execute func(context.Context, T) (Result, error)
}

// Run takes the submission through gate, validation, and execution.
// Execute is called at most once, and only when the gate and every
// validator pass.
func (a Action[T]) Run(ctx context.Context, sub Submission) (Result, error) {
	res, err := a.run(ctx, sub)
	metrics.ObserveForm(a.Name, Outcome(res, err))
	return res, err
}

func (a Action[T]) run(ctx context.Context, sub Submission) (Result, error) {
	if err := Screen(a.Gate, sub.Values()); err != nil {
		return Result{}, err
	}

	in := a.Decode(sub)

	if a.Validate != nil {
		fe, fields := a.Validate(in)
		if fe.HasErrors() {
			return BadRequest(fe, fields), nil
		}
	}

	res, err := a.Execute(ctx, in)
	if err != nil {
		var ae *Error
		if errors.As(err, &ae) {
			return Result{}, ae
		}
		return Result{}, Upstream(err)
	}
	return res, nil
}

// Screen runs g over the posted values. A spam verdict comes back as a
// Spam error; any other gate error is returned unchanged. A nil g passes.
func Screen(g Gate, form url.Values) error {
	if g == nil {
		return nil
	}
	if err := g.Check(form); err != nil {
		if errors.Is(err, honeypot.ErrSpam) {
			return Spam(err)
		}
		return err
	}
	return nil
}

// Outcome names the terminal state for metrics and logs.
func Outcome(res Result, err error) string {
	if err != nil {
		var ae *Error
		if !errors.As(err, &ae) {
			return metrics.OutcomeError
		}
		switch ae.Kind {
		case SpamRejection:
			return metrics.OutcomeSpam
		case BusinessConflict:
			return metrics.OutcomeConflict
		default:
			return metrics.OutcomeUpstream
		}
	}
	switch res.Kind {
	case KindRedirect:
		return metrics.OutcomeRedirect
	case KindBadRequest:
		return metrics.OutcomeBadRequest
	}
	return metrics.OutcomeSuccess
}
