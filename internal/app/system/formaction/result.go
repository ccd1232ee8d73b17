// internal/app/system/formaction/result.go
package formaction

import (
	"net/http"

	"github.com/thedevbrian/folio/internal/app/system/formcheck"
)

// Kind is the terminal state of a form action that did not fail outright.
type Kind int

const (
	KindRedirect Kind = iota + 1
	KindSuccess
	KindBadRequest
)

func (k Kind) String() string {
	switch k {
	case KindRedirect:
		return "redirect"
	case KindSuccess:
		return "success"
	case KindBadRequest:
		return "bad_request"
	}
	return "unknown"
}

// Result is what a form action hands to the rendering layer.
type Result struct {
	Kind     Kind
	Status   int
	Location string // KindRedirect
	Data     any    // KindSuccess

	// KindBadRequest
	FieldErrors formcheck.FieldErrors
	Fields      map[string]string
}

// Redirect sends the client to location with 303 See Other.
func Redirect(location string) Result {
	return Result{Kind: KindRedirect, Status: http.StatusSeeOther, Location: location}
}

// Success returns data for the page to render as a confirmation.
func Success(data any) Result {
	return Result{Kind: KindSuccess, Status: http.StatusOK, Data: data}
}

// BadRequest reports field errors. The status is always 400. fields echoes
// submitted values so the form can be re-populated; pass nil when the form
// does not support that.
func BadRequest(fe formcheck.FieldErrors, fields map[string]string) Result {
	return Result{
		Kind:        KindBadRequest,
		Status:      http.StatusBadRequest,
		FieldErrors: fe,
		Fields:      fields,
	}
}
