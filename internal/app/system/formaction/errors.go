// internal/app/system/formaction/errors.go
package formaction

import "net/http"

// ErrorKind classifies whole-form failures.
type ErrorKind int

const (
	// SpamRejection is a post the honeypot gate flagged as automated.
	SpamRejection ErrorKind = iota + 1
	// BusinessConflict is a rule violation found after validation passed,
	// such as a name already in use.
	BusinessConflict
	// UpstreamFailure is an error from a hosted service or the database.
	UpstreamFailure
)

// Client-facing messages for whole-form failures.
const (
	MsgSpam     = "Form not submitted properly"
	MsgUpstream = "Something went wrong on our side. Please try again."
)

// Error is a whole-form failure. It never carries field errors.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string // shown to the client
	Err     error  // logged, never shown
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Spam wraps a gate rejection as a generic 400.
func Spam(reason error) *Error {
	return &Error{Kind: SpamRejection, Status: http.StatusBadRequest, Message: MsgSpam, Err: reason}
}

// Conflict is a 400 with a specific message for the client.
func Conflict(message string) *Error {
	return &Error{Kind: BusinessConflict, Status: http.StatusBadRequest, Message: message}
}

// Upstream wraps a collaborator error as a 502.
func Upstream(err error) *Error {
	return &Error{Kind: UpstreamFailure, Status: http.StatusBadGateway, Message: MsgUpstream, Err: err}
}
