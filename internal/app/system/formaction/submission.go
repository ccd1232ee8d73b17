// internal/app/system/formaction/submission.go

// Package formaction runs a form post through the same three steps on every
// route: the spam gate, field validation, then exactly one call to the
// service that does the work. The outcome is a Result (redirect, success
// payload, or field errors) or an *Error for whole-form failures.
package formaction

import (
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/thedevbrian/folio/internal/app/system/formcheck"
)

// DefaultMaxMemory bounds the in-memory part of a multipart body.
const DefaultMaxMemory = 1 << 20

// Submission is the parsed body of one form post. It is read-only.
type Submission struct {
	form   string
	values url.Values
	files  map[string][]*multipart.FileHeader
}

// NewSubmission builds a Submission from already parsed values.
func NewSubmission(form string, values url.Values) Submission {
	return Submission{form: form, values: cloneValues(values)}
}

// Parse reads the request body once. Query-string parameters are not part
// of the submission.
func Parse(r *http.Request, form string) (Submission, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "multipart/form-data" {
		if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
			return Submission{}, fmt.Errorf("parse multipart form: %w", err)
		}
		s := Submission{form: form, values: cloneValues(r.MultipartForm.Value)}
		if len(r.MultipartForm.File) > 0 {
			s.files = r.MultipartForm.File
		}
		return s, nil
	}
	if err := r.ParseForm(); err != nil {
		return Submission{}, fmt.Errorf("parse form: %w", err)
	}
	return Submission{form: form, values: cloneValues(r.PostForm)}, nil
}

// Form names the form that produced the submission.
func (s Submission) Form() string {
	return s.form
}

// Field returns the first value of name, telling absent, text and file
// parts apart.
func (s Submission) Field(name string) formcheck.Input {
	if vals, ok := s.values[name]; ok && len(vals) > 0 {
		return formcheck.TextInput(vals[0])
	}
	if _, ok := s.files[name]; ok {
		return formcheck.FileInput()
	}
	return formcheck.Missing
}

// As returns the submission relabeled as form. Routes that carry several
// forms parse once and relabel after reading the discriminator field.
func (s Submission) As(form string) Submission {
	s.form = form
	return s
}

// Value returns the first text value of name, or "".
func (s Submission) Value(name string) string {
	return s.Field(name).String()
}

// Values returns a copy of the text values.
func (s Submission) Values() url.Values {
	return cloneValues(s.values)
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
