// internal/app/system/formcheck/fielderrors.go
package formcheck

// FieldErrors maps each validated field to its message. Valid fields are
// present with an empty message, so templates can index any declared field.
type FieldErrors map[string]string

// Check is one field's validator result.
type Check struct {
	Field   string
	Message string
}

// Field pairs a field name with its validator result.
func Field(name, message string) Check {
	return Check{Field: name, Message: message}
}

// Collect builds FieldErrors from the checks of one form.
func Collect(checks ...Check) FieldErrors {
	fe := make(FieldErrors, len(checks))
	for _, c := range checks {
		fe[c.Field] = c.Message
	}
	return fe
}

// HasErrors reports whether at least one field holds a message.
func (fe FieldErrors) HasErrors() bool {
	for _, msg := range fe {
		if msg != "" {
			return true
		}
	}
	return false
}

// Invalid returns only the fields that failed.
func (fe FieldErrors) Invalid() map[string]string {
	out := make(map[string]string)
	for k, msg := range fe {
		if msg != "" {
			out[k] = msg
		}
	}
	return out
}
