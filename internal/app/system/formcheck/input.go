// internal/app/system/formcheck/input.go

// Package formcheck holds the field validators shared by every form on the
// site and the aggregator that collects their results into FieldErrors.
//
// Validators never return Go errors. A validator returns "" when the value
// is acceptable and a short, user-facing message otherwise.
package formcheck

// Input is a single raw form value as it arrived in the request.
type Input struct {
	Value   string
	Present bool // false when the field was not submitted at all
	Text    bool // false for file parts in a multipart body
}

// Missing is the Input for a field that was not submitted.
var Missing = Input{}

// TextInput wraps s as a submitted text value.
func TextInput(s string) Input {
	return Input{Value: s, Present: true, Text: true}
}

// FileInput is a field that arrived as a file part rather than text.
func FileInput() Input {
	return Input{Present: true}
}

// Empty reports whether the field is absent or an empty string.
// A file part is not empty; validators report it as "not a string".
func (in Input) Empty() bool {
	if !in.Present {
		return true
	}
	return in.Text && in.Value == ""
}

// String returns the text value, or "" for absent and non-text inputs.
func (in Input) String() string {
	if !in.Text {
		return ""
	}
	return in.Value
}
