// internal/app/system/formcheck/validators.go
package formcheck

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Length rules.
const (
	MinNameLength = 2

	MinPasswordLength = 6

	// MaxPasswordLength is the bcrypt input limit in bytes.
	MaxPasswordLength = 72

	// minEmailLength counts UTF-16 code units, so a character outside the
	// BMP counts twice.
	minEmailLength = 4
)

// Validation messages.
const (
	MsgNameEmpty     = "Name cannot be empty"
	MsgNameNotString = "Name must be a string"
	MsgNameTooShort  = "Name must be at least two characters long"

	MsgEmailEmpty   = "Email cannot be empty"
	MsgEmailInvalid = "Invalid email"

	MsgMessageEmpty     = "Message cannot be empty"
	MsgMessageNotString = "Message must be a string"

	MsgPhoneInvalid = "Phone number is invalid"

	MsgPasswordEmpty     = "Password cannot be empty"
	MsgPasswordNotString = "Password must be a string"
)

// MsgPasswordTooShort and MsgPasswordTooLong are derived from the length rules.
var (
	MsgPasswordTooShort = "Password must be at least " + strconv.Itoa(MinPasswordLength) + " characters long"
	MsgPasswordTooLong  = "Password must be at most " + strconv.Itoa(MaxPasswordLength) + " characters long"
)

// Name validates a display name.
func Name(in Input) string {
	switch {
	case in.Empty():
		return MsgNameEmpty
	case !in.Text:
		return MsgNameNotString
	case utf8.RuneCountInString(in.Value) < MinNameLength:
		return MsgNameTooShort
	}
	return ""
}

// Email accepts any text longer than three characters that contains an "@".
// Deliverability is checked by the mail provider, not here.
func Email(in Input) string {
	if in.Empty() {
		return MsgEmailEmpty
	}
	if in.Text && len(utf16.Encode([]rune(in.Value))) >= minEmailLength && strings.Contains(in.Value, "@") {
		return ""
	}
	return MsgEmailInvalid
}

// Message validates free text bodies: contact messages and comments.
func Message(in Input) string {
	switch {
	case in.Empty():
		return MsgMessageEmpty
	case !in.Text:
		return MsgMessageNotString
	}
	return ""
}

// Password checks presence and the length rules.
func Password(in Input) string {
	switch {
	case in.Empty():
		return MsgPasswordEmpty
	case !in.Text:
		return MsgPasswordNotString
	case utf8.RuneCountInString(in.Value) < MinPasswordLength:
		return MsgPasswordTooShort
	case len(in.Value) > MaxPasswordLength:
		return MsgPasswordTooLong
	}
	return ""
}
