// internal/app/system/formcheck/phone.go
package formcheck

import (
	"regexp"
	"strings"
)

// Carrier identifies a Kenyan mobile network by its number prefix range.
type Carrier string

const (
	Safaricom Carrier = "safaricom"
	Airtel    Carrier = "airtel"
	Telkom    Carrier = "telkom"
)

// Each pattern accepts an optional 254, +254 or 0 prefix followed by a
// nine-digit subscriber number in the carrier's range.
var carrierPatterns = []struct {
	carrier Carrier
	re      *regexp.Regexp
}{
	{Safaricom, regexp.MustCompile(`^(?:254|\+254|0)?([71](?:(?:0[0-8])|(?:[12][0-9])|(?:9[0-9])|(?:4[0-3])|(?:4[68]))[0-9]{6})$`)},
	{Airtel, regexp.MustCompile(`^(?:254|\+254|0)?(7(?:(?:3[0-9])|(?:5[0-6])|(?:8[0-2])|(?:8[6-9]))[0-9]{6})$`)},
	{Telkom, regexp.MustCompile(`^(?:254|\+254|0)?(77[0-9][0-9]{6})$`)},
}

// NormalizePhone strips every character that is not an ASCII digit,
// including a leading "+". The result is safe to pass to Phone.
func NormalizePhone(raw string) string {
	return strings.Map(func(r rune) rune {
		if r < '0' || r > '9' {
			return -1
		}
		return r
	}, raw)
}

// CarrierOf reports the first carrier whose pattern matches number.
func CarrierOf(number string) (Carrier, bool) {
	for _, p := range carrierPatterns {
		if p.re.MatchString(number) {
			return p.carrier, true
		}
	}
	return "", false
}

// MatchesCarrier reports whether number matches the given carrier's pattern.
func MatchesCarrier(c Carrier, number string) bool {
	for _, p := range carrierPatterns {
		if p.carrier == c {
			return p.re.MatchString(number)
		}
	}
	return false
}

// Phone validates an already normalized phone number.
func Phone(normalized string) string {
	if _, ok := CarrierOf(normalized); ok {
		return ""
	}
	return MsgPhoneInvalid
}
