// internal/app/system/honeypot/honeypot.go

// Package honeypot rejects form posts that look automated.
//
// Two hidden inputs are rendered into every public form. The first must stay
// empty; bots that fill every field give themselves away. The second carries
// a signed render timestamp, so a post that arrives faster than a person
// could type, or long after the page was served, is rejected too.
package honeypot

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/securecookie"
)

// Default field names and timing.
const (
	DefaultNameField      = "name__confirm"
	DefaultValidFromField = "from__confirm"
	DefaultMinElapsed     = 2 * time.Second
)

// ErrSpam matches every *SpamError via errors.Is.
var ErrSpam = errors.New("spam submission")

// ErrNoKey is returned when a signed timestamp is posted to a gate that
// was built without a signing key. It is a configuration problem, not spam.
var ErrNoKey = errors.New("honeypot: no signing key configured")

// SpamError carries the reason a submission was rejected.
// Reasons are for logs only and must not be shown to the client.
type SpamError struct {
	Reason string
}

func (e *SpamError) Error() string {
	return "spam: " + e.Reason
}

// Is lets errors.Is(err, ErrSpam) match any SpamError.
func (e *SpamError) Is(target error) bool {
	return target == ErrSpam
}

// Config configures a Gate. Zero values fall back to the defaults.
type Config struct {
	NameField      string
	ValidFromField string

	// HashKey signs the render timestamp. Without it the gate only checks
	// the honeypot field and Props returns no timestamp.
	HashKey []byte

	MinElapsed time.Duration
	MaxAge     time.Duration // 0 means no upper bound

	Now func() time.Time // for tests
}

// Gate checks submissions for the honeypot and time-trap fields.
type Gate struct {
	nameField      string
	validFromField string
	codec          *securecookie.SecureCookie
	minElapsed     time.Duration
	maxAge         time.Duration
	now            func() time.Time
}

// New creates a Gate from cfg.
func New(cfg Config) *Gate {
	g := &Gate{
		nameField:      cfg.NameField,
		validFromField: cfg.ValidFromField,
		minElapsed:     cfg.MinElapsed,
		maxAge:         cfg.MaxAge,
		now:            cfg.Now,
	}
	if g.nameField == "" {
		g.nameField = DefaultNameField
	}
	if g.validFromField == "" {
		g.validFromField = DefaultValidFromField
	}
	if g.minElapsed == 0 {
		g.minElapsed = DefaultMinElapsed
	}
	if g.now == nil {
		g.now = time.Now
	}
	if len(cfg.HashKey) > 0 {
		// Expiry is enforced by Check against MaxAge, so the codec's own
		// timestamp check is turned off.
		g.codec = securecookie.New(cfg.HashKey, nil).MaxAge(0)
	}
	return g
}

// Props are the hidden inputs a template renders inside a form.
type Props struct {
	NameFieldName      string
	ValidFromFieldName string
	EncryptedValidFrom string // empty when the gate has no signing key
}

// Props returns the hidden input names and a freshly signed timestamp.
func (g *Gate) Props() (Props, error) {
	p := Props{
		NameFieldName:      g.nameField,
		ValidFromFieldName: g.validFromField,
	}
	if g.codec == nil {
		return p, nil
	}
	enc, err := g.codec.Encode(g.validFromField, g.now().UnixMilli())
	if err != nil {
		return Props{}, fmt.Errorf("sign honeypot timestamp: %w", err)
	}
	p.EncryptedValidFrom = enc
	return p, nil
}

// Check inspects the posted values. It returns nil for a clean submission,
// a *SpamError for a rejected one, and any other error unchanged.
//
// Both hidden inputs are always rendered, so a post without the honeypot
// field is spam, as is a post without the timestamp when the gate signs one.
func (g *Gate) Check(form url.Values) error {
	names, ok := form[g.nameField]
	if !ok {
		return &SpamError{Reason: "missing honeypot input"}
	}
	for _, v := range names {
		if v != "" {
			return &SpamError{Reason: "honeypot input not empty"}
		}
	}

	vals, ok := form[g.validFromField]
	switch {
	case !ok && g.codec != nil:
		return &SpamError{Reason: "missing timestamp input"}
	case !ok:
		return nil
	case g.codec == nil:
		return ErrNoKey
	}

	raw := ""
	if len(vals) > 0 {
		raw = vals[0]
	}
	var ms int64
	if err := g.codec.Decode(g.validFromField, raw, &ms); err != nil {
		return &SpamError{Reason: "invalid valid-from input"}
	}

	validFrom := time.UnixMilli(ms)
	now := g.now()
	if validFrom.After(now) {
		return &SpamError{Reason: "valid-from is in the future"}
	}
	elapsed := now.Sub(validFrom)
	if elapsed < g.minElapsed {
		return &SpamError{Reason: "submitted too fast"}
	}
	if g.maxAge > 0 && elapsed > g.maxAge {
		return &SpamError{Reason: "form expired"}
	}
	return nil
}
