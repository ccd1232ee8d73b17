// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (FOLIO_*), configuration
// files, or command-line flags, loaded in LoadConfig. WAFFLE's CoreConfig
// covers the framework-level settings (ports, TLS, log level, CORS).
//
// The validate tags are checked in ValidateConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string `validate:"required"`
	MongoDatabase    string `validate:"required"`
	MongoMaxPoolSize uint64 `validate:"gte=1"`
	MongoMinPoolSize uint64 `validate:"ltefield=MongoMaxPoolSize"`

	// Session management configuration
	SessionKey    string        `validate:"required"`
	SessionName   string        `validate:"required"`
	SessionDomain string        // blank means current host
	SessionMaxAge time.Duration `validate:"gt=0"`

	// CSRF protection configuration
	CSRFKey string `validate:"required"`

	// Anti-spam time trap. HoneypotKey signs the render timestamp.
	HoneypotKey        string        `validate:"required"`
	HoneypotMinElapsed time.Duration `validate:"gte=0"`
	HoneypotMaxAge     time.Duration `validate:"gte=0"` // 0 disables the upper bound

	// Failed login lockout
	RateLimitEnabled bool
	LoginMaxAttempts int           `validate:"gte=1"`
	LoginWindow      time.Duration `validate:"gt=0"`
	LoginLockout     time.Duration `validate:"gt=0"`

	// Signup confirmation links
	ConfirmTokenTTL time.Duration `validate:"gt=0"`
	BaseURL         string        `validate:"required,url"` // e.g. "https://brianmwangi.co.ke"

	// Email: "smtp" (Mailpit, SES) or "resend"
	MailProvider  string `validate:"oneof=smtp resend"`
	MailSMTPHost  string `validate:"required_if=MailProvider smtp"`
	MailSMTPPort  int    `validate:"gte=0,lte=65535"`
	MailSMTPUser  string
	MailSMTPPass  string
	MailFrom      string `validate:"required,email"`
	MailFromName  string
	MailContactTo string `validate:"required,email"` // receives contact form messages
	ResendAPIKey  string `validate:"required_if=MailProvider resend"`
	ResendAPIURL  string `validate:"omitempty,url"`

	// Mailchimp newsletter; subscribe fails with 502 while the key is empty.
	MailchimpAPIKey     string
	MailchimpServer     string // data center, e.g. "us21"; derived from the key when blank
	MailchimpAudienceID string `validate:"required_with=MailchimpAPIKey"`

	// Sanity content
	SanityProjectID  string `validate:"required"`
	SanityDataset    string `validate:"required"`
	SanityAPIVersion string `validate:"required"`
	SanityToken      string // only for private datasets
	ContentTimezone  string `validate:"timezone"`

	// Handler deadlines (see timeouts.Configure)
	StoreTimeout    time.Duration `validate:"gt=0"`
	UpstreamTimeout time.Duration `validate:"gtefield=StoreTimeout"`
}
