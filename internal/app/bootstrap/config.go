// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "FOLIO"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: FOLIO_MONGO_URI, FOLIO_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "folio", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "__3r14n_session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie max age (e.g., 24h, 720h, 30m)"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "CSRF token signing key (32+ chars in production)"},

	// Anti-spam time trap
	{Name: "honeypot_key", Default: "dev-only-honeypot-key-change-me-0123456789", Desc: "Signing key for the honeypot timestamp"},
	{Name: "honeypot_min_elapsed", Default: "2s", Desc: "Minimum time between rendering and submitting a form"},
	{Name: "honeypot_max_age", Default: "0", Desc: "Maximum form age before a post counts as spam (0 disables)"},

	// Failed login lockout
	{Name: "rate_limit_enabled", Default: true, Desc: "Enable the failed login lockout"},
	{Name: "login_max_attempts", Default: 5, Desc: "Max failed login attempts before lockout"},
	{Name: "login_window", Default: "15m", Desc: "Time window for counting failed attempts"},
	{Name: "login_lockout", Default: "15m", Desc: "Lockout duration after exceeding the limit"},

	// Signup confirmation
	{Name: "confirm_token_ttl", Default: "24h", Desc: "How long a signup confirmation link stays valid"},
	{Name: "base_url", Default: "http://localhost:8080", Desc: "Public origin used in email links"},

	// Email
	{Name: "mail_provider", Default: "smtp", Desc: "Email transport: 'smtp' or 'resend'"},
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@example.com", Desc: "From email address"},
	{Name: "mail_from_name", Default: "Brian Mwangi", Desc: "From display name"},
	{Name: "mail_contact_to", Default: "", Desc: "Address that receives contact form messages"},
	{Name: "resend_api_key", Default: "", Desc: "Resend API key (mail_provider=resend)"},
	{Name: "resend_api_url", Default: "https://api.resend.com", Desc: "Resend API base URL"},

	// Newsletter
	{Name: "mailchimp_api_key", Default: "", Desc: "Mailchimp API key (blank disables subscribe)"},
	{Name: "mailchimp_server", Default: "", Desc: "Mailchimp data center, e.g. us21"},
	{Name: "mailchimp_audience_id", Default: "", Desc: "Mailchimp audience (list) id"},

	// Content
	{Name: "sanity_project_id", Default: "", Desc: "Sanity project id"},
	{Name: "sanity_dataset", Default: "production", Desc: "Sanity dataset"},
	{Name: "sanity_api_version", Default: "v2022-10-20", Desc: "Sanity API version"},
	{Name: "sanity_token", Default: "", Desc: "Sanity read token (private datasets only)"},
	{Name: "content_timezone", Default: "Africa/Nairobi", Desc: "Timezone for post dates"},

	// Handler deadlines
	{Name: "store_timeout", Default: "5s", Desc: "Deadline for a single database call in a handler"},
	{Name: "upstream_timeout", Default: "10s", Desc: "Deadline for form actions that call mail, Mailchimp or Sanity"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// FOLIO_* environment variables and flags, with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 24*time.Hour),

		CSRFKey: appValues.String("csrf_key"),

		HoneypotKey:        appValues.String("honeypot_key"),
		HoneypotMinElapsed: appValues.Duration("honeypot_min_elapsed", 2*time.Second),
		HoneypotMaxAge:     appValues.Duration("honeypot_max_age", 0),

		RateLimitEnabled: appValues.Bool("rate_limit_enabled"),
		LoginMaxAttempts: appValues.Int("login_max_attempts"),
		LoginWindow:      appValues.Duration("login_window", 15*time.Minute),
		LoginLockout:     appValues.Duration("login_lockout", 15*time.Minute),

		ConfirmTokenTTL: appValues.Duration("confirm_token_ttl", 24*time.Hour),
		BaseURL:         appValues.String("base_url"),

		MailProvider:  strings.ToLower(appValues.String("mail_provider")),
		MailSMTPHost:  appValues.String("mail_smtp_host"),
		MailSMTPPort:  appValues.Int("mail_smtp_port"),
		MailSMTPUser:  appValues.String("mail_smtp_user"),
		MailSMTPPass:  appValues.String("mail_smtp_pass"),
		MailFrom:      appValues.String("mail_from"),
		MailFromName:  appValues.String("mail_from_name"),
		MailContactTo: appValues.String("mail_contact_to"),
		ResendAPIKey:  appValues.String("resend_api_key"),
		ResendAPIURL:  appValues.String("resend_api_url"),

		MailchimpAPIKey:     appValues.String("mailchimp_api_key"),
		MailchimpServer:     appValues.String("mailchimp_server"),
		MailchimpAudienceID: appValues.String("mailchimp_audience_id"),

		SanityProjectID:  appValues.String("sanity_project_id"),
		SanityDataset:    appValues.String("sanity_dataset"),
		SanityAPIVersion: appValues.String("sanity_api_version"),
		SanityToken:      appValues.String("sanity_token"),
		ContentTimezone:  appValues.String("content_timezone"),

		StoreTimeout:    appValues.Duration("store_timeout", 5*time.Second),
		UpstreamTimeout: appValues.Duration("upstream_timeout", 10*time.Second),
	}

	return coreCfg, appCfg, nil
}

var validate = validator.New()

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if err := validateAppConfig(appCfg); err != nil {
		logger.Error("invalid app config", zap.Error(err))
		return err
	}

	if coreCfg.Env == "prod" {
		for name, key := range map[string]string{"csrf_key": appCfg.CSRFKey, "honeypot_key": appCfg.HoneypotKey} {
			if len(key) < 32 || strings.HasPrefix(key, "dev-only") {
				return fmt.Errorf("%s is too weak for production; provide 32+ random chars", name)
			}
		}
	}

	return nil
}

// validateAppConfig runs the struct tag rules and reports every failing
// field by its config key.
func validateAppConfig(appCfg AppConfig) error {
	err := validate.Struct(appCfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", configKey(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// configKey maps an AppConfig field name back to its snake_case key,
// e.g. MailSMTPHost -> mail_smtp_host.
func configKey(field string) string {
	var sb strings.Builder
	runes := []rune(field)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				sb.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
