package bootstrap

import (
	"strings"
	"testing"
	"time"
)

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:           "mongodb://localhost:27017",
		MongoDatabase:      "folio",
		MongoMaxPoolSize:   100,
		MongoMinPoolSize:   10,
		SessionKey:         "0123456789abcdef0123456789abcdef",
		SessionName:        "__3r14n_session",
		SessionMaxAge:      24 * time.Hour,
		CSRFKey:            "0123456789abcdef0123456789abcdef",
		HoneypotKey:        "0123456789abcdef0123456789abcdef",
		HoneypotMinElapsed: 2 * time.Second,
		RateLimitEnabled:   true,
		LoginMaxAttempts:   5,
		LoginWindow:        15 * time.Minute,
		LoginLockout:       15 * time.Minute,
		ConfirmTokenTTL:    24 * time.Hour,
		BaseURL:            "http://localhost:8080",
		MailProvider:       "smtp",
		MailSMTPHost:       "localhost",
		MailSMTPPort:       1025,
		MailFrom:           "noreply@example.com",
		MailContactTo:      "brian@example.com",
		SanityProjectID:    "abc123",
		SanityDataset:      "production",
		SanityAPIVersion:   "v2022-10-20",
		ContentTimezone:    "Africa/Nairobi",
		StoreTimeout:       5 * time.Second,
		UpstreamTimeout:    10 * time.Second,
	}
}

func TestValidateAppConfig_Valid(t *testing.T) {
	if err := validateAppConfig(validConfig()); err != nil {
		t.Fatalf("validateAppConfig() error = %v", err)
	}
}

func TestValidateAppConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		want   string
	}{
		{"unknown provider", func(c *AppConfig) { c.MailProvider = "postmark" }, "mail_provider"},
		{"resend without key", func(c *AppConfig) { c.MailProvider = "resend" }, "resend_api_key"},
		{"smtp without host", func(c *AppConfig) { c.MailSMTPHost = "" }, "mail_smtp_host"},
		{"missing contact address", func(c *AppConfig) { c.MailContactTo = "" }, "mail_contact_to"},
		{"bad base url", func(c *AppConfig) { c.BaseURL = "localhost" }, "base_url"},
		{"audience required with key", func(c *AppConfig) { c.MailchimpAPIKey = "k-us21" }, "mailchimp_audience_id"},
		{"unknown timezone", func(c *AppConfig) { c.ContentTimezone = "Mars/Olympus" }, "content_timezone"},
		{"min pool above max", func(c *AppConfig) { c.MongoMinPoolSize = 200 }, "mongo_min_pool_size"},
		{"no project", func(c *AppConfig) { c.SanityProjectID = "" }, "sanity_project_id"},
		{"zero ttl", func(c *AppConfig) { c.ConfirmTokenTTL = 0 }, "confirm_token_ttl"},
		{"upstream below store", func(c *AppConfig) { c.UpstreamTimeout = time.Second }, "upstream_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := validateAppConfig(cfg)
			if err == nil {
				t.Fatal("validateAppConfig() error = nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("validateAppConfig() error = %q, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestConfigKey(t *testing.T) {
	tests := map[string]string{
		"MongoURI":            "mongo_uri",
		"MailSMTPHost":        "mail_smtp_host",
		"CSRFKey":             "csrf_key",
		"SanityAPIVersion":    "sanity_api_version",
		"ConfirmTokenTTL":     "confirm_token_ttl",
		"MailchimpAudienceID": "mailchimp_audience_id",
	}
	for in, want := range tests {
		if got := configKey(in); got != want {
			t.Errorf("configKey(%q) = %q, want %q", in, got, want)
		}
	}
}
