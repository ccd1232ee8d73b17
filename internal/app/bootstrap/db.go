// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/thedevbrian/folio/internal/app/system/content"
	"github.com/thedevbrian/folio/internal/app/system/indexes"
	"github.com/thedevbrian/folio/internal/app/system/mailer"
	"github.com/thedevbrian/folio/internal/app/system/newsletter"
	"github.com/thedevbrian/folio/internal/app/system/validators"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB and builds the clients for the mail,
// newsletter, and content services.
//
// WAFFLE calls this after configuration is loaded but before EnsureSchema
// and Startup.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	poolCfg := wafflemongo.DefaultPoolConfig()
	if appCfg.MongoMaxPoolSize > 0 {
		poolCfg.MaxPoolSize = appCfg.MongoMaxPoolSize
	}
	if appCfg.MongoMinPoolSize > 0 {
		poolCfg.MinPoolSize = appCfg.MongoMinPoolSize
	}

	client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, poolCfg)
	if err != nil {
		return DBDeps{}, err
	}

	db := client.Database(appCfg.MongoDatabase)

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", poolCfg.MaxPoolSize),
		zap.Uint64("min_pool_size", poolCfg.MinPoolSize),
	)

	loc, err := time.LoadLocation(appCfg.ContentTimezone)
	if err != nil {
		return DBDeps{}, fmt.Errorf("content timezone %q: %w", appCfg.ContentTimezone, err)
	}

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Mailer:        newMailer(appCfg, logger),
		Newsletter: newsletter.New(newsletter.Config{
			APIKey:     appCfg.MailchimpAPIKey,
			Server:     appCfg.MailchimpServer,
			AudienceID: appCfg.MailchimpAudienceID,
		}, logger),
		Content: content.New(content.Config{
			ProjectID:  appCfg.SanityProjectID,
			Dataset:    appCfg.SanityDataset,
			APIVersion: appCfg.SanityAPIVersion,
			Token:      appCfg.SanityToken,
			Location:   loc,
		}, logger),
	}, nil
}

// newMailer picks the transport named by mail_provider.
func newMailer(appCfg AppConfig, logger *zap.Logger) mailer.Sender {
	if appCfg.MailProvider == "resend" {
		logger.Info("initialized email mailer", zap.String("provider", "resend"))
		return mailer.NewResend(mailer.ResendConfig{
			APIKey:   appCfg.ResendAPIKey,
			BaseURL:  appCfg.ResendAPIURL,
			From:     appCfg.MailFrom,
			FromName: appCfg.MailFromName,
		}, logger)
	}

	logger.Info("initialized email mailer",
		zap.String("provider", "smtp"),
		zap.String("host", appCfg.MailSMTPHost),
		zap.Int("port", appCfg.MailSMTPPort),
	)
	return mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)
}

// EnsureSchema creates the collections with their JSON-Schema validators,
// then the indexes the stores rely on: unique emails and display names,
// comment lookups, and TTL cleanup of confirmation tokens and login
// attempts.
//
// The context has a timeout based on coreCfg.IndexBootTimeout.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	logger.Info("ensuring collections and validators")
	if err := validators.EnsureAll(ctx, deps.MongoDatabase, logger); err != nil {
		logger.Error("failed to ensure validators", zap.Error(err))
		return err
	}

	logger.Info("ensuring database indexes")
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase, logger); err != nil {
		logger.Error("failed to ensure indexes", zap.Error(err))
		return err
	}
	return nil
}
