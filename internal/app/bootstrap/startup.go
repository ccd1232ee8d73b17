// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/thedevbrian/folio/internal/app/resources"
	"github.com/thedevbrian/folio/internal/app/system/tasks"
	"github.com/thedevbrian/folio/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// Returning a non-nil error aborts startup.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	timeouts.Configure(timeouts.Config{
		Short:  appCfg.StoreTimeout,
		Medium: appCfg.UpstreamTimeout,
	})

	startTaskRunner(deps.MongoDatabase, appCfg, logger)

	return nil
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

// startTaskRunner registers the cleanup jobs and starts them.
func startTaskRunner(db *mongo.Database, appCfg AppConfig, logger *zap.Logger) {
	taskRunner = tasks.New(logger)

	// An unconfirmed signup holds its email and display name until its
	// confirmation link has expired.
	taskRunner.Register(tasks.UnconfirmedAccountCleanupJob(db, logger, appCfg.ConfirmTokenTTL))

	taskRunner.Start()
}
