// cmd/folio/main.go
package main

import (
	"context"
	_ "time/tzdata" // content_timezone must resolve in minimal containers

	"github.com/dalemusser/waffle/app"
	"github.com/thedevbrian/folio/internal/app/bootstrap"
	"go.uber.org/zap"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		logger, _ := zap.NewProduction()
		logger.Fatal("folio exited", zap.Error(err))
	}
}
