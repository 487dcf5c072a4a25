//go:build wireinject
// +build wireinject

package main

import (
	"aihub/config"
	"aihub/internal/command"
	"aihub/internal/cron"
	"aihub/internal/database"
	"aihub/internal/handler"
	"aihub/internal/middleware"
	"aihub/internal/router"
	"aihub/internal/service"
	"aihub/internal/telemetry"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// wireApp init application.
func wireApp(*config.Configuration, *zap.Logger) (*App, func(), error) {
	panic(
		wire.Build(
			database.ProviderSet,
			service.ProviderSet,
			handler.ProviderSet,
			middleware.ProviderSet,
			router.ProviderSet,
			cron.ProviderSet,
			newHttpServer,
			newHttpClient,
			telemetry.ProviderSet,
			newApp,
		),
	)
}

// wireCommand init application.
func wireCommand(*config.Configuration, *zap.Logger) (*command.Command, func(), error) {
	panic(
		wire.Build(
			database.ProviderSet,
			service.ProviderSet,
			telemetry.ProviderSet,
			newHttpClient,
			command.ProviderSet,
		),
	)
}
