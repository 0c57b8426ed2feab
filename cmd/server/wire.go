//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"context"

	"github.com/bionicotaku/lingo-services-person/internal/controllers"
	loader "github.com/bionicotaku/lingo-services-person/internal/infrastructure/config_loader"
	"github.com/bionicotaku/lingo-services-person/internal/infrastructure/database"
	"github.com/bionicotaku/lingo-services-person/internal/infrastructure/logger"
	"github.com/bionicotaku/lingo-services-person/internal/repositories"
	"github.com/bionicotaku/lingo-services-person/internal/server"
	"github.com/bionicotaku/lingo-services-person/internal/services"

	"github.com/go-kratos/kratos/v2"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(context.Context, *loader.Bundle) (*kratos.App, func(), error) {
	panic(wire.Build(
		loader.ProviderSet,
		logger.ProviderSet,
		database.ProviderSet,
		repositories.ProviderSet,
		wire.Bind(new(services.PersonRepo), new(repositories.PersonStore)),
		services.ProviderSet,
		controllers.ProviderSet,
		server.ProviderSet,
		newApp,
	))
}
