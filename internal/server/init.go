package server

import (
	"github.com/bionicotaku/lingo-services-person/internal/infrastructure/database"

	"github.com/google/wire"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(
	NewTelemetry,
	NewHTTPServer,
	wire.Bind(new(ReadinessChecker), new(*database.Store)),
)
