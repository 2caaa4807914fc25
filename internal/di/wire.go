//go:build wireinject
// +build wireinject

package di

import (
	"MatchCast/pkg/config"
	"MatchCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,

		// Repositories
		ProvideTeamStore,
		ProvideSink,
		ProvideSinkPipeline,

		// Engine services
		ProvideFactorSource,
		ProvideAggregator,
		ProvideBuilder,
		ProvideStrategies,
		ProvideCombiner,

		// Use cases
		ProvidePredictor,

		// Transport
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
