//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"SentiCast/pkg/config"
	"SentiCast/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideObservationSource,
		ProvideCache,
		ProvideEventPublisher,

		// Domain services and use cases
		ProvideSentimentClassifier,
		ProvideCatalogService,
		ProvideForecastView,
		ProvideSentimentUseCase,
		ProvideReloadScheduler,
		ProvideKafkaConsumer,

		// Transport
		ProvideRateLimiter,
		ProvideCatalogHub,
		ProvideHandlers,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
