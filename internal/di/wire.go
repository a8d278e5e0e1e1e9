//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/Nate99091/crypto/pkg/config"
	"github.com/Nate99091/crypto/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation in wire_gen.go.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient services
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideClickHouseClient,
		ProvideMarketSource,

		// Repositories
		ProvideFeeTable,
		ProvideHistoryStore,
		ProvidePublisher,

		// Use cases
		ProvideFetcher,
		ProvideEngine,
		ProvideResults,

		// HTTP surface
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
