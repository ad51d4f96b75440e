//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"mulesync/internal"
	"mulesync/internal/controllers"
	"mulesync/internal/gameapi"
	"mulesync/internal/providers"
	"mulesync/internal/reload"
	"mulesync/internal/reload/interfaces"
	"mulesync/internal/services"
	"mulesync/internal/storage"
	"mulesync/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		gameapi.NewClient,
		storage.NewZstdCompressor,
		storage.NewFileManager,

		reload.NewEventBus,
		reload.NewReloadQueue,
		wire.Bind(new(interfaces.ReloadQueueInterface), new(*reload.ReloadQueue)),

		services.NewAccountService,
		services.NewReloadService,
		wire.Bind(new(services.ReloadServiceInterface), new(*services.ReloadService)),
		wire.Bind(new(interfaces.BatchReloader), new(*services.ReloadService)),

		reload.NewAutoScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
