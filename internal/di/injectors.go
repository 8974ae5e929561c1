//go:build wireinject
// +build wireinject

package di

import (
	"checkinboard/internal"
	"checkinboard/internal/api"
	"checkinboard/internal/controllers"
	"checkinboard/internal/pinned"
	"checkinboard/internal/providers"
	"checkinboard/internal/scheduler"
	"checkinboard/internal/services"
	"checkinboard/internal/storage"
	"checkinboard/internal/structures"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewCompressor,
		storage.NewFileStore,
		api.NewClient,
		api.NewLiveFetcher,
		pinned.NewSummaryCacheProvider,
		pinned.NewStore,
		services.NewCheckinService,
		services.NewThemeService,
		scheduler.NewScheduler,

		wire.Bind(new(pinned.KeyValueStorage), new(*storage.FileStore)),
		wire.Bind(new(pinned.UserDetailFetcher), new(*api.LiveFetcher)),
		wire.Bind(new(services.CheckinAPI), new(*api.Client)),
		wire.Bind(new(services.ThemeStorage), new(*storage.FileStore)),
		wire.Bind(new(scheduler.PinnedRefresher), new(*pinned.Store)),
		wire.Bind(new(controllers.PinnedStoreInterface), new(*pinned.Store)),
		wire.Bind(new(controllers.HealthSource), new(*pinned.Store)),
		wire.Bind(new(controllers.DashboardServiceInterface), new(*services.CheckinService)),
		wire.Bind(new(controllers.ThemeServiceInterface), new(*services.ThemeService)),

		controllers.NewPinnedController,
		controllers.NewCheckinController,
		controllers.NewPreferencesController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil
}
