package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/stock-watcher/internal/config"
	"github.com/mikey/stock-watcher/internal/core"
	"github.com/mikey/stock-watcher/internal/factory"
	"github.com/mikey/stock-watcher/internal/logging"
	"github.com/mikey/stock-watcher/internal/ports"
	"github.com/mikey/stock-watcher/internal/utils"
	"github.com/mikey/stock-watcher/internal/watcher"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewFetcherFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewNotifierFactory); err != nil {
		return nil, err
	}

	// Register text normalizer
	if err := container.Provide(utils.NewTextNormalizer); err != nil {
		return nil, err
	}

	// Register page fetcher
	if err := container.Provide(func(f *factory.FetcherFactory) (core.PageFetcher, error) {
		return f.CreateFetcher()
	}); err != nil {
		return nil, err
	}

	// Register status repository
	if err := container.Provide(func(f *factory.StoreFactory) (core.StatusRepository, error) {
		return f.CreateStatusRepository()
	}); err != nil {
		return nil, err
	}

	// Register notifier
	if err := container.Provide(func(f *factory.NotifierFactory) (core.Notifier, error) {
		return f.CreateNotifier()
	}); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(func(cfg *config.Config, normalizer *utils.TextNormalizer, logger *zap.Logger) *core.Classifier {
		classifierCfg := cfg.GetClassifier()
		return core.NewClassifier(
			classifierCfg.CartSelectors,
			classifierCfg.AvailabilitySelectors,
			classifierCfg.UnavailablePhrases,
			normalizer,
			logger,
		)
	}); err != nil {
		return nil, err
	}

	// Register stock check service
	if err := container.Provide(core.NewStockCheckService); err != nil {
		return nil, err
	}

	// Register watcher
	if err := container.Provide(func(
		cfg *config.Config,
		service *core.StockCheckService,
		fetcher core.PageFetcher,
		logger *zap.Logger,
	) ports.Watcher {
		return watcher.NewWatcher(cfg, service, fetcher, logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
