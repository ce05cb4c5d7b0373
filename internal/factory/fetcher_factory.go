package factory

import (
	"fmt"
	"time"

	"github.com/mikey/stock-watcher/internal/adapters/browser"
	"github.com/mikey/stock-watcher/internal/adapters/httpfetch"
	"github.com/mikey/stock-watcher/internal/config"
	"github.com/mikey/stock-watcher/internal/core"
	"go.uber.org/zap"
)

// FetcherFactory creates page fetchers based on configuration
type FetcherFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFetcherFactory creates a new fetcher factory
func NewFetcherFactory(cfg *config.Config, logger *zap.Logger) *FetcherFactory {
	return &FetcherFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateFetcher creates a page fetcher based on the configuration
func (f *FetcherFactory) CreateFetcher() (core.PageFetcher, error) {
	fetcherType := f.cfg.GetString("fetcher.type")

	switch fetcherType {
	case "browser":
		browserCfg := f.cfg.GetBrowser()
		navTimeout, err := time.ParseDuration(browserCfg.NavTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid browser nav timeout: %w", err)
		}
		return browser.NewFetcher(
			f.logger,
			browserCfg.Headless,
			browserCfg.ExecPath,
			browserCfg.UserAgent,
			navTimeout,
			browserCfg.InterstitialSelectors,
		), nil
	case "http":
		httpCfg := f.cfg.GetHTTP()
		timeout, err := time.ParseDuration(httpCfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid http timeout: %w", err)
		}
		return httpfetch.NewFetcher(f.logger, timeout, f.cfg.GetBrowser().UserAgent), nil
	default:
		return nil, fmt.Errorf("unsupported fetcher type: %s", fetcherType)
	}
}
