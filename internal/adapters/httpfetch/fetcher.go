package httpfetch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mikey/stock-watcher/internal/core"
	"go.uber.org/zap"
)

// Fetcher retrieves product pages with a plain HTTP GET. It works for shops
// that render availability server-side and avoids the cost of a browser.
type Fetcher struct {
	client *resty.Client
	logger *zap.Logger
}

// NewFetcher creates a new HTTP page fetcher
func NewFetcher(logger *zap.Logger, timeout time.Duration, userAgent string) *Fetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &Fetcher{
		client: client,
		logger: logger,
	}
}

// Fetch retrieves the page at the given URL
func (f *Fetcher) Fetch(ctx context.Context, url string) (*core.Page, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode(), url)
	}

	f.logger.Debug("Fetched page",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", resp.Time()))

	return &core.Page{
		URL:       url,
		HTML:      string(resp.Body()),
		FetchedAt: time.Now(),
	}, nil
}
