package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
	"github.com/mikey/stock-watcher/internal/core"
	"go.uber.org/zap"
)

// Fetcher renders product pages in a headless browser. Retailers gate
// availability markup behind client-side rendering and interstitials, so a
// plain GET is not enough for every shop.
type Fetcher struct {
	logger                *zap.Logger
	headless              bool
	execPath              string
	userAgent             string
	navTimeout            time.Duration
	interstitialSelectors []string

	browserCtx    context.Context
	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
}

// NewFetcher creates a new browser page fetcher
func NewFetcher(
	logger *zap.Logger,
	headless bool,
	execPath string,
	userAgent string,
	navTimeout time.Duration,
	interstitialSelectors []string,
) *Fetcher {
	return &Fetcher{
		logger:                logger,
		headless:              headless,
		execPath:              execPath,
		userAgent:             userAgent,
		navTimeout:            navTimeout,
		interstitialSelectors: interstitialSelectors,
	}
}

// OpenSession starts one browser instance to be shared by all fetches
// until CloseSession is called
func (f *Fetcher) OpenSession(ctx context.Context) error {
	if f.browserCtx != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(),
		allocatorOptions(f.headless, f.userAgent, f.execPath)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("failed to start browser: %w", err)
	}

	f.browserCtx = browserCtx
	f.allocCancel = allocCancel
	f.browserCancel = browserCancel
	f.logger.Debug("Browser session opened", zap.Bool("headless", f.headless))
	return nil
}

// CloseSession shuts down the browser instance
func (f *Fetcher) CloseSession() {
	if f.browserCtx == nil {
		return
	}
	f.browserCancel()
	f.allocCancel()
	f.browserCtx = nil
	f.allocCancel = nil
	f.browserCancel = nil
	f.logger.Debug("Browser session closed")
}

// Fetch navigates to the URL, dismisses any known interstitial and returns
// the rendered document
func (f *Fetcher) Fetch(ctx context.Context, url string) (*core.Page, error) {
	if f.browserCtx == nil {
		if err := f.OpenSession(ctx); err != nil {
			return nil, err
		}
	}

	navCtx, cancel := context.WithTimeout(f.browserCtx, f.navTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		f.dismissInterstitials(),
		chromedp.ActionFunc(func(ctx context.Context) error {
			root, err := dom.GetDocument().Do(ctx)
			if err != nil {
				return err
			}
			html, err = dom.GetOuterHTML().WithNodeID(root.NodeID).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", url, err)
	}

	return &core.Page{
		URL:       url,
		HTML:      html,
		FetchedAt: time.Now(),
	}, nil
}

// dismissInterstitials clicks through intermediate pages (e.g. a
// "Continue shopping" prompt) that block the product content
func (f *Fetcher) dismissInterstitials() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		for _, selector := range f.interstitialSelectors {
			var nodes []*cdp.Node
			if err := chromedp.Nodes(selector, &nodes, chromedp.ByQuery, chromedp.AtLeast(0)).Do(ctx); err != nil {
				continue
			}
			if len(nodes) == 0 {
				continue
			}

			f.logger.Info("Dismissing interstitial", zap.String("selector", selector))
			if err := chromedp.Click(selector, chromedp.ByQuery).Do(ctx); err != nil {
				f.logger.Warn("Failed to click interstitial",
					zap.String("selector", selector),
					zap.Error(err))
				continue
			}
			if err := chromedp.WaitReady("body", chromedp.ByQuery).Do(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
