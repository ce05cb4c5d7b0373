package watcher

import (
	"context"
	"time"

	"github.com/mikey/stock-watcher/internal/config"
	"github.com/mikey/stock-watcher/internal/core"
	"go.uber.org/zap"
)

const (
	defaultInterval  = 15 * time.Minute
	defaultItemDelay = 5 * time.Second
)

// sessionFetcher is implemented by fetchers that hold a browser open
// for the duration of one poll cycle
type sessionFetcher interface {
	OpenSession(ctx context.Context) error
	CloseSession()
}

// Watcher runs the availability poll loop: one sequential pass over all
// configured items per cycle, with a fixed delay between items
type Watcher struct {
	cfg     *config.Config
	service *core.StockCheckService
	fetcher core.PageFetcher
	logger  *zap.Logger
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a new poll loop
func NewWatcher(
	cfg *config.Config,
	service *core.StockCheckService,
	fetcher core.PageFetcher,
	logger *zap.Logger,
) *Watcher {
	return &Watcher{
		cfg:     cfg,
		service: service,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Start starts the poll loop
func (w *Watcher) Start() error {
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})

	w.logger.Info("Starting watcher")
	go w.loop()
	return nil
}

// Stop stops the poll loop and waits for the current cycle to finish
func (w *Watcher) Stop() error {
	if w.stopCh == nil {
		return nil
	}
	close(w.stopCh)
	<-w.doneCh
	// A second Stop must not close the channel again
	w.stopCh = nil
	w.logger.Info("Watcher stopped")
	return nil
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	for {
		interval := w.RunCycle(context.Background())
		if !w.sleep(interval) {
			return
		}
	}
}

// RunCycle performs one full pass over the configured items and returns
// the interval to sleep before the next pass
func (w *Watcher) RunCycle(ctx context.Context) time.Duration {
	// Config is loaded fresh each cycle so item and interval edits
	// take effect without a restart
	if err := w.cfg.Reload(); err != nil {
		w.logger.Warn("Failed to reload config, using previous values", zap.Error(err))
	}

	watcherCfg := w.cfg.GetWatcher()
	interval := w.parseDuration(watcherCfg.Interval, "watcher.interval", defaultInterval)
	itemDelay := w.parseDuration(watcherCfg.ItemDelay, "watcher.item_delay", defaultItemDelay)

	items, err := w.cfg.GetItems()
	if err != nil {
		w.logger.Error("Failed to load items from config", zap.Error(err))
		return interval
	}
	if len(items) == 0 {
		w.logger.Warn("No items configured, nothing to check")
		return interval
	}

	// One browser session covers the whole cycle
	if sf, ok := w.fetcher.(sessionFetcher); ok {
		if err := sf.OpenSession(ctx); err != nil {
			w.logger.Error("Failed to open fetch session", zap.Error(err))
			return interval
		}
		defer sf.CloseSession()
	}

	w.logger.Debug("Starting cycle", zap.Int("items", len(items)))

	for i, item := range items {
		if i > 0 && !w.sleep(itemDelay) {
			return interval
		}
		if w.stopped() {
			return interval
		}

		coreItem := core.Item{URL: item.URL, Name: item.Name}
		result, err := w.service.CheckItem(ctx, coreItem)
		if err != nil {
			// Per-item failures are isolated; the loop moves on
			w.logger.Error("Check failed",
				zap.String("url", item.URL),
				zap.String("item", item.Name),
				zap.Error(err))
			continue
		}

		w.logger.Debug("Checked item",
			zap.String("url", item.URL),
			zap.String("status", string(result.Status)))
	}

	return interval
}

func (w *Watcher) parseDuration(raw string, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil {
		w.logger.Warn("Invalid duration in config, using default",
			zap.String("key", key),
			zap.Duration("default", fallback),
			zap.Error(err))
		return fallback
	}
	return d
}

func (w *Watcher) sleep(d time.Duration) bool {
	if w.stopCh == nil {
		time.Sleep(d)
		return true
	}
	select {
	case <-time.After(d):
		return true
	case <-w.stopCh:
		return false
	}
}

func (w *Watcher) stopped() bool {
	if w.stopCh == nil {
		return false
	}
	select {
	case <-w.stopCh:
		return true
	default:
		return false
	}
}
