package watcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mikey/stock-watcher/internal/config"
	"github.com/mikey/stock-watcher/internal/core"
	"github.com/mikey/stock-watcher/internal/utils"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSessionFetcher struct {
	html   string
	mu     sync.Mutex
	opens  int
	closes int
	visits []string
}

func (f *fakeSessionFetcher) OpenSession(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opens++
	return nil
}

func (f *fakeSessionFetcher) CloseSession() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
}

func (f *fakeSessionFetcher) Fetch(ctx context.Context, url string) (*core.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visits = append(f.visits, url)
	return &core.Page{URL: url, HTML: f.html, FetchedAt: time.Now()}, nil
}

func (f *fakeSessionFetcher) visitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visits)
}

type memStore struct {
	statuses map[string]core.Status
}

func (s *memStore) Get(ctx context.Context, url string) (core.Status, error) {
	return s.statuses[url], nil
}

func (s *memStore) Set(ctx context.Context, url string, status core.Status) error {
	s.statuses[url] = status
	return nil
}

func (s *memStore) All(ctx context.Context) (map[string]core.Status, error) {
	return s.statuses, nil
}

type countingNotifier struct {
	calls int
}

func (n *countingNotifier) NotifyAvailable(ctx context.Context, item core.Item, result *core.CheckResult) error {
	n.calls++
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v := config.NewEmptyViper()
	v.Set("watcher.interval", "100ms")
	v.Set("watcher.item_delay", "1ms")
	v.Set("items", []map[string]interface{}{
		{"url": "https://shop.example/a", "name": "Item A"},
		{"url": "https://shop.example/b", "name": "Item B"},
	})
	return config.NewFromViper(v)
}

func newTestWatcher(t *testing.T, fetcher core.PageFetcher, store core.StatusRepository, notifier core.Notifier) *Watcher {
	t.Helper()
	logger := zap.NewNop()
	classifier := core.NewClassifier(
		[]string{"#add-to-cart-button"},
		[]string{"#availability"},
		[]string{"out of stock"},
		utils.NewTextNormalizer(logger),
		logger,
	)
	service := core.NewStockCheckService(fetcher, classifier, store, notifier, logger)
	return NewWatcher(testConfig(t), service, fetcher, logger)
}

func TestRunCycleVisitsAllItemsSequentially(t *testing.T) {
	fetcher := &fakeSessionFetcher{
		html: `<html><body><input id="add-to-cart-button" type="submit"/></body></html>`,
	}
	store := &memStore{statuses: make(map[string]core.Status)}
	notifier := &countingNotifier{}
	w := newTestWatcher(t, fetcher, store, notifier)

	interval := w.RunCycle(context.Background())

	require.Equal(t, 100*time.Millisecond, interval)
	require.Equal(t, []string{"https://shop.example/a", "https://shop.example/b"}, fetcher.visits)
	require.Equal(t, 2, notifier.calls)
	require.Equal(t, core.StatusInStock, store.statuses["https://shop.example/a"])
	require.Equal(t, core.StatusInStock, store.statuses["https://shop.example/b"])
}

func TestRunCycleUsesOneSessionPerCycle(t *testing.T) {
	fetcher := &fakeSessionFetcher{html: `<html><body></body></html>`}
	store := &memStore{statuses: make(map[string]core.Status)}
	w := newTestWatcher(t, fetcher, store, &countingNotifier{})

	w.RunCycle(context.Background())
	w.RunCycle(context.Background())

	require.Equal(t, 2, fetcher.opens)
	require.Equal(t, 2, fetcher.closes)
}

func TestRunCycleSecondPassDoesNotRenotify(t *testing.T) {
	fetcher := &fakeSessionFetcher{
		html: `<html><body><input id="add-to-cart-button" type="submit"/></body></html>`,
	}
	store := &memStore{statuses: make(map[string]core.Status)}
	notifier := &countingNotifier{}
	w := newTestWatcher(t, fetcher, store, notifier)

	w.RunCycle(context.Background())
	w.RunCycle(context.Background())

	require.Equal(t, 2, notifier.calls)
}

func TestStartStop(t *testing.T) {
	fetcher := &fakeSessionFetcher{html: `<html><body></body></html>`}
	store := &memStore{statuses: make(map[string]core.Status)}
	w := newTestWatcher(t, fetcher, store, &countingNotifier{})

	require.NoError(t, w.Start())

	// Let at least one cycle run
	require.Eventually(t, func() bool {
		return fetcher.visitCount() >= 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, w.Stop())
}

func TestStopIsIdempotent(t *testing.T) {
	fetcher := &fakeSessionFetcher{html: `<html><body></body></html>`}
	store := &memStore{statuses: make(map[string]core.Status)}
	w := newTestWatcher(t, fetcher, store, &countingNotifier{})

	// Stopping before Start is a no-op
	require.NoError(t, w.Stop())

	require.NoError(t, w.Start())
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
