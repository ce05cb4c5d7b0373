package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mikey/stock-watcher/internal/utils"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	html string
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &Page{URL: url, HTML: f.html, FetchedAt: time.Now()}, nil
}

type fakeStore struct {
	statuses map[string]Status
	getErr   error
	setErr   error
	sets     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{statuses: make(map[string]Status)}
}

func (s *fakeStore) Get(ctx context.Context, url string) (Status, error) {
	if s.getErr != nil {
		return StatusUnknown, s.getErr
	}
	return s.statuses[url], nil
}

func (s *fakeStore) Set(ctx context.Context, url string, status Status) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.sets++
	s.statuses[url] = status
	return nil
}

func (s *fakeStore) All(ctx context.Context) (map[string]Status, error) {
	return s.statuses, nil
}

type fakeNotifier struct {
	calls int
	err   error
}

func (n *fakeNotifier) NotifyAvailable(ctx context.Context, item Item, result *CheckResult) error {
	if n.err != nil {
		return n.err
	}
	n.calls++
	return nil
}

func newTestService(fetcher PageFetcher, store StatusRepository, notifier Notifier) *StockCheckService {
	logger := zap.NewNop()
	classifier := NewClassifier(
		[]string{"#add-to-cart-button"},
		[]string{"#availability"},
		[]string{"currently unavailable", "out of stock"},
		utils.NewTextNormalizer(logger),
		logger,
	)
	return NewStockCheckService(fetcher, classifier, store, notifier, logger)
}

func result(status Status) *CheckResult {
	return &CheckResult{Status: status, Indicator: "test", CheckedAt: time.Now()}
}

var testItem = Item{URL: "https://shop.example/product/1", Name: "Widget"}

func TestApplyTransitionIntoInStockNotifies(t *testing.T) {
	testCases := []struct {
		name string
		prev Status
	}{
		{name: "from unknown", prev: StatusUnknown},
		{name: "from out of stock", prev: StatusOutOfStock},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			if tc.prev != StatusUnknown {
				store.statuses[testItem.URL] = tc.prev
			}
			notifier := &fakeNotifier{}
			svc := newTestService(&fakeFetcher{}, store, notifier)

			err := svc.Apply(context.Background(), testItem, result(StatusInStock))
			require.NoError(t, err)
			require.Equal(t, 1, notifier.calls)
			require.Equal(t, StatusInStock, store.statuses[testItem.URL])
		})
	}
}

func TestApplyUnchangedStatusDoesNothing(t *testing.T) {
	store := newFakeStore()
	store.statuses[testItem.URL] = StatusInStock
	notifier := &fakeNotifier{}
	svc := newTestService(&fakeFetcher{}, store, notifier)

	err := svc.Apply(context.Background(), testItem, result(StatusInStock))
	require.NoError(t, err)
	require.Equal(t, 0, notifier.calls)
	require.Equal(t, 0, store.sets)
}

func TestApplyExactlyOneNotificationPerTransition(t *testing.T) {
	store := newFakeStore()
	store.statuses[testItem.URL] = StatusOutOfStock
	notifier := &fakeNotifier{}
	svc := newTestService(&fakeFetcher{}, store, notifier)

	ctx := context.Background()
	require.NoError(t, svc.Apply(ctx, testItem, result(StatusInStock)))
	require.NoError(t, svc.Apply(ctx, testItem, result(StatusInStock)))
	require.NoError(t, svc.Apply(ctx, testItem, result(StatusInStock)))

	require.Equal(t, 1, notifier.calls)
}

func TestApplyDropToOutOfStockPersistsWithoutNotifying(t *testing.T) {
	store := newFakeStore()
	store.statuses[testItem.URL] = StatusInStock
	notifier := &fakeNotifier{}
	svc := newTestService(&fakeFetcher{}, store, notifier)

	err := svc.Apply(context.Background(), testItem, result(StatusOutOfStock))
	require.NoError(t, err)
	require.Equal(t, 0, notifier.calls)
	require.Equal(t, StatusOutOfStock, store.statuses[testItem.URL])
}

func TestApplyErrorResultNeverOverwrites(t *testing.T) {
	store := newFakeStore()
	store.statuses[testItem.URL] = StatusOutOfStock
	notifier := &fakeNotifier{}
	svc := newTestService(&fakeFetcher{}, store, notifier)

	err := svc.Apply(context.Background(), testItem, result(StatusError))
	require.NoError(t, err)
	require.Equal(t, 0, notifier.calls)
	require.Equal(t, 0, store.sets)
	require.Equal(t, StatusOutOfStock, store.statuses[testItem.URL])
}

func TestApplyFailedNotificationRetainsPreviousStatus(t *testing.T) {
	store := newFakeStore()
	store.statuses[testItem.URL] = StatusOutOfStock
	notifier := &fakeNotifier{err: errors.New("smtp: connection refused")}
	svc := newTestService(&fakeFetcher{}, store, notifier)

	err := svc.Apply(context.Background(), testItem, result(StatusInStock))
	require.Error(t, err)
	require.Equal(t, 0, store.sets)
	require.Equal(t, StatusOutOfStock, store.statuses[testItem.URL])
}

func TestCheckItemFetchFailureYieldsErrorResult(t *testing.T) {
	store := newFakeStore()
	store.statuses[testItem.URL] = StatusInStock
	notifier := &fakeNotifier{}
	svc := newTestService(&fakeFetcher{err: errors.New("net: timeout")}, store, notifier)

	res, err := svc.CheckItem(context.Background(), testItem)
	require.NoError(t, err)
	require.Equal(t, StatusError, res.Status)
	require.Equal(t, 0, store.sets)
	require.Equal(t, StatusInStock, store.statuses[testItem.URL])
}

func TestCheckItemEndToEnd(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	fetcher := &fakeFetcher{html: `<html><body><input id="add-to-cart-button" type="submit"/></body></html>`}
	svc := newTestService(fetcher, store, notifier)

	res, err := svc.CheckItem(context.Background(), testItem)
	require.NoError(t, err)
	require.Equal(t, StatusInStock, res.Status)
	require.Equal(t, 1, notifier.calls)
	require.Equal(t, StatusInStock, store.statuses[testItem.URL])
}

func TestApplyStoreReadFailure(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("disk gone")
	notifier := &fakeNotifier{}
	svc := newTestService(&fakeFetcher{}, store, notifier)

	err := svc.Apply(context.Background(), testItem, result(StatusInStock))
	require.Error(t, err)
	require.Equal(t, 0, notifier.calls)
}
