package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// StockCheckService is the core service for availability checking
type StockCheckService struct {
	fetcher    PageFetcher
	classifier *Classifier
	store      StatusRepository
	notifier   Notifier
	logger     *zap.Logger
}

// NewStockCheckService creates a new stock check service
func NewStockCheckService(
	fetcher PageFetcher,
	classifier *Classifier,
	store StatusRepository,
	notifier Notifier,
	logger *zap.Logger,
) *StockCheckService {
	return &StockCheckService{
		fetcher:    fetcher,
		classifier: classifier,
		store:      store,
		notifier:   notifier,
		logger:     logger,
	}
}

// CheckItem fetches and classifies a single item, then applies the result
// against the stored status. A fetch failure yields an error result and
// leaves the stored status untouched.
func (s *StockCheckService) CheckItem(ctx context.Context, item Item) (*CheckResult, error) {
	started := time.Now()

	page, err := s.fetcher.Fetch(ctx, item.URL)
	if err != nil {
		s.logger.Warn("Failed to fetch page",
			zap.String("url", item.URL),
			zap.String("item", item.Name),
			zap.Error(err))
		return &CheckResult{
			Status:    StatusError,
			Indicator: err.Error(),
			CheckedAt: started,
			Elapsed:   time.Since(started),
		}, nil
	}

	result := s.classifier.Classify(page)
	s.logger.Debug("Classified page",
		zap.String("url", item.URL),
		zap.String("status", string(result.Status)),
		zap.String("indicator", result.Indicator),
		zap.Duration("elapsed", result.Elapsed))

	if err := s.Apply(ctx, item, result); err != nil {
		return result, err
	}
	return result, nil
}

// Apply compares a check result to the stored status and performs the
// transition: alert on a flip into in-stock, persist any real change.
// Error results never overwrite a previously stored status.
func (s *StockCheckService) Apply(ctx context.Context, item Item, result *CheckResult) error {
	if result.Status == StatusError || result.Status == StatusUnknown {
		s.logger.Debug("Check errored, keeping previous status",
			zap.String("url", item.URL),
			zap.String("indicator", result.Indicator))
		return nil
	}

	prev, err := s.store.Get(ctx, item.URL)
	if err != nil {
		return fmt.Errorf("failed to read stored status for %s: %w", item.URL, err)
	}

	if prev == result.Status {
		return nil
	}

	if result.Status == StatusInStock {
		// Persist only after the alert went out, so a failed send is
		// retried on the next cycle instead of being lost
		if err := s.notifier.NotifyAvailable(ctx, item, result); err != nil {
			return fmt.Errorf("failed to send availability alert for %s: %w", item.URL, err)
		}
		s.logger.Info("Item back in stock, alert sent",
			zap.String("url", item.URL),
			zap.String("item", item.Name),
			zap.String("indicator", result.Indicator))
	}

	if err := s.store.Set(ctx, item.URL, result.Status); err != nil {
		return fmt.Errorf("failed to persist status for %s: %w", item.URL, err)
	}

	s.logger.Info("Status changed",
		zap.String("url", item.URL),
		zap.String("item", item.Name),
		zap.String("from", string(prev)),
		zap.String("to", string(result.Status)))

	return nil
}
