package core

import (
	"context"
)

// PageFetcher defines the interface for retrieving a rendered product page
type PageFetcher interface {
	// Fetch retrieves the rendered page at the given URL
	Fetch(ctx context.Context, url string) (*Page, error)
}

// StatusRepository defines the interface for persisting last observed statuses
type StatusRepository interface {
	// Get retrieves the stored status for an item URL; StatusUnknown if never seen
	Get(ctx context.Context, url string) (Status, error)

	// Set stores the status for an item URL
	Set(ctx context.Context, url string, status Status) error

	// All returns the full url -> status mapping
	All(ctx context.Context) (map[string]Status, error)
}

// Notifier defines the interface for delivering availability alerts
type Notifier interface {
	// NotifyAvailable reports that an item has come back in stock
	NotifyAvailable(ctx context.Context, item Item, result *CheckResult) error
}
