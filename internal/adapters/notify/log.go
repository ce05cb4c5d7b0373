package notify

import (
	"context"

	"github.com/mikey/stock-watcher/internal/core"
	"go.uber.org/zap"
)

// LogNotifier writes alerts to the logger instead of sending email.
// Useful for dry runs and for exercising the loop without SMTP credentials.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new log-only notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{
		logger: logger,
	}
}

// NotifyAvailable reports that an item has come back in stock
func (n *LogNotifier) NotifyAvailable(ctx context.Context, item core.Item, result *core.CheckResult) error {
	n.logger.Info("ALERT: item back in stock",
		zap.String("item", item.Name),
		zap.String("url", item.URL),
		zap.String("indicator", result.Indicator))
	return nil
}
