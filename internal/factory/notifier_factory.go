package factory

import (
	"fmt"

	"github.com/mikey/stock-watcher/internal/adapters/notify"
	"github.com/mikey/stock-watcher/internal/config"
	"github.com/mikey/stock-watcher/internal/core"
	"go.uber.org/zap"
)

// NotifierFactory creates notifiers based on configuration
type NotifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewNotifierFactory creates a new notifier factory
func NewNotifierFactory(cfg *config.Config, logger *zap.Logger) *NotifierFactory {
	return &NotifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateNotifier creates a notifier based on the configuration
func (f *NotifierFactory) CreateNotifier() (core.Notifier, error) {
	notifyType := f.cfg.GetString("notify.type")

	switch notifyType {
	case "smtp":
		smtpCfg := f.cfg.GetSMTP()
		return notify.NewEmailNotifier(
			smtpCfg.Host,
			smtpCfg.Port,
			smtpCfg.Username,
			smtpCfg.Password,
			smtpCfg.From,
			smtpCfg.To,
			f.logger,
		)
	case "log":
		return notify.NewLogNotifier(f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported notifier type: %s", notifyType)
	}
}
