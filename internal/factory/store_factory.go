package factory

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mikey/stock-watcher/internal/adapters/store"
	"github.com/mikey/stock-watcher/internal/config"
	"github.com/mikey/stock-watcher/internal/core"
	"go.uber.org/zap"
)

// StoreFactory creates status repositories based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStatusRepository creates a status repository based on the configuration
func (f *StoreFactory) CreateStatusRepository() (core.StatusRepository, error) {
	storeType := f.cfg.GetString("store.type")

	switch storeType {
	case "file":
		return store.NewFileStore(f.cfg.GetString("store.file_path"), f.logger)
	case "sqlite":
		retention, cleanupFreq, err := f.historySettings()
		if err != nil {
			return nil, err
		}
		sqlitePath := f.cfg.GetString("store.sqlite_path")
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(sqlitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteStore(sqlitePath, f.logger, retention, cleanupFreq)
	case "mysql":
		retention, cleanupFreq, err := f.historySettings()
		if err != nil {
			return nil, err
		}
		return store.NewMySQLStore(f.cfg.GetString("store.mysql_dsn"), f.logger, retention, cleanupFreq)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeType)
	}
}

func (f *StoreFactory) historySettings() (time.Duration, time.Duration, error) {
	retention, err := f.cfg.GetDuration("store.history_retention")
	if err != nil {
		return 0, 0, fmt.Errorf("invalid history retention: %w", err)
	}
	cleanupFreq, err := f.cfg.GetDuration("store.cleanup_frequency")
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cleanup frequency: %w", err)
	}
	return retention, cleanupFreq, nil
}
