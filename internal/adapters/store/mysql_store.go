package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/stock-watcher/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the StatusRepository interface
type MySQLStore struct {
	db          *sql.DB
	logger      *zap.Logger
	retention   time.Duration
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMySQLStore creates a new MySQL status store
func NewMySQLStore(dsn string, logger *zap.Logger, retention, cleanupFreq time.Duration) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// Create tables if they don't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS item_status (
			url VARCHAR(768) PRIMARY KEY,
			status VARCHAR(32) NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create status table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS status_history (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			url VARCHAR(768) NOT NULL,
			prev_status VARCHAR(32) NOT NULL,
			status VARCHAR(32) NOT NULL,
			changed_at TIMESTAMP NOT NULL,
			INDEX idx_changed_at (changed_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}

	store := &MySQLStore{
		db:          db,
		logger:      logger,
		retention:   retention,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	// Start background cleanup
	go store.startCleanupTask()

	return store, nil
}

// Get retrieves the stored status for an item URL
func (s *MySQLStore) Get(ctx context.Context, url string) (core.Status, error) {
	var status string

	err := s.db.QueryRowContext(ctx, `
		SELECT status FROM item_status WHERE url = ?
	`, url).Scan(&status)

	if err != nil {
		if err == sql.ErrNoRows {
			return core.StatusUnknown, nil
		}
		return core.StatusUnknown, fmt.Errorf("failed to query status: %w", err)
	}

	return core.Status(status), nil
}

// Set stores the status for an item URL and records the transition
func (s *MySQLStore) Set(ctx context.Context, url string, status core.Status) error {
	prev, err := s.Get(ctx, url)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO item_status (url, status, updated_at)
		VALUES (?, ?, NOW())
		ON DUPLICATE KEY UPDATE status = VALUES(status), updated_at = VALUES(updated_at)
	`, url, string(status))
	if err != nil {
		return fmt.Errorf("failed to upsert status: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO status_history (url, prev_status, status, changed_at)
		VALUES (?, ?, ?, NOW())
	`, url, string(prev), string(status))
	if err != nil {
		s.logger.Error("Failed to record status history", zap.Error(err), zap.String("url", url))
	}

	return nil
}

// All returns the full url -> status mapping
func (s *MySQLStore) All(ctx context.Context) (map[string]core.Status, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT url, status FROM item_status`)
	if err != nil {
		return nil, fmt.Errorf("failed to query statuses: %w", err)
	}
	defer rows.Close()

	out := make(map[string]core.Status)
	for rows.Next() {
		var url, status string
		if err := rows.Scan(&url, &status); err != nil {
			return nil, fmt.Errorf("failed to scan status row: %w", err)
		}
		out[url] = core.Status(status)
	}

	return out, rows.Err()
}

// History returns the recorded transitions for an item, newest first
func (s *MySQLStore) History(ctx context.Context, url string) ([]core.StatusChange, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, prev_status, status, changed_at
		FROM status_history
		WHERE url = ?
		ORDER BY changed_at DESC, id DESC
	`, url)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var changes []core.StatusChange
	for rows.Next() {
		var change core.StatusChange
		var prev, status, changedAt string
		if err := rows.Scan(&change.URL, &prev, &status, &changedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		change.From = core.Status(prev)
		change.To = core.Status(status)
		change.At, err = time.Parse("2006-01-02 15:04:05", changedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse changed_at timestamp: %w", err)
		}
		changes = append(changes, change)
	}

	return changes, rows.Err()
}

// Cleanup removes history rows older than the retention window
func (s *MySQLStore) Cleanup(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM status_history WHERE changed_at <= ?
	`, time.Now().Add(-s.retention))

	if err != nil {
		return fmt.Errorf("failed to prune status history: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		s.logger.Debug("Pruned status history", zap.Int64("pruned_count", rowsAffected))
	}

	return nil
}

// startCleanupTask starts a background task to prune old history rows
func (s *MySQLStore) startCleanupTask() {
	ticker := time.NewTicker(s.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Cleanup(context.Background()); err != nil {
				s.logger.Error("Failed to prune history", zap.Error(err))
			}
		case <-s.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and closes the database connection
func (s *MySQLStore) Stop() {
	close(s.stopCh)
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
