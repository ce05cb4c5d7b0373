package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	require.Equal(t, "browser", cfg.GetString("fetcher.type"))
	require.Equal(t, "file", cfg.GetString("store.type"))
	require.Equal(t, "smtp", cfg.GetString("notify.type"))
	require.Equal(t, "status.json", cfg.GetString("store.file_path"))
	require.True(t, cfg.GetBool("browser.headless"))

	interval, err := cfg.GetDuration("watcher.interval")
	require.NoError(t, err)
	require.Equal(t, 15*time.Minute, interval)

	delay, err := cfg.GetDuration("watcher.item_delay")
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, delay)

	classifier := cfg.GetClassifier()
	require.NotEmpty(t, classifier.CartSelectors)
	require.NotEmpty(t, classifier.AvailabilitySelectors)
	require.Contains(t, classifier.UnavailablePhrases, "currently unavailable")
	require.Contains(t, classifier.UnavailablePhrases, "out of stock")
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"fetcher": {"type": "http"}}`), 0644))

	cfg, err := NewFromFile(path)
	require.NoError(t, err)
	require.Equal(t, "http", cfg.GetString("fetcher.type"))
	// Keys the file omits still fall back to defaults
	require.Equal(t, "file", cfg.GetString("store.type"))
}

func TestNewFromFileMissing(t *testing.T) {
	_, err := NewFromFile(filepath.Join(t.TempDir(), "config.json"))
	require.Error(t, err)
}

func TestGetItems(t *testing.T) {
	v := NewEmptyViper()
	v.Set("items", []map[string]interface{}{
		{"url": "https://shop.example/a", "name": "Item A"},
		{"url": "https://shop.example/b"},
	})
	cfg := NewFromViper(v)

	items, err := cfg.GetItems()
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "https://shop.example/a", items[0].URL)
	require.Equal(t, "Item A", items[0].Name)
	require.Equal(t, "https://shop.example/b", items[1].URL)
	require.Empty(t, items[1].Name)
}

func TestGetItemsEmpty(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	items, err := cfg.GetItems()
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestGetSMTP(t *testing.T) {
	v := NewEmptyViper()
	v.Set("smtp.host", "mail.example.com")
	v.Set("smtp.port", 465)
	v.Set("smtp.from", "alerts@example.com")
	v.Set("smtp.to", []string{"me@example.com"})
	cfg := NewFromViper(v)

	smtp := cfg.GetSMTP()
	require.Equal(t, "mail.example.com", smtp.Host)
	require.Equal(t, 465, smtp.Port)
	require.Equal(t, "alerts@example.com", smtp.From)
	require.Equal(t, []string{"me@example.com"}, smtp.To)
}

func TestGetBrowser(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	browser := cfg.GetBrowser()
	require.True(t, browser.Headless)
	require.NotEmpty(t, browser.UserAgent)
	require.NotEmpty(t, browser.InterstitialSelectors)
	require.Empty(t, browser.ExecPath)
}

func TestInvalidDuration(t *testing.T) {
	v := NewEmptyViper()
	v.Set("watcher.interval", "soon")
	cfg := NewFromViper(v)

	_, err := cfg.GetDuration("watcher.interval")
	require.Error(t, err)
}
