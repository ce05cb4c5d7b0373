package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath("/etc/stock-watcher/")
	v.AddConfigPath("$HOME/.stock-watcher")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("STOCK_WATCHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromFile creates a configuration instance from an explicit config file
// path, skipping the search paths
func NewFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")
	v.SetConfigFile(path)

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("STOCK_WATCHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// Reload re-reads the config file so item and interval changes take
// effect on the next poll cycle without a restart
func (c *Config) Reload() error {
	if c.v.ConfigFileUsed() == "" {
		return nil
	}
	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to reload config file: %w", err)
	}
	return nil
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Watcher defaults
	v.SetDefault("watcher.interval", "15m")
	v.SetDefault("watcher.item_delay", "5s")

	// Fetcher defaults
	v.SetDefault("fetcher.type", "browser")

	// Browser defaults
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.nav_timeout", "30s")
	v.SetDefault("browser.exec_path", "")
	v.SetDefault("browser.user_agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("browser.interstitial_selectors", []string{
		`button[alt="Continue shopping"]`,
		`input[type="submit"][aria-labelledby="continue"]`,
	})

	// HTTP fetcher defaults
	v.SetDefault("http.timeout", "20s")

	// Store defaults
	v.SetDefault("store.type", "file")
	v.SetDefault("store.file_path", "status.json")
	v.SetDefault("store.sqlite_path", "/data/stock_status.db")
	v.SetDefault("store.mysql_dsn", "user:password@tcp(localhost:3306)/stock_watcher")
	v.SetDefault("store.history_retention", "720h")
	v.SetDefault("store.cleanup_frequency", "1h")

	// Notifier defaults
	v.SetDefault("notify.type", "smtp")
	v.SetDefault("smtp.host", "localhost")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.to", []string{})

	// Classifier defaults
	v.SetDefault("classifier.cart_selectors", []string{
		"#add-to-cart-button",
		"#buy-now-button",
		`input[name="submit.add-to-cart"]`,
		`button[name="add"]`,
		`[data-action="add-to-cart"]`,
	})
	v.SetDefault("classifier.availability_selectors", []string{
		"#availability",
		"#outOfStock",
		".availability",
		"[data-availability]",
	})
	v.SetDefault("classifier.unavailable_phrases", []string{
		"currently unavailable",
		"out of stock",
		"temporarily out of stock",
		"sold out",
	})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
