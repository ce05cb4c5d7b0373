package config

import "fmt"

// WatcherConfig represents the configuration for the poll loop
type WatcherConfig struct {
	Interval  string
	ItemDelay string
}

// BrowserConfig represents the configuration for the headless browser fetcher
type BrowserConfig struct {
	Headless              bool
	NavTimeout            string
	ExecPath              string
	UserAgent             string
	InterstitialSelectors []string
}

// HTTPConfig represents the configuration for the plain HTTP fetcher
type HTTPConfig struct {
	Timeout string
}

// SMTPConfig represents the configuration for outbound email
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// ClassifierConfig represents the configuration for the availability classifier
type ClassifierConfig struct {
	CartSelectors         []string
	AvailabilitySelectors []string
	UnavailablePhrases    []string
}

// Item is a single watched product page
type Item struct {
	URL  string `mapstructure:"url"`
	Name string `mapstructure:"name"`
}

// GetWatcher returns the poll loop configuration
func (c *Config) GetWatcher() WatcherConfig {
	return WatcherConfig{
		Interval:  c.GetString("watcher.interval"),
		ItemDelay: c.GetString("watcher.item_delay"),
	}
}

// GetBrowser returns the browser fetcher configuration
func (c *Config) GetBrowser() BrowserConfig {
	return BrowserConfig{
		Headless:              c.GetBool("browser.headless"),
		NavTimeout:            c.GetString("browser.nav_timeout"),
		ExecPath:              c.GetString("browser.exec_path"),
		UserAgent:             c.GetString("browser.user_agent"),
		InterstitialSelectors: c.GetStringSlice("browser.interstitial_selectors"),
	}
}

// GetHTTP returns the HTTP fetcher configuration
func (c *Config) GetHTTP() HTTPConfig {
	return HTTPConfig{
		Timeout: c.GetString("http.timeout"),
	}
}

// GetSMTP returns the outbound email configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Host:     c.GetString("smtp.host"),
		Port:     c.GetInt("smtp.port"),
		Username: c.GetString("smtp.username"),
		Password: c.GetString("smtp.password"),
		From:     c.GetString("smtp.from"),
		To:       c.GetStringSlice("smtp.to"),
	}
}

// GetClassifier returns the availability classifier configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		CartSelectors:         c.GetStringSlice("classifier.cart_selectors"),
		AvailabilitySelectors: c.GetStringSlice("classifier.availability_selectors"),
		UnavailablePhrases:    c.GetStringSlice("classifier.unavailable_phrases"),
	}
}

// GetItems returns the list of watched items
func (c *Config) GetItems() ([]Item, error) {
	var items []Item
	if err := c.v.UnmarshalKey("items", &items); err != nil {
		return nil, fmt.Errorf("failed to parse items: %w", err)
	}
	return items, nil
}
