package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mikey/stock-watcher/internal/config"
	"github.com/mikey/stock-watcher/internal/core"
	"github.com/mikey/stock-watcher/internal/factory"
	"github.com/mikey/stock-watcher/internal/logging"
	"github.com/mikey/stock-watcher/internal/utils"
	"go.uber.org/zap"
)

var (
	// Fetcher flags
	fetcherType = flag.String("fetcher", "browser", "Page fetcher (browser, http)")
	headless    = flag.Bool("headless", true, "Run the browser headless")
	execPath    = flag.String("chrome-path", "", "Path to the Chrome executable")
	navTimeout  = flag.Duration("timeout", 30*time.Second, "Per-page navigation timeout")

	// Input flags
	itemURL    = flag.String("url", "", "Product page URL to check")
	itemName   = flag.String("name", "", "Display name for the item")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	var cfg *config.Config
	var err error

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return 2
	}
	defer logger.Sync()

	url := *itemURL
	if url == "" && flag.NArg() > 0 {
		url = flag.Arg(0)
	}
	if url == "" {
		fmt.Println("Usage: stock-check [flags] <url>")
		flag.PrintDefaults()
		return 2
	}

	// Load configuration from file if specified
	if *configFile != "" {
		cfg, err = config.NewFromFile(*configFile)
		if err != nil {
			logger.Error("Failed to load configuration", zap.Error(err))
			return 2
		}
		logger.Info("Loaded configuration from file", zap.String("file", *configFile))
	} else {
		// Create config from command line flags
		cfg = createConfigFromFlags()
	}

	// Build the classifier
	normalizer := utils.NewTextNormalizer(logger)
	classifierCfg := cfg.GetClassifier()
	classifier := core.NewClassifier(
		classifierCfg.CartSelectors,
		classifierCfg.AvailabilitySelectors,
		classifierCfg.UnavailablePhrases,
		normalizer,
		logger,
	)

	// Build the fetcher
	fetcherFactory := factory.NewFetcherFactory(cfg, logger)
	fetcher, err := fetcherFactory.CreateFetcher()
	if err != nil {
		logger.Error("Failed to create fetcher", zap.Error(err))
		return 2
	}
	if closer, ok := fetcher.(interface{ CloseSession() }); ok {
		defer closer.CloseSession()
	}

	name := *itemName
	if name == "" {
		name = url
	}

	// Print check summary
	fmt.Printf("\n=== Check ===\n")
	fmt.Printf("Item: %s\n", name)
	fmt.Printf("URL: %s\n", url)
	fmt.Printf("Fetcher: %s\n", cfg.GetString("fetcher.type"))

	startTime := time.Now()

	page, err := fetcher.Fetch(context.Background(), url)
	if err != nil {
		logger.Error("Failed to fetch page", zap.Error(err))
		fmt.Printf("\n=== Results ===\n")
		fmt.Printf("Status: %s\n", core.StatusError)
		fmt.Printf("Indicator: %v\n", err)
		return 2
	}

	result := classifier.Classify(page)
	duration := time.Since(startTime)

	// Print results
	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Status: %s\n", result.Status)
	fmt.Printf("Indicator: %s\n", result.Indicator)
	fmt.Printf("Document size: %d bytes\n", len(page.HTML))
	fmt.Printf("Processing time: %v\n", duration)

	switch result.Status {
	case core.StatusInStock:
		return 0
	case core.StatusOutOfStock:
		return 1
	default:
		return 2
	}
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	// Set fetcher configuration
	v.Set("fetcher.type", *fetcherType)

	switch *fetcherType {
	case "browser":
		v.Set("browser.headless", *headless)
		v.Set("browser.exec_path", *execPath)
		v.Set("browser.nav_timeout", navTimeout.String())
	case "http":
		v.Set("http.timeout", navTimeout.String())
	}

	return config.NewFromViper(v)
}
