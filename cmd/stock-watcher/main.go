package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/stock-watcher/internal/core"
	"github.com/mikey/stock-watcher/internal/di"
	"github.com/mikey/stock-watcher/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	w ports.Watcher,
	fetcher core.PageFetcher,
	store core.StatusRepository,
) error {
	defer logger.Sync()

	// Start the poll loop
	if err := w.Start(); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stop the poll loop
	if err := w.Stop(); err != nil {
		logger.Error("Failed to stop watcher", zap.Error(err))
	}

	// Close the browser if one is open
	if closer, ok := fetcher.(interface{ CloseSession() }); ok {
		closer.CloseSession()
	}

	// Stop the store if needed
	if stopper, ok := store.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}
