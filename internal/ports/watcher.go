package ports

// Watcher defines the interface for the availability poll loop
type Watcher interface {
	// Start starts the poll loop
	Start() error

	// Stop stops the poll loop and waits for the current cycle to finish
	Stop() error
}
