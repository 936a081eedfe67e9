package ports

// Frontend is a long-running entry point serving the scheduler
type Frontend interface {
	// Start begins serving in the background and returns once listening
	Start() error

	// Stop stops the frontend
	Stop() error
}
