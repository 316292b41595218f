package worker

import (
	"fmt"
	"time"
)

// Config holds the configuration for the background fleet scanner.
type Config struct {
	// ScanInterval is how often the scanner recomputes component
	// conditions and generates work orders fleet-wide.
	// Default: 15 minutes
	ScanInterval time.Duration

	// ShutdownTimeout is how long to wait for a running scan to complete
	// during graceful shutdown. After this timeout, the scanner stops even
	// if a scan is still running.
	// Default: 30 seconds
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		ScanInterval:    15 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any values are invalid.
func (c Config) Validate() error {
	if c.ScanInterval < 1*time.Second {
		return fmt.Errorf("scan interval must be at least 1 second, got %v", c.ScanInterval)
	}
	if c.ShutdownTimeout < 1*time.Second {
		return fmt.Errorf("shutdown timeout must be at least 1 second, got %v", c.ShutdownTimeout)
	}
	return nil
}
