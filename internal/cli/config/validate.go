package config

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/compmatrix/pkg/adapter"
)

// OutputFormats lists the accepted values of the output key.
var OutputFormats = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("invalid database configuration: %w", err)
	}
	if err := validPort("server.port", c.Server.Port); err != nil {
		return err
	}
	if c.Server.ReadHeaderTimeout <= 0 {
		return fmt.Errorf("server.read_header_timeout must be positive, got %s", c.Server.ReadHeaderTimeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}
	if c.OutputFormat != "" && !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("unknown output format %q\nAvailable formats: %v", c.OutputFormat, OutputFormats)
	}
	return nil
}

// Validate checks the database section. The adapter registry decides which
// types exist.
func (d *DatabaseConfig) Validate() error {
	if d.Type == "" {
		return fmt.Errorf("database type is required")
	}
	if !adapter.IsRegistered(d.Type) {
		return &adapter.UnknownAdapterError{
			Type:      d.Type,
			Available: adapter.ListAdapters(),
		}
	}
	if d.Type == "postgres" {
		if d.Name == "" {
			return fmt.Errorf("database.name is required for postgres")
		}
		if err := validPort("database.port", d.Port); err != nil {
			return err
		}
	}
	return nil
}

func validPort(key string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", key, port)
	}
	return nil
}
