// Package config provides configuration management for the compmatrix CLI.
package config

import (
	"time"

	"github.com/leapstack-labs/compmatrix/pkg/adapter"
)

// Config holds all CLI configuration options.
type Config struct {
	Database     DatabaseConfig `koanf:"database"`
	Server       ServerConfig   `koanf:"server"`
	Dataset      string         `koanf:"dataset"`
	Verbose      bool           `koanf:"verbose"`
	OutputFormat string         `koanf:"output"`
}

// DatabaseConfig selects and configures the store backend.
type DatabaseConfig struct {
	Type     string            `koanf:"type"`
	Path     string            `koanf:"path"`
	Host     string            `koanf:"host"`
	Port     int               `koanf:"port"`
	Name     string            `koanf:"name"`
	User     string            `koanf:"user"`
	Password string            `koanf:"password"`
	Options  map[string]string `koanf:"options"`
}

// ServerConfig holds configuration for the HTTP API server.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	Watch             bool          `koanf:"watch"`
}

// Default configuration values.
const (
	DefaultDatabaseType      = "sqlite"
	DefaultDatabasePath      = "compmatrix.db"
	DefaultPostgresPort      = 5432
	DefaultServerHost        = "127.0.0.1"
	DefaultServerPort        = 10982
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultShutdownTimeout   = 5 * time.Second
	DefaultOutput            = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// Default returns a Config with every default applied.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Type: DefaultDatabaseType,
			Path: DefaultDatabasePath,
		},
		Server: ServerConfig{
			Host:              DefaultServerHost,
			Port:              DefaultServerPort,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			ShutdownTimeout:   DefaultShutdownTimeout,
		},
		OutputFormat: DefaultOutput,
	}
}

// AdapterConfig converts the database section to an adapter configuration.
func (d DatabaseConfig) AdapterConfig() adapter.Config {
	return adapter.Config{
		Type:     d.Type,
		Path:     d.Path,
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Name,
		Username: d.User,
		Password: d.Password,
		Options:  d.Options,
	}
}
