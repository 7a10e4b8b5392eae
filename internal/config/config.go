// Package config loads sprintfang configuration from file, environment,
// and defaults.
package config

import "errors"

// Config is the top-level configuration struct for sprintfang.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	DataDir      string       `mapstructure:"data_dir"`
	DoneStatuses []string     `mapstructure:"done_statuses"`
	Server       ServerConfig `mapstructure:"server"`
	Log          LogConfig    `mapstructure:"log"`
	OTLP         OTLPConfig   `mapstructure:"otlp"`
}

// ServerConfig holds upload server settings.
type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ReadTimeoutSec  int `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec  int `mapstructure:"idle_timeout_sec"`
	MaxUploadMB     int `mapstructure:"max_upload_mb"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// OTLPConfig holds trace export settings for the upload server.
type OTLPConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidPort indicates the server port is out of range.
	ErrInvalidPort = errors.New("server.port must be between 1 and 65535")
	// ErrInvalidTimeout indicates a server timeout is negative.
	ErrInvalidTimeout = errors.New("server timeouts must be non-negative")
	// ErrInvalidMaxUpload indicates the upload size limit is not positive.
	ErrInvalidMaxUpload = errors.New("server.max_upload_mb must be positive")
	// ErrInvalidLogLevel indicates an unrecognized log level.
	ErrInvalidLogLevel = errors.New("log.level must be one of debug, info, warn, error")
	// ErrEmptyDoneStatuses indicates the done-status set is empty.
	ErrEmptyDoneStatuses = errors.New("done_statuses must not be empty")
)

const maxPort = 65535

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > maxPort {
		return ErrInvalidPort
	}

	if c.Server.ReadTimeoutSec < 0 || c.Server.WriteTimeoutSec < 0 || c.Server.IdleTimeoutSec < 0 {
		return ErrInvalidTimeout
	}

	if c.Server.MaxUploadMB < 1 {
		return ErrInvalidMaxUpload
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}

	if len(c.DoneStatuses) == 0 {
		return ErrEmptyDoneStatuses
	}

	return nil
}
