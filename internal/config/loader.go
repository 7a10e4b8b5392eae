package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/sprintfang/internal/burndown"
)

// configName is the config file name without extension.
const configName = ".sprintfang"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for sprintfang settings.
const envPrefix = "SPRINTFANG"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// Defaults applied before any file or environment override.
const (
	DefaultServerPort      = 5000
	DefaultReadTimeoutSec  = 30
	DefaultWriteTimeoutSec = 60
	DefaultIdleTimeoutSec  = 120
	DefaultMaxUploadMB     = 32
	DefaultLogLevel        = "info"
)

// DefaultDataDir is the data root when none is configured.
var DefaultDataDir = filepath.Join(".", "data", "sprintfang")

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("data_dir", DefaultDataDir)
	viperCfg.SetDefault("done_statuses", burndown.DefaultDoneStatuses)

	viperCfg.SetDefault("server.port", DefaultServerPort)
	viperCfg.SetDefault("server.read_timeout_sec", DefaultReadTimeoutSec)
	viperCfg.SetDefault("server.write_timeout_sec", DefaultWriteTimeoutSec)
	viperCfg.SetDefault("server.idle_timeout_sec", DefaultIdleTimeoutSec)
	viperCfg.SetDefault("server.max_upload_mb", DefaultMaxUploadMB)

	viperCfg.SetDefault("log.level", DefaultLogLevel)
	viperCfg.SetDefault("log.json", false)

	viperCfg.SetDefault("otlp.endpoint", "")
	viperCfg.SetDefault("otlp.insecure", false)
}
