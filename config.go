package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/nwah/naviwatch-bridge/gateway"
	"github.com/nwah/naviwatch-bridge/index"
	"github.com/nwah/naviwatch-bridge/nav"
	"github.com/nwah/naviwatch-bridge/watch"
)

// Config holds the application configuration
type Config struct {
	Port    string         `toml:"port"`
	Nav     nav.NavConfig  `toml:"nav"`
	Watch   watch.Config   `toml:"watch"`
	Index   index.Config   `toml:"index"`
	Gateway gateway.Config `toml:"gateway"`
}

var config Config

func defaultConfig() Config {
	return Config{
		Port: ":8080",
		Nav: nav.NavConfig{
			Mode:           nav.DefaultMode,
			TimeoutSeconds: nav.DefaultTimeoutSeconds,
		},
		Watch: watch.DefaultConfig(),
		Index: index.Config{
			Backend:        index.BackendNone,
			Limit:          index.DefaultLimit,
			TimeoutSeconds: index.DefaultTimeoutSeconds,
		},
		Gateway: gateway.Config{
			QueueSize:   gateway.DefaultQueueSize,
			PingSeconds: gateway.DefaultPingSeconds,
		},
	}
}

// LoadConfig loads the configuration from a TOML file. Keys missing from
// the file keep their defaults; DATABASE_URL overrides index.database_url.
func LoadConfig(filename string) error {
	cfg := defaultConfig()
	if _, err := toml.DecodeFile(filename, &cfg); err != nil {
		return fmt.Errorf("error decoding config file: %w", err)
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Index.DatabaseURL = url
	}

	if err := validateConfig(&cfg); err != nil {
		return err
	}

	config = cfg
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.Port == "" {
		cfg.Port = ":8080" // Default port
	}
	if cfg.Nav.ValhallaURL == "" {
		return fmt.Errorf("nav.valhalla_url is required in config file")
	}
	if cfg.Nav.Mode != "" && !cfg.Nav.Mode.IsValid() {
		return fmt.Errorf("nav.mode must be one of: %s, %s, %s", nav.ModeWalking, nav.ModeBiking, nav.ModeAuto)
	}
	if cfg.Watch.MovementThreshold < 0 || cfg.Watch.ProximityThreshold < 0 {
		return fmt.Errorf("watch thresholds must not be negative")
	}
	switch cfg.Watch.StepEquality {
	case "", watch.EqualityOffset, watch.EqualityDistance:
	default:
		return fmt.Errorf("watch.step_equality must be %q or %q", watch.EqualityOffset, watch.EqualityDistance)
	}
	if cfg.Watch.SearchTimeoutSeconds <= 0 {
		return fmt.Errorf("watch.search_timeout_seconds must be positive")
	}
	return nil
}

// GetConfig returns the current configuration
func GetConfig() Config {
	return config
}
