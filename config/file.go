package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no config file is given. It is optional.
const DefaultPath = "newswatch.yaml"

// Load builds the configuration from defaults, the YAML file, and the
// environment, then validates it. An empty path falls back to
// NEWSWATCH_CONFIG and then DefaultPath; only an explicitly named file has to
// exist.
func Load(path string) (*Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv("NEWSWATCH_CONFIG")
	}
	if path == "" {
		path = DefaultPath
		explicit = false
	}

	cfg := Defaults()

	if err := loadFile(cfg, path, explicit); err != nil {
		return nil, err
	}

	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.finalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile overlays the YAML file at path onto cfg.
func loadFile(cfg *Config, path string, mustExist bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return nil // File doesn't exist -- not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}
