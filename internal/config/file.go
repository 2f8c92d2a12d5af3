package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadWithFile layers configuration in three steps: defaults, the YAML file at path,
// then environment variables. An empty path behaves like Load.
func LoadWithFile(path string) (*AppConfig, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	applyEnv(cfg)
	cfg.Embedding.fillDim()
	return cfg, nil
}
