package config

import (
	"fmt"
	"os"

	"github.com/dgallion1/docoutline/internal/outline"
	"gopkg.in/yaml.v3"
)

// LoadHeuristics reads classifier settings from a YAML file. Keys left out
// keep their defaults. An empty path returns the defaults.
func LoadHeuristics(path string) (outline.Config, error) {
	cfg := outline.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read heuristics: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse heuristics %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("heuristics %s: %w", path, err)
	}
	return cfg, nil
}
