package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// rcConfig is the shape of an optional .lltracerc, resolved the way
// resolveProjectToml locates surge.toml: current directory first, then
// each parent, stopping at the first match.
type rcConfig struct {
	Color         string `toml:"color"`
	DefaultFormat string `toml:"default_format"`
}

func loadRC(startDir string) (rcConfig, error) {
	cfg := rcConfig{Color: "auto", DefaultFormat: ""}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return cfg, err
	}
	for {
		candidate := filepath.Join(dir, ".lltracerc")
		if _, statErr := os.Stat(candidate); statErr == nil {
			if _, err := toml.DecodeFile(candidate, &cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cfg, nil
		}
		dir = parent
	}
}
