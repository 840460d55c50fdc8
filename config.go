package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".loxi.yaml"

// config holds the driver settings read from the YAML config file.
// Command-line flags override them.
type config struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	PrintAST    bool   `yaml:"print_ast"`
	Debug       bool   `yaml:"debug"`
}

func defaultConfig() config {
	return config{Prompt: "> ", HistoryFile: "~/.loxi_history"}
}

// loadConfig reads the config file at path. With an empty path it
// reads ~/.loxi.yaml if there is one and falls back to the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, defaultConfigFile)
	}

	file, err := os.Open(expandHome(path))
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.Prompt == "" {
		cfg.Prompt = defaultConfig().Prompt
	}
	return cfg, nil
}

// expandHome replaces a leading "~/" with the user's home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
