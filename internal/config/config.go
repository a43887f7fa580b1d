// ABOUTME: Demo settings loading with global + explicit config file merge
// ABOUTME: YAML configuration via gopkg.in/yaml.v3; later files override earlier ones

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds the merged configuration.
type Settings struct {
	Prompt      Prompt        `yaml:"prompt"`
	Ping        Ping          `yaml:"ping"`
	LogLevel    string        `yaml:"log_level,omitempty"`
	MetricsAddr string        `yaml:"metrics_addr,omitempty"`
	HistoryFile string        `yaml:"history_file,omitempty"`
	Spinner     time.Duration `yaml:"spinner,omitempty"`
}

// Prompt configures the two prompt styles the demo toggles between.
type Prompt struct {
	Short string `yaml:"short,omitempty"`
	Long  string `yaml:"long,omitempty"`
	Color string `yaml:"color,omitempty"`
}

// Ping configures the ping command.
type Ping struct {
	Count    int           `yaml:"count,omitempty"`
	Interval time.Duration `yaml:"interval,omitempty"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		Prompt: Prompt{
			Short: "> ",
			Long:  "ternimal ❯ ",
			Color: "12",
		},
		Ping: Ping{
			Count:    5,
			Interval: 500 * time.Millisecond,
		},
		LogLevel:    "info",
		HistoryFile: HistoryFile(),
		Spinner:     2 * time.Second,
	}
}

// Load merges the defaults, the global config file and path (if not
// empty), in that order. Missing files are skipped; an explicit path
// that does not exist is an error.
func Load(path string) (*Settings, error) {
	result := Default()

	global, err := loadFile(GlobalConfigFile())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}
	result = merge(result, global)

	if path != "" {
		explicit, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		result = merge(result, explicit)
	}

	ResolveEnvVars(result)
	return result, nil
}

// loadFile reads Settings from a YAML file.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// merge returns base with the non-zero values of override applied.
func merge(base, override *Settings) *Settings {
	if base == nil {
		base = &Settings{}
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Prompt.Short != "" {
		result.Prompt.Short = override.Prompt.Short
	}
	if override.Prompt.Long != "" {
		result.Prompt.Long = override.Prompt.Long
	}
	if override.Prompt.Color != "" {
		result.Prompt.Color = override.Prompt.Color
	}
	if override.Ping.Count != 0 {
		result.Ping.Count = override.Ping.Count
	}
	if override.Ping.Interval != 0 {
		result.Ping.Interval = override.Ping.Interval
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.MetricsAddr != "" {
		result.MetricsAddr = override.MetricsAddr
	}
	if override.HistoryFile != "" {
		result.HistoryFile = override.HistoryFile
	}
	if override.Spinner != 0 {
		result.Spinner = override.Spinner
	}

	return &result
}
