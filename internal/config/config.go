package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultRoot         = "."
	defaultListenAddr   = "0.0.0.0:3000"
	defaultTitle        = "Index Listing"
	defaultStatsCommand = "cloc"
	defaultMetricsPath  = "/metrics"
)

type Config struct {
	Root       string        `yaml:"root"`
	ListenAddr string        `yaml:"listen_addr"`
	Title      string        `yaml:"title"`
	Stats      StatsConfig   `yaml:"stats"`
	Metrics    MetricsConfig `yaml:"metrics"`
}

type StatsConfig struct {
	Command string `yaml:"command"`
	// Timeout bounds a single stats run at the HTTP boundary. Zero leaves the
	// run unbounded.
	Timeout time.Duration `yaml:"timeout"`
}

type MetricsConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"`
}

func (m MetricsConfig) IsEnabled() bool {
	if m.Enabled == nil {
		return true
	}
	return *m.Enabled
}

// Load reads the YAML file at path, applies environment overrides and fills
// defaults. An empty or missing path yields the defaults. Root existence is
// left to the caller so that command line flags can still replace it.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)

	return applyDefaults(cfg)
}

// loadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if root, ok := lookupEnv("INDEX_LISTING_ROOT"); ok {
		cfg.Root = root
	}
	if addr, ok := lookupEnv("INDEX_LISTING_LISTEN_ADDR"); ok {
		cfg.ListenAddr = addr
	}
	if command, ok := lookupEnv("INDEX_LISTING_STATS_COMMAND"); ok {
		cfg.Stats.Command = command
	}
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

func applyDefaults(cfg *Config) (*Config, error) {
	if strings.TrimSpace(cfg.Root) == "" {
		cfg.Root = defaultRoot
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	if cfg.Title == "" {
		cfg.Title = defaultTitle
	}
	if cfg.Stats.Command == "" {
		cfg.Stats.Command = defaultStatsCommand
	}
	if strings.TrimSpace(cfg.Stats.Command) == "" {
		return nil, fmt.Errorf("stats.command must not be blank")
	}
	if cfg.Stats.Timeout < 0 {
		return nil, fmt.Errorf("stats.timeout must not be negative")
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = defaultMetricsPath
	}
	if !strings.HasPrefix(cfg.Metrics.Path, "/") || cfg.Metrics.Path == "/" {
		return nil, fmt.Errorf("metrics.path must start with '/' and must not be '/'")
	}

	return cfg, nil
}
