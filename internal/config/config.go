package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
type Config struct {
	LogLevel  string   `yaml:"logLevel"`  // debug | info | warn | error
	PrettyLog bool     `yaml:"prettyLog"` // console encoder instead of JSON
	Storage   Storage  `yaml:"storage"`
	Metadata  Metadata `yaml:"metadata"`
	Refresh   Refresh  `yaml:"refresh"`
	Check     Check    `yaml:"check"`
}

// Storage selects and configures the key-value backend.
type Storage struct {
	Backend string `yaml:"backend"` // sqlite | json | redis | memory
	Path    string `yaml:"path"`    // file path for sqlite and json
	Redis   Redis  `yaml:"redis"`
}

// Redis holds connection settings for the redis backend.
type Redis struct {
	Addr           string        `yaml:"addr"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db"`
	KeyPrefix      string        `yaml:"keyPrefix"`
	DialTimeout    time.Duration `yaml:"dialTimeout"`
	OpTimeout      time.Duration `yaml:"opTimeout"`
	ConnectTimeout time.Duration `yaml:"connectTimeout"`
	RetryInterval  time.Duration `yaml:"retryInterval"`
}

// Metadata configures the link-preview client.
type Metadata struct {
	Enabled  bool          `yaml:"enabled"`
	Provider string        `yaml:"provider"` // microlink | page
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Refresh configures the bulk metadata refresh.
type Refresh struct {
	Concurrency int `yaml:"concurrency"`
}

// Check configures the dead link check.
type Check struct {
	Concurrency    int           `yaml:"concurrency"`
	Timeout        time.Duration `yaml:"timeout"`
	ExcludeDomains []string      `yaml:"excludeDomains"` // 404s here may just be private pages
}

// Default returns the default configuration rooted at dir.
func Default(dir string) Config {
	return Config{
		LogLevel:  "warn",
		PrettyLog: true,
		Storage: Storage{
			Backend: "sqlite",
			Path:    filepath.Join(dir, "linkbox.db"),
			Redis: Redis{
				Addr:           "localhost:6379",
				KeyPrefix:      "linkbox:",
				DialTimeout:    5 * time.Second,
				OpTimeout:      3 * time.Second,
				ConnectTimeout: 15 * time.Second,
				RetryInterval:  500 * time.Millisecond,
			},
		},
		Metadata: Metadata{
			Enabled:  true,
			Provider: "microlink",
			Endpoint: "https://api.microlink.io",
			Timeout:  10 * time.Second,
		},
		Refresh: Refresh{Concurrency: 8},
		Check: Check{
			Concurrency:    10,
			Timeout:        10 * time.Second,
			ExcludeDomains: []string{"github.com", "gitlab.com"},
		},
	}
}

// Load reads config from the YAML file at path.
// Creates the file with defaults if it doesn't exist. Environment overrides are
// applied last.
func Load(path string) (*Config, error) {
	defaults := Default(filepath.Dir(path))

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		cfg := defaults
		// Non-fatal: defaults are usable even if the file can't be written
		_ = Save(path, &cfg)
		applyEnv(&cfg)
		return &cfg, nil
	}

	// Unmarshal on top of the defaults so missing fields keep them
	cfg := defaults
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnv(&cfg)
	return &cfg, nil
}

// Save writes config to the YAML file.
// Creates the directory if it doesn't exist.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultPath returns the default config path: ~/.config/linkbox/config.yaml
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "linkbox", "config.yaml"), nil
}

func applyEnv(cfg *Config) {
	if v := getenv("LINKBOX_BACKEND"); v != "" {
		cfg.Storage.Backend = strings.ToLower(v)
	}
	if v := getenv("LINKBOX_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := getenv("LINKBOX_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := getenv("LINKBOX_REDIS_ADDR"); v != "" {
		cfg.Storage.Redis.Addr = v
	}
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
