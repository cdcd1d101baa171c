// Package config provides configuration loading and management for the
// catmip toolchain.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete catmip configuration
type Config struct {
	Paths  PathsConfig  `yaml:"paths"`
	Site   SiteConfig   `yaml:"site"`
	Export ExportConfig `yaml:"export"`
	Serve  ServeConfig  `yaml:"serve"`
	NATS   NATSConfig   `yaml:"nats"`
}

// PathsConfig locates the registry trees
type PathsConfig struct {
	// Standards is the directory holding <status>/*.yaml term files
	Standards string `yaml:"standards"`
	// Build is the output directory for generated artifacts
	Build string `yaml:"build"`
	// Assets holds hand-written pages and images copied into the site
	Assets string `yaml:"assets"`
}

// SiteConfig configures documentation generation
type SiteConfig struct {
	// Title is the site title used on the root index
	Title string `yaml:"title"`
}

// ExportConfig configures the machine-readable exports
type ExportConfig struct {
	// StdVersion is the standard version stamped on CSV rows (e.g. "v1.0")
	StdVersion string `yaml:"std_version"`
}

// ServeConfig configures the documentation server
type ServeConfig struct {
	// Address is the listen address (host:port)
	Address string `yaml:"address"`
	// WatchDebounce is how long to wait for more changes before rebuilding
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// NATSConfig configures registry distribution
type NATSConfig struct {
	// URL is the NATS server URL (empty disables publishing)
	URL string `yaml:"url"`
	// SubjectPrefix is the root of the term event subjects
	SubjectPrefix string `yaml:"subject_prefix"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			Standards: "standards",
			Build:     "build",
			Assets:    "assets",
		},
		Site: SiteConfig{
			Title: "CAT-MIP Terminology Registry",
		},
		Export: ExportConfig{
			StdVersion: "v1.0",
		},
		Serve: ServeConfig{
			Address:       "0.0.0.0:8000",
			WatchDebounce: 500 * time.Millisecond,
		},
		NATS: NATSConfig{
			URL:           "",
			SubjectPrefix: "catmip.registry",
		},
	}
}

// DocsDir returns the generated docs directory inside the build tree.
func (c *Config) DocsDir() string {
	return filepath.Join(c.Paths.Build, "docs")
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Paths.Standards == "" {
		return fmt.Errorf("paths.standards is required")
	}
	if c.Paths.Build == "" {
		return fmt.Errorf("paths.build is required")
	}
	if c.Serve.Address == "" {
		return fmt.Errorf("serve.address is required")
	}
	if c.Serve.WatchDebounce < 0 {
		return fmt.Errorf("serve.watch_debounce must not be negative")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Paths
	if other.Paths.Standards != "" {
		c.Paths.Standards = other.Paths.Standards
	}
	if other.Paths.Build != "" {
		c.Paths.Build = other.Paths.Build
	}
	if other.Paths.Assets != "" {
		c.Paths.Assets = other.Paths.Assets
	}

	// Site
	if other.Site.Title != "" {
		c.Site.Title = other.Site.Title
	}

	// Export
	if other.Export.StdVersion != "" {
		c.Export.StdVersion = other.Export.StdVersion
	}

	// Serve
	if other.Serve.Address != "" {
		c.Serve.Address = other.Serve.Address
	}
	if other.Serve.WatchDebounce != 0 {
		c.Serve.WatchDebounce = other.Serve.WatchDebounce
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.SubjectPrefix != "" {
		c.NATS.SubjectPrefix = other.NATS.SubjectPrefix
	}
}
