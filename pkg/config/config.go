// Package config handles configuration for suite-reporter.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/devicelab-dev/suite-reporter/pkg/core"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileNames are the workspace config files, in lookup order.
var FileNames = []string{"suite-reporter.yaml", "suite-reporter.yml"}

// Config represents the workspace configuration (suite-reporter.yaml).
type Config struct {
	// Output settings
	Output    string   `yaml:"output"`    // Existing output directory
	Formats   []string `yaml:"formats"`   // Renderings to write
	Namespace string   `yaml:"namespace"` // XML namespace prefix
	Title     string   `yaml:"title"`     // Report title

	// Live view
	Addr     string        `yaml:"addr"`     // Listen address for serve
	Debounce time.Duration `yaml:"debounce"` // Live write debounce

	FailOnError bool `yaml:"failOnError"` // Exit non-zero when a test failed

	// Path of the file the config was loaded from, empty for defaults.
	Source string `yaml:"-"`
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, core.ErrInvalidConfig.WithCause(err).WithDetails(map[string]interface{}{"path": path})
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Source = path

	return &cfg, nil
}

// LoadFromDir looks for suite-reporter.yaml or suite-reporter.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	for _, name := range FileNames {
		configPath := filepath.Join(dir, name)
		if _, err := os.Stat(configPath); err == nil {
			return Load(configPath)
		}
	}

	// No config file found, return empty config
	return &Config{}, nil
}

// Resolve loads path when given. Otherwise it searches the working
// directory, then the home directory.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	for _, dir := range []string{".", GetHome()} {
		cfg, err := LoadFromDir(dir)
		if err != nil {
			return nil, err
		}
		if cfg.Source != "" {
			return cfg, nil
		}
	}
	return &Config{}, nil
}

// Validate checks values that cannot be checked by decoding alone.
func (c *Config) Validate() error {
	if c.Debounce < 0 {
		return core.ErrInvalidConfig.WithMessage(fmt.Sprintf("debounce must not be negative: %s", c.Debounce))
	}
	if c.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Addr); err != nil {
			return core.ErrInvalidConfig.WithMessage(fmt.Sprintf("invalid addr %q", c.Addr)).WithCause(err)
		}
	}
	return nil
}

// LoadDotEnv loads .env files from the working directory and the home
// directory into the process environment. Variables already set win, and so
// does the working directory over home. Missing files are skipped.
func LoadDotEnv() ([]string, error) {
	var loaded []string
	for _, path := range []string{".env", filepath.Join(GetHome(), ".env")} {
		err := godotenv.Load(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return loaded, fmt.Errorf("load %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
