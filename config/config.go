package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate when a setting is out of range.
var ErrInvalid = errors.New("invalid configuration")

// Config is the root configuration of the application.
// It is loaded from YAML and can be overridden by environment variables.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	UI       UIConfig       `yaml:"ui"`
}

// AppConfig identifies the application to the host runtime.
type AppConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// DatabaseConfig controls how the local database is built.
type DatabaseConfig struct {
	// Dir overrides the host storage root. Empty means "use the host's".
	Dir      string `yaml:"dir"`
	Debug    bool   `yaml:"debug"`
	InMemory bool   `yaml:"in_memory"`
}

// LoggingConfig contains logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// Output is stdout, stderr or a file path.
	Output string `yaml:"output"`
}

// UIConfig contains the main window settings.
type UIConfig struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		App: AppConfig{
			ID:   "com.strudelauxpommes.demo",
			Name: "Demo",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "app.log",
		},
		UI: UIConfig{
			Width:  900,
			Height: 600,
		},
	}
}

// Load reads the YAML file at path on top of Default and applies environment overrides.
// A missing file is not an error: defaults and environment are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies DEMO_* environment variables.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("DEMO_DATA_DIR"); v != "" {
		c.Database.Dir = v
	}
	if v := os.Getenv("DEMO_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("DEMO_DB_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DEMO_DB_DEBUG: %w", err)
		}
		c.Database.Debug = debug
	}
	return nil
}

// Validate checks the configuration for values the application cannot run with.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.App.ID) == "" {
		errs = append(errs, "app.id is required")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("logging.format %q is not one of json, text", c.Logging.Format))
	}

	if c.UI.Width <= 0 || c.UI.Height <= 0 {
		errs = append(errs, "ui.width and ui.height must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	return nil
}
