package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for a fetch run. It is built once
// at startup and never mutated afterwards.
type Config struct {
	// Remote URL pattern settings
	Source SourceConfig `yaml:"source" json:"source"`

	// Page and image index ranges
	Pages PagesConfig `yaml:"pages" json:"pages"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// HTTP client settings
	HTTP HTTPConfig `yaml:"http" json:"http"`

	// Download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SourceConfig describes the remote URL pattern base/prefix_N/M.ext.
type SourceConfig struct {
	BaseURL    string `yaml:"base_url" json:"base_url"`
	PagePrefix string `yaml:"page_prefix" json:"page_prefix"`
	ImageExt   string `yaml:"image_ext" json:"image_ext"`
}

// PagesConfig holds the numeric ranges to probe.
type PagesConfig struct {
	StartPage        int `yaml:"start_page" json:"start_page"`
	LastPage         int `yaml:"last_page" json:"last_page"`
	MaxImagesPerPage int `yaml:"max_images_per_page" json:"max_images_per_page"`
}

// OutputConfig holds output directory configuration.
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
}

// HTTPConfig holds HTTP client configuration.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	RequestDelay time.Duration `yaml:"request_delay" json:"request_delay"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
}

// DownloadConfig holds download-specific configuration. Concurrent is 1 by
// default, which keeps the run strictly sequential; values above 1 enable
// the worker pool extension.
type DownloadConfig struct {
	Concurrent int `yaml:"concurrent" json:"concurrent"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `yaml:"level" json:"level"`
	File       string `yaml:"file" json:"file"`
	MaxSize    int    `yaml:"max_size" json:"max_size"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	MaxAge     int    `yaml:"max_age" json:"max_age"`
	Compress   bool   `yaml:"compress" json:"compress"`
}

// DefaultConfig returns a Config instance with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			ImageExt: ".jpg",
		},
		Pages: PagesConfig{
			StartPage:        1,
			LastPage:         1,
			MaxImagesPerPage: 200,
		},
		Output: OutputConfig{
			Directory: "./downloads",
		},
		HTTP: HTTPConfig{
			Timeout:      10 * time.Second,
			RequestDelay: 0,
			UserAgent:    "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
		},
		Download: DownloadConfig{
			Concurrent: 1,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   false,
		},
	}
}

// LoadFromEnv loads configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	if baseURL := os.Getenv("PAGEFETCH_BASE_URL"); baseURL != "" {
		c.Source.BaseURL = baseURL
	}
	if prefix := os.Getenv("PAGEFETCH_PAGE_PREFIX"); prefix != "" {
		c.Source.PagePrefix = prefix
	}
	if ext := os.Getenv("PAGEFETCH_IMAGE_EXT"); ext != "" {
		c.Source.ImageExt = ext
	}

	if start := os.Getenv("PAGEFETCH_START_PAGE"); start != "" {
		var val int
		fmt.Sscanf(start, "%d", &val)
		if val > 0 {
			c.Pages.StartPage = val
		}
	}
	if last := os.Getenv("PAGEFETCH_LAST_PAGE"); last != "" {
		var val int
		fmt.Sscanf(last, "%d", &val)
		if val > 0 {
			c.Pages.LastPage = val
		}
	}
	if max := os.Getenv("PAGEFETCH_MAX_IMAGES_PER_PAGE"); max != "" {
		var val int
		fmt.Sscanf(max, "%d", &val)
		if val > 0 {
			c.Pages.MaxImagesPerPage = val
		}
	}

	if outputDir := os.Getenv("PAGEFETCH_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}

	if timeout := os.Getenv("PAGEFETCH_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			c.HTTP.Timeout = d
		}
	}
	if delay := os.Getenv("PAGEFETCH_REQUEST_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil && d >= 0 {
			c.HTTP.RequestDelay = d
		}
	}
	if userAgent := os.Getenv("PAGEFETCH_USER_AGENT"); userAgent != "" {
		c.HTTP.UserAgent = userAgent
	}

	if concurrent := os.Getenv("PAGEFETCH_CONCURRENT"); concurrent != "" {
		var val int
		fmt.Sscanf(concurrent, "%d", &val)
		if val > 0 {
			c.Download.Concurrent = val
		}
	}

	if logLevel := os.Getenv("PAGEFETCH_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFile := os.Getenv("PAGEFETCH_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file.
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations.
func (c *Config) findConfigFile() string {
	locations := []string{
		".pagefetch.yaml",
		".pagefetch.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "pagefetch", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "pagefetch", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".pagefetch.yaml"),
		filepath.Join(os.Getenv("HOME"), ".pagefetch.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. Validation failures are
// fatal at startup, before any network activity.
func (c *Config) Validate() error {
	var errs []error

	if c.Source.BaseURL == "" {
		errs = append(errs, errors.New("base URL is required"))
	} else if !strings.HasPrefix(c.Source.BaseURL, "http://") && !strings.HasPrefix(c.Source.BaseURL, "https://") {
		errs = append(errs, errors.New("base URL must start with http:// or https://"))
	}
	if c.Source.PagePrefix == "" {
		errs = append(errs, errors.New("page prefix is required"))
	}
	if c.Source.ImageExt == "" || !strings.HasPrefix(c.Source.ImageExt, ".") {
		errs = append(errs, errors.New("image extension must start with a dot (e.g. .jpg)"))
	}

	if c.Pages.StartPage < 1 {
		errs = append(errs, errors.New("start page must be at least 1"))
	}
	if c.Pages.LastPage < c.Pages.StartPage {
		errs = append(errs, errors.New("last page must not be smaller than start page"))
	}
	if c.Pages.MaxImagesPerPage <= 0 {
		errs = append(errs, errors.New("max images per page must be positive"))
	}

	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}

	if c.HTTP.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.HTTP.RequestDelay < 0 {
		errs = append(errs, errors.New("request delay cannot be negative"))
	}

	if c.Download.Concurrent < 1 {
		errs = append(errs, errors.New("concurrent downloads must be at least 1"))
	}
	if c.Download.Concurrent > 10 {
		errs = append(errs, errors.New("concurrent downloads should not exceed 10"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if baseURL, ok := flags["base-url"].(string); ok && baseURL != "" {
		c.Source.BaseURL = baseURL
	}
	if prefix, ok := flags["prefix"].(string); ok && prefix != "" {
		c.Source.PagePrefix = prefix
	}
	if ext, ok := flags["ext"].(string); ok && ext != "" {
		c.Source.ImageExt = ext
	}
	if start, ok := flags["start"].(int); ok && start > 0 {
		c.Pages.StartPage = start
	}
	if last, ok := flags["last"].(int); ok && last > 0 {
		c.Pages.LastPage = last
	}
	if max, ok := flags["max-per-page"].(int); ok && max > 0 {
		c.Pages.MaxImagesPerPage = max
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.HTTP.Timeout = timeout
	}
	if delay, ok := flags["delay"].(time.Duration); ok && delay > 0 {
		c.HTTP.RequestDelay = delay
	}
	if userAgent, ok := flags["user-agent"].(string); ok && userAgent != "" {
		c.HTTP.UserAgent = userAgent
	}
	if concurrent, ok := flags["concurrent"].(int); ok && concurrent > 0 {
		c.Download.Concurrent = concurrent
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".pagefetch.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
