package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Source.ImageExt != ".jpg" {
		t.Errorf("Expected default image extension to be .jpg, got %s", config.Source.ImageExt)
	}
	if config.Pages.StartPage != 1 {
		t.Errorf("Expected default start page to be 1, got %d", config.Pages.StartPage)
	}
	if config.Pages.MaxImagesPerPage != 200 {
		t.Errorf("Expected default max images per page to be 200, got %d", config.Pages.MaxImagesPerPage)
	}
	if config.Output.Directory != "./downloads" {
		t.Errorf("Expected default output directory to be ./downloads, got %s", config.Output.Directory)
	}
	if config.HTTP.Timeout != 10*time.Second {
		t.Errorf("Expected default timeout to be 10s, got %v", config.HTTP.Timeout)
	}
	if config.HTTP.RequestDelay != 0 {
		t.Errorf("Expected request delay to be disabled by default, got %v", config.HTTP.RequestDelay)
	}
	if config.Download.Concurrent != 1 {
		t.Errorf("Expected default download mode to be sequential, got concurrent=%d", config.Download.Concurrent)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PAGEFETCH_BASE_URL", "https://env.test/gallery")
	t.Setenv("PAGEFETCH_PAGE_PREFIX", "album")
	t.Setenv("PAGEFETCH_IMAGE_EXT", ".png")
	t.Setenv("PAGEFETCH_START_PAGE", "5")
	t.Setenv("PAGEFETCH_LAST_PAGE", "9")
	t.Setenv("PAGEFETCH_MAX_IMAGES_PER_PAGE", "30")
	t.Setenv("PAGEFETCH_OUTPUT_DIR", "/tmp/test-downloads")
	t.Setenv("PAGEFETCH_TIMEOUT", "5s")
	t.Setenv("PAGEFETCH_REQUEST_DELAY", "250ms")
	t.Setenv("PAGEFETCH_CONCURRENT", "4")
	t.Setenv("PAGEFETCH_LOG_LEVEL", "debug")

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.Source.BaseURL != "https://env.test/gallery" {
		t.Errorf("Expected base URL from env, got %s", config.Source.BaseURL)
	}
	if config.Source.PagePrefix != "album" {
		t.Errorf("Expected page prefix album, got %s", config.Source.PagePrefix)
	}
	if config.Source.ImageExt != ".png" {
		t.Errorf("Expected image extension .png, got %s", config.Source.ImageExt)
	}
	if config.Pages.StartPage != 5 || config.Pages.LastPage != 9 {
		t.Errorf("Expected page range 5..9, got %d..%d", config.Pages.StartPage, config.Pages.LastPage)
	}
	if config.Pages.MaxImagesPerPage != 30 {
		t.Errorf("Expected max images per page 30, got %d", config.Pages.MaxImagesPerPage)
	}
	if config.Output.Directory != "/tmp/test-downloads" {
		t.Errorf("Expected output directory from env, got %s", config.Output.Directory)
	}
	if config.HTTP.Timeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", config.HTTP.Timeout)
	}
	if config.HTTP.RequestDelay != 250*time.Millisecond {
		t.Errorf("Expected request delay 250ms, got %v", config.HTTP.RequestDelay)
	}
	if config.Download.Concurrent != 4 {
		t.Errorf("Expected concurrent 4, got %d", config.Download.Concurrent)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %s", config.Logging.Level)
	}
}

func validTestConfig() *Config {
	cfg := DefaultConfig()
	cfg.Source.BaseURL = "https://example.test/gallery"
	cfg.Source.PagePrefix = "set"
	cfg.Pages.LastPage = 3
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{
			name:      "valid config",
			mutate:    func(c *Config) {},
			wantError: false,
		},
		{
			name:      "missing base URL",
			mutate:    func(c *Config) { c.Source.BaseURL = "" },
			wantError: true,
		},
		{
			name:      "base URL without scheme",
			mutate:    func(c *Config) { c.Source.BaseURL = "example.test/gallery" },
			wantError: true,
		},
		{
			name:      "empty prefix",
			mutate:    func(c *Config) { c.Source.PagePrefix = "" },
			wantError: true,
		},
		{
			name:      "extension without dot",
			mutate:    func(c *Config) { c.Source.ImageExt = "jpg" },
			wantError: true,
		},
		{
			name:      "start page below one",
			mutate:    func(c *Config) { c.Pages.StartPage = 0 },
			wantError: true,
		},
		{
			name: "last page before start page",
			mutate: func(c *Config) {
				c.Pages.StartPage = 5
				c.Pages.LastPage = 2
			},
			wantError: true,
		},
		{
			name:      "single page range is valid",
			mutate:    func(c *Config) { c.Pages.StartPage, c.Pages.LastPage = 4, 4 },
			wantError: false,
		},
		{
			name:      "non-positive max images per page",
			mutate:    func(c *Config) { c.Pages.MaxImagesPerPage = 0 },
			wantError: true,
		},
		{
			name:      "empty output directory",
			mutate:    func(c *Config) { c.Output.Directory = "" },
			wantError: true,
		},
		{
			name:      "non-positive timeout",
			mutate:    func(c *Config) { c.HTTP.Timeout = 0 },
			wantError: true,
		},
		{
			name:      "negative delay",
			mutate:    func(c *Config) { c.HTTP.RequestDelay = -time.Second },
			wantError: true,
		},
		{
			name:      "zero concurrent",
			mutate:    func(c *Config) { c.Download.Concurrent = 0 },
			wantError: true,
		},
		{
			name:      "excessive concurrent",
			mutate:    func(c *Config) { c.Download.Concurrent = 50 },
			wantError: true,
		},
		{
			name:      "invalid log level",
			mutate:    func(c *Config) { c.Logging.Level = "loud" },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantError && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Expected valid config, got error: %v", err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pagefetch.yaml")

	content := `source:
  base_url: "https://file.test/g"
  page_prefix: "vol"
  image_ext: ".gif"
pages:
  start_page: 2
  last_page: 8
  max_images_per_page: 40
http:
  timeout: 30s
  request_delay: 1s
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg := DefaultConfig()
	if err := cfg.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if cfg.Source.BaseURL != "https://file.test/g" {
		t.Errorf("Expected base URL from file, got %s", cfg.Source.BaseURL)
	}
	if cfg.Source.PagePrefix != "vol" || cfg.Source.ImageExt != ".gif" {
		t.Errorf("Expected source settings from file, got %+v", cfg.Source)
	}
	if cfg.Pages.StartPage != 2 || cfg.Pages.LastPage != 8 || cfg.Pages.MaxImagesPerPage != 40 {
		t.Errorf("Expected page settings from file, got %+v", cfg.Pages)
	}
	if cfg.HTTP.Timeout != 30*time.Second || cfg.HTTP.RequestDelay != time.Second {
		t.Errorf("Expected HTTP settings from file, got %+v", cfg.HTTP)
	}
	// Values not present in the file keep their defaults
	if cfg.Output.Directory != "./downloads" {
		t.Errorf("Expected default output directory to survive, got %s", cfg.Output.Directory)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected explicit missing config file to be an error")
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := validTestConfig()

	cfg.MergeCommandLineFlags(map[string]interface{}{
		"base-url":     "https://flag.test/g",
		"prefix":       "page",
		"start":        3,
		"last":         7,
		"ext":          ".webp",
		"max-per-page": 25,
		"output":       "/tmp/flag-out",
		"timeout":      20 * time.Second,
		"delay":        500 * time.Millisecond,
		"concurrent":   2,
		"log-level":    "warn",
	})

	if cfg.Source.BaseURL != "https://flag.test/g" {
		t.Errorf("Expected flag base URL to win, got %s", cfg.Source.BaseURL)
	}
	if cfg.Source.PagePrefix != "page" || cfg.Source.ImageExt != ".webp" {
		t.Errorf("Expected flag source settings, got %+v", cfg.Source)
	}
	if cfg.Pages.StartPage != 3 || cfg.Pages.LastPage != 7 || cfg.Pages.MaxImagesPerPage != 25 {
		t.Errorf("Expected flag page settings, got %+v", cfg.Pages)
	}
	if cfg.Output.Directory != "/tmp/flag-out" {
		t.Errorf("Expected flag output directory, got %s", cfg.Output.Directory)
	}
	if cfg.HTTP.Timeout != 20*time.Second || cfg.HTTP.RequestDelay != 500*time.Millisecond {
		t.Errorf("Expected flag HTTP settings, got %+v", cfg.HTTP)
	}
	if cfg.Download.Concurrent != 2 {
		t.Errorf("Expected flag concurrent setting, got %d", cfg.Download.Concurrent)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected flag log level, got %s", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidRange(t *testing.T) {
	_, err := Load("", map[string]interface{}{
		"base-url": "https://example.test/g",
		"prefix":   "set",
		"start":    9,
		"last":     2,
	})
	if err == nil {
		t.Fatal("Expected Load to reject start > last")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := validTestConfig()
	cfg.Pages.LastPage = 42
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded := DefaultConfig()
	if err := loaded.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if loaded.Pages.LastPage != 42 {
		t.Errorf("Expected saved last page to round-trip, got %d", loaded.Pages.LastPage)
	}
}
