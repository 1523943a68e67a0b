package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scrape.OutputFolder != "." {
		t.Errorf("OutputFolder = %q, want %q", cfg.Scrape.OutputFolder, ".")
	}
	if cfg.Scrape.InitBatchSize != 10 {
		t.Errorf("InitBatchSize = %d, want 10", cfg.Scrape.InitBatchSize)
	}
	if cfg.HTTP.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.UserAgent == "" {
		t.Error("expected a default user agent")
	}
	if cfg.Consent.CookieFile == "" {
		t.Error("expected a default cookie file location")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	content := `
scrape:
  output_folder: /tmp/posts
  reverse: true
  limit: 50
logging:
  verbose: true
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Scrape.OutputFolder != "/tmp/posts" {
		t.Errorf("OutputFolder = %q, want %q", cfg.Scrape.OutputFolder, "/tmp/posts")
	}
	if !cfg.Scrape.Reverse {
		t.Error("expected reverse to be set")
	}
	if cfg.Scrape.Limit != 50 {
		t.Errorf("Limit = %d, want 50", cfg.Scrape.Limit)
	}
	if !cfg.Logging.Verbose {
		t.Error("expected verbose to be set")
	}
	// Values the file leaves out keep their defaults.
	if cfg.Scrape.InitBatchSize != 10 {
		t.Errorf("InitBatchSize = %d, want 10", cfg.Scrape.InitBatchSize)
	}
}

func TestFlagsOverrideFileAndEnv(t *testing.T) {
	content := "scrape:\n  output_folder: /from/file\n"
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("YPSCRAPER_OUTPUT_FOLDER", "/from/env")
	t.Setenv("YPSCRAPER_LIMIT", "25")

	cfg, err := Load(path, map[string]interface{}{
		"folder-path": "/from/flag",
		"update":      true,
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Scrape.OutputFolder != "/from/flag" {
		t.Errorf("OutputFolder = %q, want the flag value", cfg.Scrape.OutputFolder)
	}
	if cfg.Scrape.Limit != 25 {
		t.Errorf("Limit = %d, want the env value 25", cfg.Scrape.Limit)
	}
	if !cfg.Scrape.Update {
		t.Error("expected update flag to apply")
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"negative limit", func(c *Config) { c.Scrape.Limit = -1 }, true},
		{"zero init batch", func(c *Config) { c.Scrape.InitBatchSize = 0 }, true},
		{"zero timeout", func(c *Config) { c.HTTP.Timeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmptyOutputFolder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scrape.OutputFolder = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.Scrape.OutputFolder != "." {
		t.Errorf("OutputFolder = %q, want %q", cfg.Scrape.OutputFolder, ".")
	}
}
