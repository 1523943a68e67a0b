package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the scraper
type Config struct {
	// Scrape behavior
	Scrape ScrapeConfig `yaml:"scrape" json:"scrape"`

	// Consent cookie handling
	Consent ConsentConfig `yaml:"consent" json:"consent"`

	// HTTP client settings
	HTTP HTTPConfig `yaml:"http" json:"http"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ScrapeConfig holds scrape-run configuration
type ScrapeConfig struct {
	OutputFolder string `yaml:"output_folder" json:"output_folder"`
	Reverse      bool   `yaml:"reverse" json:"reverse"`
	Update       bool   `yaml:"update" json:"update"`
	Limit        int    `yaml:"limit" json:"limit"`

	// InitBatchSize is the number of posts the platform renders server-side
	// on the first page. A channel that yields fewer initial posts and no
	// continuation token has no further history, so paging is skipped.
	InitBatchSize int `yaml:"init_batch_size" json:"init_batch_size"`
}

// ConsentConfig holds consent-cookie cache configuration
type ConsentConfig struct {
	CookieFile    string `yaml:"cookie_file" json:"cookie_file"`
	DefaultCookie string `yaml:"default_cookie" json:"default_cookie"`
}

// HTTPConfig holds HTTP client configuration
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Verbose bool   `yaml:"verbose" json:"verbose"`
	File    string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Scrape: ScrapeConfig{
			OutputFolder:  ".",
			InitBatchSize: 10,
		},
		Consent: ConsentConfig{
			CookieFile: defaultCookieFile(),
		},
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36,gzip(gfe)",
		},
		Logging: LoggingConfig{},
	}
}

func defaultCookieFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".socs_cookie"
	}
	return filepath.Join(home, ".ypscraper_cookie")
}

// Load builds the effective configuration: defaults, then an optional YAML
// file, then environment variables, then explicit flag overrides.
func Load(configFile string, flags map[string]interface{}) (*Config, error) {
	cfg := DefaultConfig()

	// .env files are a convenience for development setups
	_ = godotenv.Load()

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyFlags(flags)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays YPSCRAPER_* environment variables
func (c *Config) applyEnv() {
	if v := os.Getenv("YPSCRAPER_OUTPUT_FOLDER"); v != "" {
		c.Scrape.OutputFolder = v
	}
	if v := os.Getenv("YPSCRAPER_COOKIE_FILE"); v != "" {
		c.Consent.CookieFile = v
	}
	if v := os.Getenv("YPSCRAPER_USER_AGENT"); v != "" {
		c.HTTP.UserAgent = v
	}
	if v := os.Getenv("YPSCRAPER_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Scrape.Limit = n
		}
	}
}

// applyFlags overlays explicit command-line flag values
func (c *Config) applyFlags(flags map[string]interface{}) {
	for key, value := range flags {
		switch key {
		case "folder-path":
			if v, ok := value.(string); ok {
				c.Scrape.OutputFolder = v
			}
		case "reverse":
			if v, ok := value.(bool); ok {
				c.Scrape.Reverse = v
			}
		case "update":
			if v, ok := value.(bool); ok {
				c.Scrape.Update = v
			}
		case "limit":
			if v, ok := value.(int); ok {
				c.Scrape.Limit = v
			}
		case "verbose":
			if v, ok := value.(bool); ok {
				c.Logging.Verbose = v
			}
		case "cookie-file":
			if v, ok := value.(string); ok {
				c.Consent.CookieFile = v
			}
		}
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Scrape.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", c.Scrape.Limit)
	}
	if c.Scrape.InitBatchSize <= 0 {
		return fmt.Errorf("init_batch_size must be positive, got %d", c.Scrape.InitBatchSize)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %s", c.HTTP.Timeout)
	}
	if c.Scrape.OutputFolder == "" {
		c.Scrape.OutputFolder = "."
	}
	return nil
}
