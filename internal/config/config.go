package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported output formats.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	APIBaseURL         string        `mapstructure:"api_base_url"`
	ImageBaseURL       string        `mapstructure:"image_base_url"`
	ImagePlaceholder   string        `mapstructure:"image_placeholder"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	SessionStore string `mapstructure:"session_store"`
	SessionPath  string `mapstructure:"session_path"`

	OutputFormat string `mapstructure:"output_format"`

	derivedImageBase bool
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "pawfinder")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "warn")
	v.SetDefault("api_base_url", "http://localhost:8000/api")
	v.SetDefault("image_base_url", "")
	v.SetDefault("image_placeholder", "/images/placeholder.png")
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("session_store", "bbolt")
	v.SetDefault("session_path", defaultSessionPath())
	v.SetDefault("output_format", OutputJSON)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values and fills the derived fields. It is run again
// after command-line overrides.
func (c *Config) Validate() error {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	origin, err := httpOrigin(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid api_base_url: %w", err)
	}

	c.ImageBaseURL = strings.TrimRight(strings.TrimSpace(c.ImageBaseURL), "/")
	if c.ImageBaseURL == "" || c.derivedImageBase {
		c.ImageBaseURL = origin
		c.derivedImageBase = true
	} else if _, err := httpOrigin(c.ImageBaseURL); err != nil {
		return fmt.Errorf("invalid image_base_url: %w", err)
	}

	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	c.HTTPTimeout = time.Duration(c.HTTPTimeoutSeconds) * time.Second

	c.SessionStore = strings.ToLower(strings.TrimSpace(c.SessionStore))
	switch c.SessionStore {
	case "memory", "none":
	case "bbolt":
		if strings.TrimSpace(c.SessionPath) == "" {
			return fmt.Errorf("session_path is required for the bbolt session store")
		}
	default:
		return fmt.Errorf("invalid session_store %q (memory, bbolt or none)", c.SessionStore)
	}

	c.OutputFormat = strings.ToLower(strings.TrimSpace(c.OutputFormat))
	if c.OutputFormat != OutputJSON && c.OutputFormat != OutputYAML {
		return fmt.Errorf("invalid output_format %q (json or yaml)", c.OutputFormat)
	}
	return nil
}

// httpOrigin returns scheme://host of an absolute http(s) URL.
func httpOrigin(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%q is not an absolute http(s) URL", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".", "data", "session.db")
	}
	return filepath.Join(dir, "pawfinder", "session.db")
}
