package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// DevelopmentAPIURL is the backend base used when API_URL is unset outside production.
	DevelopmentAPIURL = "http://localhost:8000/api"
	// ProductionAPIURL is the backend base used when API_URL is unset in production.
	// It is relative and served by the console's pass-through proxy.
	ProductionAPIURL = "/api"

	defaultAPITimeout      = 300 * time.Second // long LLM evaluations on the backend
	defaultRefreshInterval = 30 * time.Second
)

// Config holds all configuration for the console
type Config struct {
	// Server configuration
	Port string
	Env  string

	// Decisioning backend
	APIURL      string
	APIUpstream string
	APITimeout  time.Duration

	// Dashboard live refresh
	RefreshInterval time.Duration

	// Redis draft store (optional)
	RedisURL      string
	RedisPassword string

	// Activity journal (optional)
	DatabaseURL string

	// Analyst sessions (optional)
	SessionSecret string
	AccessCode    string

	AllowedOrigins []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	env := getEnv("ENV", "development")

	defaultAPI := DevelopmentAPIURL
	if env == "production" {
		defaultAPI = ProductionAPIURL
	}

	apiTimeout, err := getEnvAsDuration("API_TIMEOUT", defaultAPITimeout)
	if err != nil {
		return nil, err
	}
	refresh, err := getEnvAsDuration("DASHBOARD_REFRESH_INTERVAL", defaultRefreshInterval)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		APIURL:          strings.TrimRight(getEnv("API_URL", defaultAPI), "/"),
		APIUpstream:     strings.TrimRight(getEnv("API_UPSTREAM", ""), "/"),
		APITimeout:      apiTimeout,
		RefreshInterval: refresh,
		RedisURL:        getEnv("REDIS_URL", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		SessionSecret:   getEnv("SESSION_SECRET", ""),
		AccessCode:      getEnv("CONSOLE_ACCESS_CODE", ""),
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures the configuration is coherent
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("API_URL must not be empty")
	}

	if c.APIRelative() {
		if c.APIUpstream == "" {
			return fmt.Errorf("API_UPSTREAM is required when API_URL is relative (%s)", c.APIURL)
		}
		if _, err := url.ParseRequestURI(c.APIUpstream); err != nil {
			return fmt.Errorf("invalid API_UPSTREAM: %w", err)
		}
	} else if _, err := url.ParseRequestURI(c.APIURL); err != nil {
		return fmt.Errorf("invalid API_URL: %w", err)
	}

	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}

	if c.RefreshInterval <= 0 {
		return fmt.Errorf("DASHBOARD_REFRESH_INTERVAL must be positive")
	}

	if c.AccessCode != "" && len(c.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters long when CONSOLE_ACCESS_CODE is set")
	}

	return nil
}

// APIRelative reports whether the backend base is a path on the console's own origin.
func (c *Config) APIRelative() bool {
	return strings.HasPrefix(c.APIURL, "/")
}

// BackendURL is the absolute base the console itself calls.
func (c *Config) BackendURL() string {
	if c.APIRelative() {
		return c.APIUpstream + c.APIURL
	}
	return c.APIURL
}

// AuthEnabled reports whether analysts must sign in.
func (c *Config) AuthEnabled() bool {
	return c.AccessCode != ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
