package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Fetch     FetchConfig
	Browser   BrowserConfig
	Scrape    ScrapeConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8000
	Mode string // "debug", "release", "test"; default: "release"
}

// FetchConfig controls how recipe pages are downloaded.
type FetchConfig struct {
	// Timeout bounds the whole fetch, browser escalation included.
	Timeout time.Duration // default: 30s

	// MaxBodyBytes caps the number of bytes read from a page.
	MaxBodyBytes int64 // default: 10 MB

	// UserAgent is sent by the plain HTTP engine.
	UserAgent string

	// AcceptLanguage is sent with every page request, browser included.
	AcceptLanguage string // default: "en-US,en;q=0.9"
}

// BrowserConfig controls the optional headless Chromium fallback.
type BrowserConfig struct {
	// Enabled adds the browser engine after the HTTP engine.
	Enabled bool // default: false

	Headless  bool // default: true
	NoSandbox bool // default: false

	// Bin overrides the Chromium binary path.
	Bin string

	// MaxPages is the page pool capacity.
	MaxPages int // default: 4

	// Proxy is passed to the browser launcher.
	Proxy string

	// BlockedResourceTypes lists resource types the browser never loads.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string
}

// ScrapeConfig controls the adapter.
type ScrapeConfig struct {
	// AllowPrivateHosts permits localhost and private network targets.
	AllowPrivateHosts bool // default: false

	// Validate rejects records missing a title, ingredients or instructions.
	Validate bool // default: true
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// APIKeys is the list of valid API keys. Empty disables authentication.
	APIKeys []string
}

// RateLimitConfig controls per-identity rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per identity. Zero disables limiting.
	RequestsPerSecond float64 // default: 0

	// Burst is the maximum burst size per identity.
	Burst int // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("RECIPE_HOST", "0.0.0.0"),
			Port: envIntOr("RECIPE_PORT", 8000),
			Mode: envOr("RECIPE_MODE", "release"),
		},
		Fetch: FetchConfig{
			Timeout:        envDurationOr("RECIPE_FETCH_TIMEOUT", 30*time.Second),
			MaxBodyBytes:   int64(envIntOr("RECIPE_FETCH_MAX_BODY", 10<<20)),
			UserAgent:      envOr("RECIPE_USER_AGENT", defaultUserAgent),
			AcceptLanguage: envOr("RECIPE_ACCEPT_LANGUAGE", "en-US,en;q=0.9"),
		},
		Browser: BrowserConfig{
			Enabled:   envBoolOr("RECIPE_BROWSER_ENABLED", false),
			Headless:  envBoolOr("RECIPE_BROWSER_HEADLESS", true),
			NoSandbox: envBoolOr("RECIPE_BROWSER_NO_SANDBOX", false),
			Bin:       os.Getenv("RECIPE_BROWSER_BIN"),
			MaxPages:  envIntOr("RECIPE_BROWSER_MAX_PAGES", 4),
			Proxy:     os.Getenv("RECIPE_BROWSER_PROXY"),
			BlockedResourceTypes: envSliceOr("RECIPE_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
		},
		Scrape: ScrapeConfig{
			AllowPrivateHosts: envBoolOr("RECIPE_ALLOW_PRIVATE_HOSTS", false),
			Validate:          envBoolOr("RECIPE_VALIDATE", true),
		},
		Auth: AuthConfig{
			APIKeys: envSliceOr("RECIPE_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("RECIPE_RATE_RPS", 0),
			Burst:             envIntOr("RECIPE_RATE_BURST", 10),
		},
		Log: LogConfig{
			Level:  envOr("RECIPE_LOG_LEVEL", "info"),
			Format: envOr("RECIPE_LOG_FORMAT", "json"),
		},
	}
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
