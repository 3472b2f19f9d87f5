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
	Browser   BrowserConfig
	Fetcher   FetcherConfig
	Proxy     ProxyConfig
	AgentQL   AgentQLConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls how each per-request Chromium process is launched.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: true

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// FallbackUserAgent is used as the launch-argument user agent when the
	// request does not supply one. It is also the value force-set on the
	// page itself after creation, regardless of the launch argument.
	FallbackUserAgent string
}

// FetcherConfig controls page fetching behavior.
type FetcherConfig struct {
	// NavigationTimeout bounds each navigation wait attempt.
	NavigationTimeout time.Duration // default: 60s

	// BlockedResourceTypes lists resource types aborted before they hit
	// the network. default: ["Image", "Media", "Font"]
	BlockedResourceTypes []string

	// ViewportWidth and ViewportHeight are applied before HTML capture.
	ViewportWidth  int // default: 1600
	ViewportHeight int // default: 1200

	// ScreenshotDir, when non-empty, enables full-page screenshots of every
	// analyzed page, written as <unix-ts>.png under this directory.
	ScreenshotDir string
}

// ProxyConfig is the residential proxy account. The per-country password is
// derived from Secret by the proxy package; nothing here is hard-coded.
type ProxyConfig struct {
	Username string
	Secret   string
	Host     string // default: "core-residential.evomi.com"
	Port     int    // default: 1000
}

// AgentQLConfig controls the remote structured-extraction API.
type AgentQLConfig struct {
	// BaseURL of the AgentQL REST API.
	BaseURL string // default: "https://api.agentql.com"

	// APIKey for the x-api-key header. Empty when AGENTQL_API_KEY is unset,
	// in which case the remote service rejects every query.
	APIKey string

	// Timeout for a single query-data call.
	Timeout time.Duration // default: 60s
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication. Off by default: the service
	// ships with an open contract.
	Enabled bool

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// Enabled toggles the token-bucket middleware.
	Enabled bool

	// RequestsPerSecond is the sustained rate per API key or client IP.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per identity.
	Burst int // default: 5
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("SHOPSIGHT_HOST", "0.0.0.0"),
			Port: envIntOr("SHOPSIGHT_PORT", 8080),
			Mode: envOr("SHOPSIGHT_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("SHOPSIGHT_HEADLESS", true),
			NoSandbox:  envBoolOr("SHOPSIGHT_NO_SANDBOX", true),
			BrowserBin: os.Getenv("SHOPSIGHT_BROWSER_BIN"),
			FallbackUserAgent: envOr("SHOPSIGHT_FALLBACK_UA",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"),
		},
		Fetcher: FetcherConfig{
			NavigationTimeout: envDurationOr("SHOPSIGHT_NAV_TIMEOUT", 60*time.Second),
			BlockedResourceTypes: envSliceOr("SHOPSIGHT_BLOCKED_RESOURCES", []string{
				"Image", "Media", "Font",
			}),
			ViewportWidth:  envIntOr("SHOPSIGHT_VIEWPORT_WIDTH", 1600),
			ViewportHeight: envIntOr("SHOPSIGHT_VIEWPORT_HEIGHT", 1200),
			ScreenshotDir:  os.Getenv("SHOPSIGHT_SCREENSHOT_DIR"),
		},
		Proxy: ProxyConfig{
			Username: os.Getenv("SHOPSIGHT_PROXY_USERNAME"),
			Secret:   os.Getenv("SHOPSIGHT_PROXY_SECRET"),
			Host:     envOr("SHOPSIGHT_PROXY_HOST", "core-residential.evomi.com"),
			Port:     envIntOr("SHOPSIGHT_PROXY_PORT", 1000),
		},
		AgentQL: AgentQLConfig{
			BaseURL: envOr("AGENTQL_BASE_URL", "https://api.agentql.com"),
			APIKey:  os.Getenv("AGENTQL_API_KEY"),
			Timeout: envDurationOr("AGENTQL_TIMEOUT", 60*time.Second),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SHOPSIGHT_AUTH_ENABLED", false),
			APIKeys: envSliceOr("SHOPSIGHT_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			Enabled:           envBoolOr("SHOPSIGHT_RATE_ENABLED", false),
			RequestsPerSecond: envFloatOr("SHOPSIGHT_RATE_RPS", 2.0),
			Burst:             envIntOr("SHOPSIGHT_RATE_BURST", 5),
		},
		Log: LogConfig{
			Level:  envOr("SHOPSIGHT_LOG_LEVEL", "info"),
			Format: envOr("SHOPSIGHT_LOG_FORMAT", "json"),
		},
	}
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
