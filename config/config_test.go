package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 60*time.Second, cfg.Fetcher.NavigationTimeout)
	assert.Equal(t, []string{"Image", "Media", "Font"}, cfg.Fetcher.BlockedResourceTypes)
	assert.Equal(t, 1600, cfg.Fetcher.ViewportWidth)
	assert.Equal(t, 1200, cfg.Fetcher.ViewportHeight)
	assert.Equal(t, "core-residential.evomi.com", cfg.Proxy.Host)
	assert.Equal(t, 1000, cfg.Proxy.Port)
	assert.Equal(t, "https://api.agentql.com", cfg.AgentQL.BaseURL)
	assert.False(t, cfg.Auth.Enabled)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SHOPSIGHT_PORT", "9090")
	t.Setenv("SHOPSIGHT_NAV_TIMEOUT", "15s")
	t.Setenv("SHOPSIGHT_BLOCKED_RESOURCES", "Image, Font")
	t.Setenv("SHOPSIGHT_PROXY_USERNAME", "acct")
	t.Setenv("AGENTQL_API_KEY", "key-123")
	t.Setenv("SHOPSIGHT_AUTH_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Fetcher.NavigationTimeout)
	assert.Equal(t, []string{"Image", "Font"}, cfg.Fetcher.BlockedResourceTypes)
	assert.Equal(t, "acct", cfg.Proxy.Username)
	assert.Equal(t, "key-123", cfg.AgentQL.APIKey)
	assert.True(t, cfg.Auth.Enabled)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SHOPSIGHT_PORT", "not-a-number")
	t.Setenv("SHOPSIGHT_NAV_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Fetcher.NavigationTimeout)
}

func TestLoad_APIKeyEmptyWhenUnset(t *testing.T) {
	t.Setenv("AGENTQL_API_KEY", "")
	cfg := Load()
	assert.Empty(t, cfg.AgentQL.APIKey)
}
