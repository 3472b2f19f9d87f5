package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/use-agent/shopsight/config"
)

func testAccount() Account {
	return NewAccount(config.ProxyConfig{
		Username: "acct-user",
		Secret:   "s3cr3t",
		Host:     "core-residential.example.com",
		Port:     1000,
	})
}

func TestForCountry_UppercasesCode(t *testing.T) {
	creds := testAccount().ForCountry("de")
	assert.Equal(t, "s3cr3t_country-DE", creds.Password)
}

func TestForCountry_DefaultsToUS(t *testing.T) {
	creds := testAccount().ForCountry("")
	assert.Equal(t, "s3cr3t_country-US", creds.Password)
}

func TestForCountry_PassesUnknownCodesThrough(t *testing.T) {
	// Format is not validated locally; the provider rejects bad countries.
	creds := testAccount().ForCountry("zz-bogus")
	assert.Equal(t, "s3cr3t_country-ZZ-BOGUS", creds.Password)
}

func TestForCountry_KeepsAccountFields(t *testing.T) {
	creds := testAccount().ForCountry("fr")
	assert.Equal(t, "acct-user", creds.Username)
	assert.Equal(t, "core-residential.example.com", creds.Host)
	assert.Equal(t, 1000, creds.Port)
}

func TestServer(t *testing.T) {
	creds := testAccount().ForCountry("us")
	assert.Equal(t, "http://core-residential.example.com:1000", creds.Server())
}
