// Package proxy derives per-country residential proxy credentials from the
// configured account. The upstream provider routes traffic through the
// requested country based on a suffix embedded in the password.
package proxy

import (
	"fmt"
	"strings"

	"github.com/use-agent/shopsight/config"
)

// Account is the injected proxy account template.
type Account struct {
	Username string
	Secret   string
	Host     string
	Port     int
}

// Credentials is a ready-to-use set of proxy authentication parameters.
// Lifetime is one request; never persisted.
type Credentials struct {
	Username string
	Password string
	Host     string
	Port     int
}

// NewAccount builds an Account from configuration.
func NewAccount(cfg config.ProxyConfig) Account {
	return Account{
		Username: cfg.Username,
		Secret:   cfg.Secret,
		Host:     cfg.Host,
		Port:     cfg.Port,
	}
}

// ForCountry derives credentials for the given ISO country code. The code is
// upper-cased and embedded in the password as "<secret>_country-<CC>"; empty
// input defaults to US. The code's format is not validated here — the proxy
// provider rejects unknown countries.
func (a Account) ForCountry(countryCode string) Credentials {
	if countryCode == "" {
		countryCode = "US"
	}
	return Credentials{
		Username: a.Username,
		Password: fmt.Sprintf("%s_country-%s", a.Secret, strings.ToUpper(countryCode)),
		Host:     a.Host,
		Port:     a.Port,
	}
}

// Server renders the proxy address for the browser --proxy-server argument.
func (c Credentials) Server() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}
