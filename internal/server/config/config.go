// Package config handles configuration for the development backend:
// defaults, an optional JSON or YAML file, then command-line flags.
package config

import (
	"os"
	"time"

	"github.com/dmitrijs2005/artefacto/internal/common"
)

// Response shapes for authentication answers.
const (
	ShapeEnveloped = "enveloped"
	ShapeFlat      = "flat"
)

// Config holds runtime settings for the backend.
//
// Fields:
//   - EndpointAddr: bind address of the REST endpoint.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Empty means a random
//     key is generated at startup, so tokens do not survive a restart.
//   - TokenTTL: lifetime of issued tokens.
//   - ResponseShape: "enveloped" wraps auth answers in {"data":...}, "flat"
//     does not.
//   - AdminEmail / AdminPassword: the administrator account seeded at startup.
//   - AllowedOrigins: CORS origins.
//   - AuthRatePerMinute: login and registration attempts allowed per client.
//   - SeedCatalog: load the demo temples, artifacts and tickets.
type Config struct {
	EndpointAddr      string
	SecretKey         string
	TokenTTL          time.Duration
	ResponseShape     string
	AdminEmail        string
	AdminPassword     string
	AllowedOrigins    []string
	AuthRatePerMinute int
	SeedCatalog       bool
	LogLevel          string
	LogFormat         string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.SecretKey = ""
	c.TokenTTL = common.CredentialTTL
	c.ResponseShape = ShapeEnveloped
	c.AdminEmail = "admin@artefacto.local"
	c.AdminPassword = "admin12345"
	c.AllowedOrigins = []string{"*"}
	c.AuthRatePerMinute = 30
	c.SeedCatalog = true
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional config file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}

// Secret returns the signing key, generating one when none is configured.
func (c *Config) Secret() ([]byte, error) {
	if c.SecretKey == "" {
		s, err := common.MakeRandHexString(32)
		if err != nil {
			return nil, err
		}
		c.SecretKey = s
	}
	return []byte(c.SecretKey), nil
}
