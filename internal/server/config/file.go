package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/artefacto/internal/flagx"
	"github.com/dmitrijs2005/artefacto/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of Config. Absent keys keep the current
// value.
type FileConfig struct {
	EndpointAddr      string         `json:"endpoint_addr" yaml:"endpoint_addr"`
	SecretKey         string         `json:"secret_key" yaml:"secret_key"`
	TokenTTL          timex.Duration `json:"token_ttl" yaml:"token_ttl"`
	ResponseShape     string         `json:"response_shape" yaml:"response_shape"`
	AdminEmail        string         `json:"admin_email" yaml:"admin_email"`
	AdminPassword     string         `json:"admin_password" yaml:"admin_password"`
	AllowedOrigins    []string       `json:"allowed_origins" yaml:"allowed_origins"`
	AuthRatePerMinute int            `json:"auth_rate_per_minute" yaml:"auth_rate_per_minute"`
	SeedCatalog       *bool          `json:"seed_catalog" yaml:"seed_catalog"`
	LogLevel          string         `json:"log_level" yaml:"log_level"`
	LogFormat         string         `json:"log_format" yaml:"log_format"`
}

// parseFile overlays cfg with the file named by -c/-config. It panics when
// the file cannot be read or decoded.
func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc FileConfig) apply(cfg *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.EndpointAddr, fc.EndpointAddr)
	set(&cfg.SecretKey, fc.SecretKey)
	set(&cfg.ResponseShape, fc.ResponseShape)
	set(&cfg.AdminEmail, fc.AdminEmail)
	set(&cfg.AdminPassword, fc.AdminPassword)
	set(&cfg.LogLevel, fc.LogLevel)
	set(&cfg.LogFormat, fc.LogFormat)

	if fc.TokenTTL.Duration > 0 {
		cfg.TokenTTL = fc.TokenTTL.Duration
	}
	if len(fc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
	if fc.AuthRatePerMinute > 0 {
		cfg.AuthRatePerMinute = fc.AuthRatePerMinute
	}
	if fc.SeedCatalog != nil {
		cfg.SeedCatalog = *fc.SeedCatalog
	}
}
