package config

import (
	"os"
	"time"
)

const (
	DefaultAPIBaseURL = "https://artefacto-backend-749281711221.us-central1.run.app/api"
	DefaultMLBaseURL  = "https://artefacto-749281711221.asia-southeast2.run.app"
)

// Config holds runtime settings for the Artefacto CLI.
type Config struct {
	APIBaseURL          string
	MLBaseURL           string
	RequestTimeout      time.Duration
	DatabasePath        string
	LogFile             string
	LogLevel            string
	LogFormat           string
	ExpiryCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.MLBaseURL = DefaultMLBaseURL
	c.RequestTimeout = 30 * time.Second
	c.DatabasePath = "artefacto.db"
	c.LogFile = "artefacto.log"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.ExpiryCheckInterval = time.Minute
}

// LoadConfig applies defaults, then the config file, the environment and
// finally command-line flags. Later sources take precedence. Unreadable
// sources panic.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg, os.Args[1:])
	parseEnv(cfg, ".env")
	parseFlags(cfg, os.Args[1:])
	return cfg
}
