package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "ARTEFACTO"

// envConfig mirrors Config for envconfig. Variables that are not set keep
// the value already in the struct.
type envConfig struct {
	APIBaseURL          string        `envconfig:"API_URL"`
	MLBaseURL           string        `envconfig:"ML_URL"`
	RequestTimeout      time.Duration `envconfig:"TIMEOUT"`
	DatabasePath        string        `envconfig:"DB"`
	LogFile             string        `envconfig:"LOG_FILE"`
	LogLevel            string        `envconfig:"LOG_LEVEL"`
	LogFormat           string        `envconfig:"LOG_FORMAT"`
	ExpiryCheckInterval time.Duration `envconfig:"EXPIRY_CHECK_INTERVAL"`
}

// parseEnv loads dotenv (if present) without overriding variables that are
// already set, then overlays cfg with ARTEFACTO_* variables.
func parseEnv(cfg *Config, dotenv string) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	ec := envConfig(*cfg)
	if err := envconfig.Process(envPrefix, &ec); err != nil {
		panic(err)
	}
	*cfg = Config(ec)
}
