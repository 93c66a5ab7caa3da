package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/artefacto/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. Arguments
// that belong to other loaders are filtered out first.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-m", "-d", "-t", "-l", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the REST API")
	fs.StringVar(&cfg.MLBaseURL, "m", cfg.MLBaseURL, "base URL of the recognition service")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local session database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	interval := fs.Int("i", int(cfg.ExpiryCheckInterval.Seconds()), "session expiry check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.ExpiryCheckInterval = time.Duration(*interval) * time.Second
}
