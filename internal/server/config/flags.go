package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/artefacto/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   bind address (e.g. ":8080")
//	-s string   JWT HMAC secret key
//	-t int      token validity, hours
//	-r string   auth response shape ("enveloped" or "flat")
//	-l string   log level
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-t", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointAddr, "a", cfg.EndpointAddr, "address and port to run server")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	fs.StringVar(&cfg.ResponseShape, "r", cfg.ResponseShape, "auth response shape (enveloped, flat)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	ttl := fs.Int("t", int(cfg.TokenTTL.Hours()), "token validity (in hours)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.TokenTTL = time.Duration(*ttl) * time.Hour
}
