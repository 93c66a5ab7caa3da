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

// FileConfig is the on-disk form of Config. Absent keys leave the current
// value alone.
type FileConfig struct {
	APIBaseURL          string         `json:"api_base_url" yaml:"api_base_url"`
	MLBaseURL           string         `json:"ml_base_url" yaml:"ml_base_url"`
	RequestTimeout      timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	DatabasePath        string         `json:"database_path" yaml:"database_path"`
	LogFile             string         `json:"log_file" yaml:"log_file"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
	LogFormat           string         `json:"log_format" yaml:"log_format"`
	ExpiryCheckInterval timex.Duration `json:"expiry_check_interval" yaml:"expiry_check_interval"`
}

// parseFile overlays cfg with the file named by -c/-config, if any.
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
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.MLBaseURL, fc.MLBaseURL)
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.LogFile, fc.LogFile)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.ExpiryCheckInterval.Duration > 0 {
		cfg.ExpiryCheckInterval = fc.ExpiryCheckInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
