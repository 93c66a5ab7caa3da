// Package config loads runtime configuration for the Artefacto CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  3. A .env file in the working directory, then ARTEFACTO_* environment
//     variables.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-m string   base URL of the recognition service
//	-d string   path of the local session database
//	-t int      request timeout (seconds)
//	-l string   log level: debug, info, warn or error
//	-i int      session expiry check interval (seconds)
//
// # File schema
//
// Durations use timex.Duration, so "30s" and integer nanoseconds both work:
//
//	{
//	  "api_base_url": "http://localhost:8080/api",
//	  "ml_base_url": "http://localhost:5000",
//	  "request_timeout": "30s",
//	  "database_path": "artefacto.db",
//	  "log_file": "artefacto.log",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "expiry_check_interval": "1m"
//	}
//
// # Environment
//
//	ARTEFACTO_API_URL, ARTEFACTO_ML_URL, ARTEFACTO_TIMEOUT,
//	ARTEFACTO_DB, ARTEFACTO_LOG_FILE, ARTEFACTO_LOG_LEVEL,
//	ARTEFACTO_LOG_FORMAT, ARTEFACTO_EXPIRY_CHECK_INTERVAL
package config
