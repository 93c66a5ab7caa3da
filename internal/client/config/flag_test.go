package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://localhost:8080/api", "-m", "http://localhost:5000", "-d", "x.db", "-t", "10", "-l", "debug", "-i", "30"},
			expected: &Config{
				APIBaseURL:          "http://localhost:8080/api",
				MLBaseURL:           "http://localhost:5000",
				DatabasePath:        "x.db",
				RequestTimeout:      10 * time.Second,
				LogLevel:            "debug",
				ExpiryCheckInterval: 30 * time.Second,
			},
		},
		{
			name: "foreign flags ignored",
			args: []string{"-c", "cfg.json", "-a=http://h/api", "-x", "1"},
			expected: &Config{
				APIBaseURL:          "http://h/api",
				RequestTimeout:      3 * time.Second,
				ExpiryCheckInterval: time.Minute,
			},
		},
		{name: "incorrect timeout", args: []string{"-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{RequestTimeout: 3 * time.Second, ExpiryCheckInterval: time.Minute}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
