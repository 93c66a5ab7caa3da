package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, DefaultAPIBaseURL, c.APIBaseURL)
	assert.Equal(t, DefaultMLBaseURL, c.MLBaseURL)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, "artefacto.db", c.DatabasePath)
	assert.Equal(t, "artefacto.log", c.LogFile)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, time.Minute, c.ExpiryCheckInterval)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	t.Chdir(dir)

	file := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
api_base_url: http://file/api
ml_base_url: http://file-ml
database_path: file.db
log_level: warn
`), 0o600))

	t.Setenv("ARTEFACTO_ML_URL", "http://env-ml")
	t.Setenv("ARTEFACTO_DB", "env.db")

	os.Args = []string{"artefacto", "-c", file, "-d", "flag.db", "-t", "5"}

	cfg := LoadConfig()

	want := &Config{
		APIBaseURL:          "http://file/api",
		MLBaseURL:           "http://env-ml",
		RequestTimeout:      5 * time.Second,
		DatabasePath:        "flag.db",
		LogFile:             "artefacto.log",
		LogLevel:            "warn",
		LogFormat:           "text",
		ExpiryCheckInterval: time.Minute,
	}
	assert.Empty(t, cmp.Diff(want, cfg))
}
