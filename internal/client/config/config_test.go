package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:3000/api", c.APIBaseURL)
	assert.Equal(t, "plasticos.db", c.DatabaseDSN)
	assert.Empty(t, c.RedisURL)
	assert.Equal(t, 12*time.Hour, c.TransientTTL)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, "reports", c.ReportsDir)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	origDefault := defaultEnvFile
	t.Cleanup(func() {
		os.Args = origArgs
		defaultEnvFile = origDefault
	})
	os.Args = []string{"testbin"}
	defaultEnvFile = "does-not-exist.env"

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:3000/api", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Setenv("PLASTICOS_API_URL", "https://env.plasticos.lc")
	t.Setenv("PLASTICOS_REPORTS_DIR", "/tmp/env-reports")
	t.Setenv("PLASTICOS_LOG_FORMAT", "json")

	path := writeTempJSON(t, "", "", map[string]any{
		"api_base_url": "https://json.plasticos.lc",
		"log_format":   "zap",
	})
	os.Args = []string{"testbin", "-c", path, "-a", "https://flag.plasticos.lc", "-t", "5"}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://flag.plasticos.lc", cfg.APIBaseURL)
	assert.Equal(t, "zap", cfg.LogFormat)
	assert.Equal(t, "/tmp/env-reports", cfg.ReportsDir)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Run("bad url", func(t *testing.T) {
		t.Setenv("PLASTICOS_API_URL", "not a url")
		_, err := LoadConfig()
		require.ErrorContains(t, err, "invalid config")
	})

	t.Run("bad log level", func(t *testing.T) {
		t.Setenv("PLASTICOS_LOG_LEVEL", "loud")
		_, err := LoadConfig()
		require.ErrorContains(t, err, "invalid config")
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("PLASTICOS_REQUEST_TIMEOUT", "soon")
		_, err := LoadConfig()
		require.ErrorContains(t, err, "failed to parse environment variables")
	})
}

func TestValidate(t *testing.T) {
	var c Config
	c.LoadDefaults()

	c.RedisURL = "redis://localhost:6379/0"
	assert.NoError(t, c.Validate())

	c.RequestTimeout = 0
	assert.Error(t, c.Validate())

	c.LoadDefaults()
	c.APIBaseURL = "ftp://files.plasticos.lc"
	assert.Error(t, c.Validate())
}
