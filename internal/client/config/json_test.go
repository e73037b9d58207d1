package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"api_base_url":          "https://api.plasticos.lc",
		"database_dsn":          "postgres://db/plc",
		"redis_url":             "redis://cache:6379/0",
		"ephemeral_token":       true,
		"transient_ttl":         "1h",
		"request_timeout":       20000000000,
		"online_check_interval": "10s",
		"reports_dir":           "/var/plc/reports",
		"log_level":             "debug",
		"log_format":            "json",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, Config{
			APIBaseURL:          "https://api.plasticos.lc",
			DatabaseDSN:         "postgres://db/plc",
			RedisURL:            "redis://cache:6379/0",
			EphemeralToken:      true,
			TransientTTL:        time.Hour,
			RequestTimeout:      20 * time.Second,
			OnlineCheckInterval: 10 * time.Second,
			ReportsDir:          "/var/plc/reports",
			LogLevel:            "debug",
			LogFormat:           "json",
		}, *cfg)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{"reports_dir": "out"})
		os.Args = []string{"testbin", "-c=" + partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "out", cfg.ReportsDir)
		assert.Equal(t, "http://127.0.0.1:3000/api", cfg.APIBaseURL)
		assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			APIBaseURL:          "http://defaults:1234",
			OnlineCheckInterval: 42 * time.Second,
		}
		parseJson(cfg)

		assert.Equal(t, "http://defaults:1234", cfg.APIBaseURL)
		assert.Equal(t, 42*time.Second, cfg.OnlineCheckInterval)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
