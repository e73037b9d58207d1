package config

import (
	"encoding/json"
	"os"

	"github.com/plasticoslc/console/internal/flagx"
	"github.com/plasticoslc/console/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds.
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	DatabaseDSN         string         `json:"database_dsn"`
	RedisURL            string         `json:"redis_url"`
	EphemeralToken      bool           `json:"ephemeral_token"`
	TransientTTL        timex.Duration `json:"transient_ttl"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	ReportsDir          string         `json:"reports_dir"`
	LogLevel            string         `json:"log_level"`
	LogFormat           string         `json:"log_format"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Fields absent from the file keep their current values.
//
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.RedisURL, jc.RedisURL)
	setString(&cfg.ReportsDir, jc.ReportsDir)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)

	if jc.EphemeralToken {
		cfg.EphemeralToken = true
	}
	if jc.TransientTTL.Duration != 0 {
		cfg.TransientTTL = jc.TransientTTL.Duration
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
