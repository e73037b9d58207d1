package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds runtime settings for the PlasticosLC console.
//
// Durations are time.Duration values; in the environment and the JSON file
// they are written as "15s", "12h" and so on.
type Config struct {
	// APIBaseURL is the root of the REST API, e.g. https://api.plasticos.lc.
	APIBaseURL string `env:"API_URL" validate:"required,http_url"`
	// DatabaseDSN selects the durable scope: a SQLite file path or a
	// postgres:// URL.
	DatabaseDSN string `env:"DATABASE_DSN" validate:"required"`
	// RedisURL, when set, moves the transient scope to Redis.
	RedisURL string `env:"REDIS_URL" validate:"omitempty,url"`
	// EphemeralToken keeps the token in memory only; every run starts
	// logged out.
	EphemeralToken bool          `env:"EPHEMERAL_TOKEN"`
	TransientTTL   time.Duration `env:"TRANSIENT_TTL" validate:"gte=0"`

	RequestTimeout      time.Duration `env:"REQUEST_TIMEOUT" validate:"gt=0"`
	OnlineCheckInterval time.Duration `env:"ONLINE_CHECK_INTERVAL" validate:"gt=0"`

	// ReportsDir receives downloaded reports.
	ReportsDir string `env:"REPORTS_DIR" validate:"required"`

	LogLevel  string `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat string `env:"LOG_FORMAT" validate:"oneof=text json zap"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:3000/api"
	c.DatabaseDSN = "plasticos.db"
	c.RedisURL = ""
	c.EphemeralToken = false
	c.TransientTTL = 12 * time.Hour
	c.RequestTimeout = 15 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.ReportsDir = "reports"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the .env file, the environment, JSON (if present) and command-line flags
// (if present). Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseJson(cfg)
	parseFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
