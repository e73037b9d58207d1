// Package config loads runtime configuration for the PlasticosLC console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A dotenv file: the one named by -e/-env, else ./.env when present.
//     Variables already in the environment are not overwritten.
//  3. PLASTICOS_* environment variables.
//  4. Optional JSON file selected via flags: -c or -config.
//  5. Command-line flags, which override earlier values.
//
// The result is validated before LoadConfig returns it.
//
// Supported flags
//
//	-a string   API base URL
//	-d string   durable storage DSN
//	-r string   Redis URL for the transient scope
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//
// # Environment
//
//	PLASTICOS_API_URL, PLASTICOS_DATABASE_DSN, PLASTICOS_REDIS_URL,
//	PLASTICOS_TRANSIENT_TTL, PLASTICOS_REQUEST_TIMEOUT,
//	PLASTICOS_ONLINE_CHECK_INTERVAL, PLASTICOS_REPORTS_DIR,
//	PLASTICOS_LOG_LEVEL, PLASTICOS_LOG_FORMAT
//
// # JSON schema
//
// Intervals may be strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.plasticos.lc",
//	  "database_dsn": "plasticos.db",
//	  "redis_url": "redis://localhost:6379/0",
//	  "transient_ttl": "12h",
//	  "request_timeout": "15s",
//	  "online_check_interval": "3s",
//	  "reports_dir": "reports",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
package config
