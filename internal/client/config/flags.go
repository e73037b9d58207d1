package config

import (
	"flag"
	"os"
	"time"

	"github.com/plasticoslc/console/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   API base URL
//	-d string   durable storage DSN (SQLite path or postgres:// URL)
//	-r string   Redis URL for the transient scope
//	-m          keep the token in memory only
//	-t int      request timeout in seconds
//	-i int      online check interval in seconds
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-m", "-t", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "durable storage DSN")
	fs.StringVar(&cfg.RedisURL, "r", cfg.RedisURL, "Redis URL for the token scope")
	fs.BoolVar(&cfg.EphemeralToken, "m", cfg.EphemeralToken, "keep the token in memory only")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
