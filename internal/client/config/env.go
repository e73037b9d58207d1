package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/plasticoslc/console/internal/flagx"
)

// EnvPrefix prefixes every environment variable the console reads.
const EnvPrefix = "PLASTICOS_"

// defaultEnvFile is loaded when present and no -e flag is given.
var defaultEnvFile = ".env"

// loadDotEnv copies a dotenv file into the process environment. Variables
// already set in the environment win over the file.
//
// The file named by -e/-env must exist; the default .env is optional.
func loadDotEnv() error {
	path := flagx.EnvFileFlag()
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
		return nil
	}

	err := godotenv.Load(defaultEnvFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", defaultEnvFile, err)
	}
	return nil
}

// parseEnv overlays cfg with PLASTICOS_* variables. Unset variables leave
// the current values alone.
func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	return nil
}
