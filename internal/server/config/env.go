package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvSecret               = "APP_SECRET"
	EnvAddress              = "LINKFEED_ADDRESS"
	EnvDatabaseDSN          = "DATABASE_DSN"
	EnvTokenValidity        = "TOKEN_VALIDITY"
	EnvBcryptCost           = "BCRYPT_COST"
	EnvEnforceLinkOwnership = "ENFORCE_LINK_OWNERSHIP"
)

// dotenvFile is loaded when present. Variables already set in the process
// environment win over the file.
var dotenvFile = ".env"

func parseEnv(config *Config) error {
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if v, ok := os.LookupEnv(EnvSecret); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv(EnvAddress); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv(EnvDatabaseDSN); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(EnvTokenValidity); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTokenValidity, err)
		}
		config.TokenValidityDuration = d
	}
	if v, ok := os.LookupEnv(EnvBcryptCost); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvBcryptCost, err)
		}
		config.BcryptCost = n
	}
	if v, ok := os.LookupEnv(EnvEnforceLinkOwnership); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvEnforceLinkOwnership, err)
		}
		config.EnforceLinkOwnership = b
	}
	return nil
}
