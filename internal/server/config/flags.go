package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/linkfeed/internal/flagx"
)

// parseFlags populates Config from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g. ":8080")
//	-d string     PostgreSQL DSN; empty selects the in-memory store
//	-s string     token signing secret
//	-t duration   token validity, 0 for no expiry
//	-b int        bcrypt cost
//	-o            enforce link ownership on refresh and delete (use -o=false to turn off)
//	-w duration   shutdown grace period
//
// Only these flags are taken from os.Args (see flagx.FilterArgs), so -c for
// the JSON file does not collide.
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-b", "-o", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.TokenValidityDuration, "t", config.TokenValidityDuration, "token validity (0 = no expiry)")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.BoolVar(&config.EnforceLinkOwnership, "o", config.EnforceLinkOwnership, "only authors may refresh or delete links")
	fs.DurationVar(&config.ShutdownTimeout, "w", config.ShutdownTimeout, "shutdown timeout")

	return fs.Parse(args)
}
