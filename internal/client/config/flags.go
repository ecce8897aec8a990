package config

import (
	"flag"
	"io"
	"os"

	"github.com/dmitrijs2005/linkfeed/internal/flagx"
)

// parseFlags populates Config from -a, -token and -timeout. Other arguments
// belong to the command being run and are left alone.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-token", "-timeout"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "server base URL")
	fs.StringVar(&cfg.Token, "token", cfg.Token, "bearer token")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "request timeout")

	return fs.Parse(args)
}
