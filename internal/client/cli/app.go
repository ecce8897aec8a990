// Package cli implements the linkfeed command-line client: one command per
// invocation, run against the HTTP API.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/linkfeed/internal/client/api"
	"github.com/dmitrijs2005/linkfeed/internal/client/config"
)

// API is the subset of api.Client used by the commands.
type API interface {
	SetToken(token string)
	Signup(ctx context.Context, email, password, name string) (*api.AuthPayload, error)
	Login(ctx context.Context, email, password string) (*api.AuthPayload, error)
	Me(ctx context.Context) (*api.User, error)
	Feed(ctx context.Context, p api.FeedParams) (*api.Feed, error)
	GetLink(ctx context.Context, id int64) (*api.Link, error)
	Post(ctx context.Context, description, link string) (*api.Link, error)
	Refresh(ctx context.Context, id int64, description, link string) (*api.Link, error)
	Delete(ctx context.Context, id int64) (*api.Link, error)
	Vote(ctx context.Context, id int64) (*api.Vote, error)
	Voters(ctx context.Context, id int64) ([]api.User, error)
}

// ErrUsage is returned for unknown commands and malformed arguments.
var ErrUsage = errors.New("usage error")

type App struct {
	config *config.Config
	api    API
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) *App {
	client := api.NewClient(c.ServerURL, c.RequestTimeout)
	return newApp(c, client, os.Stdin, os.Stdout)
}

func newApp(c *config.Config, client API, in io.Reader, out io.Writer) *App {
	client.SetToken(c.Token)
	return &App{config: c, api: client, reader: bufio.NewReader(in), out: out}
}

type command struct {
	usage string
	run   func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"signup":  {"signup", (*App).signup},
	"login":   {"login", (*App).login},
	"whoami":  {"whoami", (*App).whoami},
	"feed":    {"feed [-filter text] [-skip n] [-take n] [-order field[:asc|desc]]...", (*App).feed},
	"show":    {"show <id>", (*App).show},
	"post":    {"post <url> <description...>", (*App).post},
	"refresh": {"refresh <id> <url> <description...>", (*App).refresh},
	"delete":  {"delete <id>", (*App).delete},
	"vote":    {"vote <id>", (*App).vote},
	"voters":  {"voters <id>", (*App).voters},
}

var commandOrder = []string{"signup", "login", "whoami", "feed", "show", "post", "refresh", "delete", "vote", "voters"}

// Run executes the command named in args. Global flags (handled by the
// config package) may precede it and are skipped.
func (a *App) Run(ctx context.Context, args []string) error {
	name, rest := splitCommand(args)
	if name == "" || name == "help" {
		a.usage()
		return nil
	}

	cmd, ok := commands[name]
	if !ok {
		a.usage()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, name)
	}

	if err := cmd.run(a, ctx, rest); err != nil {
		if errors.Is(err, ErrUsage) {
			fmt.Fprintln(a.out, "Usage: linkfeed", cmd.usage)
		}
		return err
	}
	return nil
}

func (a *App) usage() {
	fmt.Fprintln(a.out, "Usage: linkfeed [-a url] [-token token] [-timeout d] [-c file] <command> [args]")
	fmt.Fprintln(a.out, "Commands:")
	for _, name := range commandOrder {
		fmt.Fprintln(a.out, "  "+commands[name].usage)
	}
}

// globalFlags take a value; see the config package.
var globalFlags = map[string]bool{"-a": true, "-token": true, "-timeout": true, "-c": true, "-config": true}

func splitCommand(args []string) (string, []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			return arg, args[i+1:]
		}
		if !strings.Contains(arg, "=") && globalFlags[arg] {
			i++
		}
	}
	return "", nil
}
