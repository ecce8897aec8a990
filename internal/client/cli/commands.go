package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/linkfeed/internal/client/api"
	"github.com/dmitrijs2005/linkfeed/internal/common"
)

func (a *App) credentials(withName bool) (email, name, password string, err error) {
	email, err = GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return "", "", "", err
	}
	if withName {
		name, err = GetSimpleText(a.reader, "Name", a.out)
		if err != nil {
			return "", "", "", err
		}
	}

	pw, err := GetPassword(a.out)
	if err != nil {
		return "", "", "", err
	}
	defer common.WipeByteArray(pw)

	return email, name, string(pw), nil
}

func (a *App) signup(ctx context.Context, args []string) error {
	email, name, password, err := a.credentials(true)
	if err != nil {
		return err
	}

	p, err := a.api.Signup(ctx, email, password, name)
	if err != nil {
		return err
	}
	a.printToken(p)
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	email, _, password, err := a.credentials(false)
	if err != nil {
		return err
	}

	p, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.printToken(p)
	return nil
}

func (a *App) printToken(p *api.AuthPayload) {
	fmt.Fprintf(a.out, "Logged in as %s <%s> (id %d)\n", p.User.Name, p.User.Email, p.User.ID)
	fmt.Fprintf(a.out, "export LINKFEED_TOKEN=%s\n", p.Token)
}

func (a *App) whoami(ctx context.Context, args []string) error {
	u, err := a.api.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s> (id %d)\n", u.Name, u.Email, u.ID)
	return nil
}

// orderFlags collects repeated -order values.
type orderFlags []string

func (o *orderFlags) String() string { return strings.Join(*o, ",") }

func (o *orderFlags) Set(v string) error {
	*o = append(*o, v)
	return nil
}

func (a *App) feed(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("feed", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var p api.FeedParams
	var order orderFlags
	filter := fs.String("filter", "", "substring of description or url")
	skip := fs.Int("skip", 0, "links to skip")
	take := fs.Int("take", -1, "links to return (-1 for all)")
	fs.Var(&order, "order", "sort key, field[:asc|desc]; repeatable")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "filter":
			p.Filter = filter
		case "skip":
			p.Skip = skip
		}
	})
	if *take >= 0 {
		p.Take = take
	}
	p.OrderBy = order

	f, err := a.api.Feed(ctx, p)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDESCRIPTION\tURL\tPOSTED BY\tCREATED")
	for _, l := range f.Links {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", l.ID, l.Description, l.URL, author(l.PostedBy), l.CreatedAt.Format("2006-01-02 15:04"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d of %d matching links\n", len(f.Links), f.Count)
	return nil
}

func author(u *api.User) string {
	if u == nil {
		return "-"
	}
	return u.Name
}

func (a *App) printLink(l *api.Link) {
	fmt.Fprintf(a.out, "#%d %s\n  %s\n  posted by %s at %s\n", l.ID, l.Description, l.URL, author(l.PostedBy), l.CreatedAt.Format("2006-01-02 15:04"))
}

func parseID(args []string, want int) (int64, error) {
	if len(args) < want {
		return 0, fmt.Errorf("%w: missing arguments", ErrUsage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid link id %q", ErrUsage, args[0])
	}
	return id, nil
}

func (a *App) show(ctx context.Context, args []string) error {
	id, err := parseID(args, 1)
	if err != nil {
		return err
	}
	l, err := a.api.GetLink(ctx, id)
	if err != nil {
		return err
	}
	a.printLink(l)
	return nil
}

func (a *App) post(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: missing arguments", ErrUsage)
	}
	l, err := a.api.Post(ctx, strings.Join(args[1:], " "), args[0])
	if err != nil {
		return err
	}
	a.printLink(l)
	return nil
}

func (a *App) refresh(ctx context.Context, args []string) error {
	id, err := parseID(args, 3)
	if err != nil {
		return err
	}
	l, err := a.api.Refresh(ctx, id, strings.Join(args[2:], " "), args[1])
	if err != nil {
		return err
	}
	a.printLink(l)
	return nil
}

func (a *App) delete(ctx context.Context, args []string) error {
	id, err := parseID(args, 1)
	if err != nil {
		return err
	}
	l, err := a.api.Delete(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted #%d %s\n", l.ID, l.Description)
	return nil
}

func (a *App) vote(ctx context.Context, args []string) error {
	id, err := parseID(args, 1)
	if err != nil {
		return err
	}
	if _, err := a.api.Vote(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Voted for #%d\n", id)
	return nil
}

func (a *App) voters(ctx context.Context, args []string) error {
	id, err := parseID(args, 1)
	if err != nil {
		return err
	}
	users, err := a.api.Voters(ctx, id)
	if err != nil {
		return err
	}
	for _, u := range users {
		fmt.Fprintf(a.out, "%s <%s>\n", u.Name, u.Email)
	}
	fmt.Fprintf(a.out, "%d voters\n", len(users))
	return nil
}
