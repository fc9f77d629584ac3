package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"feedreader/internal/adapter"
	"feedreader/internal/domain"
	"feedreader/internal/domainpolicy"
	"feedreader/internal/infra"
)

const usage = `usage: blocklist <command> [flags]

commands:
  check  -url URL [-plan PLAN]   evaluate a feed URL against the blocklist
  list                           print every entry
  add    -domain D [-reason R]   block a hostname or *.suffix pattern
  remove -domain D               delete an entry`

func main() {
	if len(os.Args) < 2 {
		exitWithError(errors.New(usage))
	}

	_ = godotenv.Load()
	cfg, err := infra.LoadDatabaseConfig()
	if err != nil {
		exitWithError(err)
	}
	logger := infra.NewLogger("cli", os.Getenv("LOG_LEVEL")).With().Str("cmd", "blocklist").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repos, err := adapter.Open(ctx, cfg, logger)
	if err != nil {
		exitWithError(fmt.Errorf("failed to open database: %w", err))
	}
	defer repos.Close()

	cli := &command{
		store:   repos.Blocklist,
		checker: domainpolicy.NewChecker(repos.Blocklist, logger),
		out:     os.Stdout,
	}
	if err := cli.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		repos.Close()
		exitWithError(err)
	}
}

type command struct {
	store   domain.BlockedDomainStore
	checker *domainpolicy.Checker
	out     io.Writer
}

func (c *command) run(ctx context.Context, name string, args []string) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		urlFlag    = fs.String("url", "", "feed URL to check")
		planFlag   = fs.String("plan", "free", "plan to evaluate as")
		domainFlag = fs.String("domain", "", "hostname or *.suffix pattern")
		reasonFlag = fs.String("reason", "", "reason shown to users")
	)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	switch name {
	case "check":
		return c.check(ctx, *urlFlag, *planFlag)
	case "list":
		return c.list(ctx)
	case "add":
		return c.add(ctx, *domainFlag, *reasonFlag)
	case "remove":
		return c.remove(ctx, *domainFlag)
	default:
		return fmt.Errorf("unknown command %q\n%s", name, usage)
	}
}

func (c *command) check(ctx context.Context, rawURL, planText string) error {
	if strings.TrimSpace(rawURL) == "" {
		return errors.New("check: -url is required")
	}
	plan, ok := domain.ParsePlan(planText)
	if !ok {
		return fmt.Errorf("check: %w %q", domain.ErrUnsupportedPlan, planText)
	}
	res, err := c.checker.CheckURL(ctx, rawURL, plan)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	if !res.Blocked {
		fmt.Fprintf(c.out, "%s allowed\n", res.Host)
		return nil
	}
	reason := "no reason given"
	if res.Reason != nil {
		reason = *res.Reason
	}
	fmt.Fprintf(c.out, "%s blocked: %s\n", res.Host, reason)
	return nil
}

func (c *command) list(ctx context.Context) error {
	entries, err := c.checker.List(ctx)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "blocklist is empty")
		return nil
	}
	for _, e := range entries {
		if e.Reason != nil {
			fmt.Fprintf(c.out, "%s\t%s\n", e.Domain, *e.Reason)
		} else {
			fmt.Fprintln(c.out, e.Domain)
		}
	}
	return nil
}

func (c *command) add(ctx context.Context, raw, reason string) error {
	pattern := domainpolicy.NormalizeDomain(raw)
	if !domainpolicy.ValidPattern(pattern) {
		return fmt.Errorf("add: invalid domain %q", raw)
	}
	entry := domain.BlockedDomain{Domain: pattern}
	if r := strings.TrimSpace(reason); r != "" {
		entry.Reason = &r
	}
	if err := c.store.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	fmt.Fprintf(c.out, "blocked %s\n", pattern)
	return nil
}

func (c *command) remove(ctx context.Context, raw string) error {
	pattern := domainpolicy.NormalizeDomain(raw)
	if pattern == "" {
		return errors.New("remove: -domain is required")
	}
	err := c.store.Delete(ctx, pattern)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("remove: %s is not on the blocklist", pattern)
	}
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	fmt.Fprintf(c.out, "unblocked %s\n", pattern)
	return nil
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
