package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"feedreader/internal/adapter"
	"feedreader/internal/domain"
	"feedreader/internal/infra"
)

func main() {
	var (
		idFlag     string
		emailFlag  string
		planFlag   string
		banFlag    bool
		unbanFlag  bool
		verifyFlag bool
	)

	flag.StringVar(&idFlag, "id", "", "user ID to update")
	flag.StringVar(&emailFlag, "email", "", "user email to update")
	flag.StringVar(&planFlag, "plan", "", "plan to assign (free, pro, enterprise)")
	flag.BoolVar(&banFlag, "ban", false, "ban the account")
	flag.BoolVar(&unbanFlag, "unban", false, "lift a ban")
	flag.BoolVar(&verifyFlag, "verify", false, "mark the email address as verified")
	flag.Parse()

	update, err := buildUpdate(planFlag, banFlag, unbanFlag, verifyFlag)
	if err != nil {
		exitWithError(err)
	}

	idText := strings.TrimSpace(idFlag)
	email := strings.TrimSpace(emailFlag)
	if idText == "" && email == "" {
		exitWithError(errors.New("either -id or -email must be provided"))
	}

	_ = godotenv.Load()
	cfg, err := infra.LoadDatabaseConfig()
	if err != nil {
		exitWithError(err)
	}
	logger := infra.NewLogger("cli", os.Getenv("LOG_LEVEL")).With().Str("cmd", "userplan").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repos, err := adapter.Open(ctx, cfg, logger)
	if err != nil {
		exitWithError(fmt.Errorf("failed to open database: %w", err))
	}
	defer repos.Close()

	lookupCtx, cancelLookup := context.WithTimeout(ctx, 5*time.Second)
	var user *domain.User
	if idText != "" {
		id, perr := strconv.ParseInt(idText, 10, 64)
		if perr != nil {
			cancelLookup()
			exitWithError(fmt.Errorf("invalid -id %q", idText))
		}
		user, err = repos.Users.GetByID(lookupCtx, id)
	} else {
		user, err = repos.Users.GetByEmail(lookupCtx, email)
	}
	cancelLookup()
	if errors.Is(err, domain.ErrNotFound) {
		exitWithError(errors.New("user not found"))
	}
	if err != nil {
		exitWithError(fmt.Errorf("failed to load user: %w", err))
	}

	updateCtx, cancelUpdate := context.WithTimeout(ctx, 5*time.Second)
	defer cancelUpdate()
	updated, err := repos.Users.UpdateAccount(updateCtx, user.ID, update)
	if err != nil {
		exitWithError(fmt.Errorf("failed to update user: %w", err))
	}

	fmt.Printf("User %d (%s) updated\n", updated.ID, updated.Email)
	fmt.Printf("plan=%s\n", updated.Plan)
	fmt.Printf("banned=%t\n", updated.Banned)
	fmt.Printf("email_verified=%t\n", updated.EmailVerified)
}

// buildUpdate validates the flags before any database access.
func buildUpdate(plan string, ban, unban, verify bool) (domain.AccountUpdate, error) {
	var u domain.AccountUpdate

	if strings.TrimSpace(plan) != "" {
		p, ok := domain.ParsePlan(plan)
		if !ok {
			return u, fmt.Errorf("%w %q", domain.ErrUnsupportedPlan, plan)
		}
		u.Plan = &p
	}
	if ban && unban {
		return u, errors.New("-ban and -unban are mutually exclusive")
	}
	if ban || unban {
		banned := ban
		u.Banned = &banned
	}
	if verify {
		verified := true
		u.EmailVerified = &verified
	}
	if u.Empty() {
		return u, errors.New("nothing to update: pass -plan, -ban, -unban or -verify")
	}
	return u, nil
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
