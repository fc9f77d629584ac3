package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"feedreader/internal/domain"
	"feedreader/internal/session"
)

func main() {
	var (
		userFlag int64
		roleFlag string
		ttlFlag  time.Duration
	)

	flag.Int64Var(&userFlag, "user", 0, "user ID to put in the subject claim")
	flag.StringVar(&roleFlag, "role", "user", "role claim (user, admin)")
	flag.DurationVar(&ttlFlag, "ttl", time.Hour, "token lifetime")
	flag.Parse()

	identity, err := parseIdentity(userFlag, roleFlag)
	if err != nil {
		exitWithError(err)
	}
	if ttlFlag <= 0 {
		exitWithError(errors.New("-ttl must be positive"))
	}

	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		exitWithError(errors.New("JWT_SECRET is required"))
	}

	token, err := session.SignToken(secret, os.Getenv("JWT_ISSUER"), identity, ttlFlag, time.Now())
	if err != nil {
		exitWithError(fmt.Errorf("failed to sign token: %w", err))
	}
	fmt.Println(token)
}

func parseIdentity(userID int64, role string) (domain.Identity, error) {
	if userID <= 0 {
		return domain.Identity{}, errors.New("-user must be a positive user ID")
	}
	switch r := domain.UserRole(strings.ToLower(strings.TrimSpace(role))); r {
	case domain.UserRoleUser, domain.UserRoleAdmin:
		return domain.Identity{UserID: userID, Role: r}, nil
	default:
		return domain.Identity{}, fmt.Errorf("unsupported role %q", role)
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
