package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedreader/internal/adapter/sqlite"
	"feedreader/internal/domain"
	"feedreader/internal/domainpolicy"
)

func newCommand(t *testing.T) (*command, *bytes.Buffer) {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db))

	store := sqlite.NewBlockedDomainRepository(db)
	out := &bytes.Buffer{}
	return &command{
		store:   store,
		checker: domainpolicy.NewChecker(store, zerolog.Nop()),
		out:     out,
	}, out
}

func TestBlocklistCommands(t *testing.T) {
	ctx := context.Background()
	cli, out := newCommand(t)

	require.NoError(t, cli.run(ctx, "add", []string{"-domain", "WWW.Spam.Example", "-reason", "spam"}))
	assert.Equal(t, "blocked spam.example\n", out.String())

	out.Reset()
	require.NoError(t, cli.run(ctx, "check", []string{"-url", "https://feeds.spam.example/rss"}))
	assert.Equal(t, "feeds.spam.example blocked: spam\n", out.String())

	out.Reset()
	require.NoError(t, cli.run(ctx, "check", []string{"-url", "https://feeds.spam.example/rss", "-plan", "enterprise"}))
	assert.Equal(t, "feeds.spam.example allowed\n", out.String())

	out.Reset()
	require.NoError(t, cli.run(ctx, "list", nil))
	assert.Equal(t, "spam.example\tspam\n", out.String())

	out.Reset()
	require.NoError(t, cli.run(ctx, "remove", []string{"-domain", "spam.example"}))
	assert.Equal(t, "unblocked spam.example\n", out.String())

	assert.Error(t, cli.run(ctx, "remove", []string{"-domain", "spam.example"}))

	out.Reset()
	require.NoError(t, cli.run(ctx, "list", nil))
	assert.Equal(t, "blocklist is empty\n", out.String())
}

func TestBlocklistCommandErrors(t *testing.T) {
	ctx := context.Background()
	cli, _ := newCommand(t)

	assert.Error(t, cli.run(ctx, "check", nil))
	assert.Error(t, cli.run(ctx, "check", []string{"-url", "not a url"}))
	assert.ErrorIs(t, cli.run(ctx, "check", []string{"-url", "https://a.example", "-plan", "gold"}), domain.ErrUnsupportedPlan)
	assert.Error(t, cli.run(ctx, "add", []string{"-domain", "*."}))
	assert.Error(t, cli.run(ctx, "purge", nil))
	assert.Error(t, cli.run(ctx, "list", []string{"-bogus"}))
}
