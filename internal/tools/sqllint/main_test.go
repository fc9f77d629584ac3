package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGo(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestLintAcceptsMarkedQueries(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "q.go", "package q\n\nconst QOne = `--sql 0f5c2d4e-1b7a-4c3e-9d8f-2a6b4c8e0f11\nselect 1;\n`\n\nconst greeting = \"please select a plan\"\n")

	vs, err := lint([]string{dir})
	require.NoError(t, err)
	assert.Empty(t, vs)
}

func TestLintFlagsMissingMarker(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "q.go", "package q\n\nconst QBad = `\nselect id from users;\n`\n\nconst QWrong = `--sql not-a-uuid\nselect 1;\n`\n")

	vs, err := lint([]string{dir})
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.Equal(t, "QBad", vs[0].name)
	assert.Equal(t, "QWrong", vs[1].name)
}

func TestLintFlagsDuplicateMarkers(t *testing.T) {
	dir := t.TempDir()
	q := "`--sql 0f5c2d4e-1b7a-4c3e-9d8f-2a6b4c8e0f11\nselect 1;\n`"
	writeGo(t, dir, "a.go", "package q\n\nconst QA = "+q+"\n")
	writeGo(t, dir, "b.go", "package q\n\nconst QB = "+q+"\n")
	writeGo(t, dir, "b_test.go", "package q\n\nconst QT = "+q+"\n")

	vs, err := lint([]string{dir})
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.True(t, strings.Contains(vs[0].message, "marker already used by QA"), vs[0].String())
}

func TestLintRepositoryQueries(t *testing.T) {
	vs, err := lint([]string{"../../sqlinline", "../../adapter/sqlite"})
	require.NoError(t, err)
	assert.Empty(t, vs)
}
