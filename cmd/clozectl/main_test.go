package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-cloze/internal/exercise"
	"github.com/mind-engage/mindengage-cloze/internal/logger"
)

const animalsYAML = `id: animals
title: Animals
text: "The [[blank]] sat on the [[mat|highlight:a floor covering]]. @{who} barked."
blanks:
  - answers: [cat, kitten]
    hint: meows
snippets:
  who: The dog
feedback: Purrfect.
settings:
  spelling: warn
---
id: broken
text: "[[blank]] and [[blank]]"
blanks:
  - answers: [a]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	var out bytes.Buffer
	parser, err := newParser(&cli, kong.Writers(&out, &out), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	err = ctx.Run()
	return out.String(), err
}

func TestLint(t *testing.T) {
	good := writeFile(t, "good.json", `{"id":"one","text":"Say [[blank]] @{x}","blanks":[{"answers":["hi"]}]}`)
	out, err := run(t, "lint", good)
	require.NoError(t, err)
	assert.Contains(t, out, "good.json [one]: ok, 1 blanks, 0 highlights")
	assert.Contains(t, out, "warning: unresolved snippet @{x}")
	assert.Contains(t, out, `b1 ["hi"]`)

	mixed := writeFile(t, "mixed.yaml", animalsYAML)
	out, err = run(t, "lint", "-q", mixed)
	assert.ErrorIs(t, err, errFailed)
	assert.Contains(t, out, "[broken]: malformed cloze")
	assert.NotContains(t, out, "[animals]")
}

func TestLintRejectsUnknownYAMLFields(t *testing.T) {
	p := writeFile(t, "typo.yml", "id: x\ntext: hi\nblankz: []\n")
	out, err := run(t, "lint", p)
	assert.ErrorIs(t, err, errFailed)
	assert.Contains(t, out, "blankz")
}

func TestPlay(t *testing.T) {
	p := writeFile(t, "animals.yaml", animalsYAML)

	out, err := run(t, "play", p, "--id", "animals", "--answer", "b1=kiten")
	require.NoError(t, err)
	assert.Contains(t, out, `b1: incorrect   "kiten" (check spelling)`)
	assert.Contains(t, out, "not solved")

	out, err = run(t, "play", p, "--id", "animals", "-a", "b1= Kitten ")
	require.NoError(t, err)
	assert.Contains(t, out, "solved\nPurrfect.")

	_, err = run(t, "play", p)
	assert.ErrorContains(t, err, "pass --id")
	_, err = run(t, "play", p, "--id", "nope")
	assert.ErrorContains(t, err, `no exercise "nope"`)
}

func TestImport(t *testing.T) {
	p := writeFile(t, "animals.yaml", animalsYAML)
	store := exercise.NewInMemoryStore()
	var out bytes.Buffer

	err := importFiles(context.Background(), &out, store, []string{p}, logger.NewNop())
	assert.ErrorIs(t, err, errFailed)
	assert.Contains(t, out.String(), "imported animals")

	e, err := store.GetExercise(context.Background(), "animals")
	require.NoError(t, err)
	assert.Equal(t, "warn", e.Settings.Spelling)
	_, err = store.GetExercise(context.Background(), "broken")
	assert.ErrorIs(t, err, exercise.ErrNotFound)
}

func TestImportSQLite(t *testing.T) {
	p := writeFile(t, "one.json", `[{"id":"one","text":"[[blank]]","blanks":[{"answers":["x"]}]}]`)
	dsn := "file:" + filepath.Join(t.TempDir(), "c.db")
	out, err := run(t, "import", "--db-driver", "sqlite", "--db-dsn", dsn, p)
	require.NoError(t, err)
	assert.Equal(t, "imported one\n", out)
}
