// Command clozectl checks, plays and imports cloze exercise files.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/mind-engage/mindengage-cloze/internal/cloze"
	"github.com/mind-engage/mindengage-cloze/internal/db"
	"github.com/mind-engage/mindengage-cloze/internal/exercise"
	"github.com/mind-engage/mindengage-cloze/internal/logger"
	"github.com/mind-engage/mindengage-cloze/internal/session"
	"github.com/mind-engage/mindengage-cloze/internal/validate"
)

// CLI defines the command-line interface for clozectl.
type CLI struct {
	Verbose bool `short:"v" help:"Debug logging"`

	Lint   LintCmd   `cmd:"" help:"Validate exercise files and print their segments"`
	Play   PlayCmd   `cmd:"" help:"Check answers against an exercise offline"`
	Import ImportCmd `cmd:"" help:"Store exercises in the database"`
}

func (c *CLI) logger() *logger.Logger {
	if !c.Verbose {
		return logger.NewNop()
	}
	l, err := logger.New("development")
	if err != nil {
		return logger.NewNop()
	}
	return l
}

var errFailed = errors.New("one or more exercises failed")

// LintCmd validates exercise files.
type LintCmd struct {
	Files []string `arg:"" help:"Exercise files (.yaml, .yml, .json)" type:"existingfile"`
	Quiet bool     `short:"q" help:"Only print problems"`
}

func (c *LintCmd) Run(ctx *kong.Context) error {
	v := validate.NewValidator()
	failed := false
	for _, path := range c.Files {
		list, err := loadExercises(path)
		if err != nil {
			fmt.Fprintf(ctx.Stdout, "%s: %v\n", path, err)
			failed = true
			continue
		}
		for _, e := range list {
			if !lintOne(ctx.Stdout, v, path, e, c.Quiet) {
				failed = true
			}
		}
	}
	if failed {
		return errFailed
	}
	return nil
}

func lintOne(w io.Writer, v *validate.Validator, path string, e exercise.Exercise, quiet bool) bool {
	if err := v.Struct(e); err != nil {
		fmt.Fprintf(w, "%s [%s]: %v\n", path, e.ID, err)
		return false
	}
	c, _, err := e.Build()
	if err != nil {
		fmt.Fprintf(w, "%s [%s]: %v\n", path, e.ID, err)
		return false
	}
	for _, name := range e.UnresolvedSnippets() {
		fmt.Fprintf(w, "%s [%s]: warning: unresolved snippet @{%s}\n", path, e.ID, name)
	}
	if quiet {
		return true
	}
	fmt.Fprintf(w, "%s [%s]: ok, %d blanks, %d highlights\n", path, e.ID, len(c.Blanks()), len(c.Highlights()))
	for _, seg := range c.Segments() {
		fmt.Fprintf(w, "  %-9s %s\n", seg.Kind, segmentLabel(c, seg))
	}
	return true
}

func segmentLabel(c *cloze.Cloze, seg cloze.Segment) string {
	switch seg.Kind {
	case cloze.SegmentBlank:
		b, _ := c.Blank(seg.Ref)
		return fmt.Sprintf("%s %q", seg.Ref, b.Answers)
	case cloze.SegmentHighlight:
		h, _ := c.Highlight(seg.Ref)
		return fmt.Sprintf("%s %q (%s)", seg.Ref, h.Text, h.Tooltip)
	case cloze.SegmentMedia:
		src, _ := c.Media(seg.Ref)
		return seg.Ref + " -> " + src
	}
	return fmt.Sprintf("%q", seg.Text)
}

// PlayCmd runs a check-all over one exercise.
type PlayCmd struct {
	File   string            `arg:"" help:"Exercise file" type:"existingfile"`
	ID     string            `help:"Exercise id when the file holds several"`
	Answer map[string]string `short:"a" help:"Answer for a blank, e.g. --answer b1=cat"`
}

func (c *PlayCmd) Run(ctx *kong.Context, cli *CLI) error {
	list, err := loadExercises(c.File)
	if err != nil {
		return err
	}
	e, err := pick(list, c.ID)
	if err != nil {
		return err
	}
	s, err := session.New(e, session.WithID("cli"), session.WithLogger(cli.logger()))
	if err != nil {
		return err
	}
	out, err := s.CheckAll(context.Background(), c.Answer)
	if err != nil {
		return err
	}
	v := s.Snapshot()
	for _, b := range v.Blanks {
		line := fmt.Sprintf("%s: %-11s %q", b.ID, b.State, b.EnteredText)
		if len(b.Choices) > 0 {
			line += fmt.Sprintf(" of %q", b.Choices)
		}
		if b.Typo {
			line += " (check spelling)"
		}
		fmt.Fprintln(ctx.Stdout, line)
	}
	if !out.Solved {
		fmt.Fprintln(ctx.Stdout, "not solved")
		return nil
	}
	fmt.Fprintln(ctx.Stdout, "solved")
	if v.Feedback.Text != "" {
		fmt.Fprintln(ctx.Stdout, v.Feedback.Text)
	}
	return nil
}

func pick(list []exercise.Exercise, id string) (exercise.Exercise, error) {
	if id == "" {
		if len(list) != 1 {
			return exercise.Exercise{}, fmt.Errorf("file holds %d exercises, pass --id", len(list))
		}
		return list[0], nil
	}
	ids := make([]string, 0, len(list))
	for _, e := range list {
		if e.ID == id {
			return e, nil
		}
		ids = append(ids, e.ID)
	}
	sort.Strings(ids)
	return exercise.Exercise{}, fmt.Errorf("no exercise %q (have %s)", id, strings.Join(ids, ", "))
}

// ImportCmd stores exercises after the same checks lint runs.
type ImportCmd struct {
	Files    []string `arg:"" help:"Exercise files" type:"existingfile"`
	DBDriver string   `name:"db-driver" default:"sqlite" enum:"sqlite,postgres" env:"DB_DRIVER" help:"Database driver"`
	DBDSN    string   `name:"db-dsn" env:"DB_DSN" help:"Database DSN"`
}

func (c *ImportCmd) Run(ctx *kong.Context, cli *CLI) error {
	log := cli.logger()
	bg, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dbh, err := db.Open(bg, db.Driver(c.DBDriver), c.DBDSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer dbh.Close()
	return importFiles(bg, ctx.Stdout, exercise.NewSQLStore(dbh, c.DBDriver), c.Files, log)
}

func importFiles(ctx context.Context, w io.Writer, store exercise.Store, files []string, log *logger.Logger) error {
	v := validate.NewValidator()
	failed := false
	for _, path := range files {
		list, err := loadExercises(path)
		if err != nil {
			fmt.Fprintf(w, "%s: %v\n", path, err)
			failed = true
			continue
		}
		for _, e := range list {
			if err := e.Check(v); err != nil {
				fmt.Fprintf(w, "%s [%s]: %v\n", path, e.ID, err)
				failed = true
				continue
			}
			e.CreatedAt = time.Now().Unix()
			if err := store.PutExercise(ctx, e); err != nil {
				return fmt.Errorf("store %s: %w", e.ID, err)
			}
			log.Debug("exercise imported", "exercise_id", e.ID, "file", path)
			fmt.Fprintf(w, "imported %s\n", e.ID)
		}
	}
	if failed {
		return errFailed
	}
	return nil
}

func newParser(cli *CLI, opts ...kong.Option) (*kong.Kong, error) {
	opts = append([]kong.Option{
		kong.Name("clozectl"),
		kong.Description("Cloze exercise tooling"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Bind(cli),
	}, opts...)
	return kong.New(cli, opts...)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run())
}
