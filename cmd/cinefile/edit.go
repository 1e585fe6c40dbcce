package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cinefile/internal/editor"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var editCommand = &cli.Command{
	Name:  "edit",
	Usage: "Edit a movie record through an edit session",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "show-id",
			Usage:    "Show id of the record to edit",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:  "set",
			Usage: "Field assignment as key=value, e.g. --set title=Heat --set releaseYear=1995",
		},
		&cli.StringFlag{
			Name:  "genre",
			Usage: "Genre key to make the single active genre, empty to clear",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Print the draft and discard it instead of saving",
		},
	},
	Action: edit,
}

func edit(c *cli.Context) error {
	assignments, err := parseAssignments(c.StringSlice("set"))
	if err != nil {
		return err
	}

	moviesRepo, pool, cfg, err := openMovieRepository(c)
	if err != nil {
		return err
	}
	defer pool.Close()

	logger := newLogger(cfg)
	showID := c.String("show-id")

	movie, err := moviesRepo.Movie(c.Context, showID)
	if err != nil {
		return fmt.Errorf("failed to load movie %s: %w", showID, err)
	}

	session := editor.New(movie, moviesRepo,
		editor.WithLogger(logger.WithField("show_id", showID)),
		editor.OnSuccess(func() { fmt.Printf("saved %s\n", showID) }),
		editor.OnCancel(func() { fmt.Printf("discarded changes to %s\n", showID) }),
	)

	for _, a := range assignments {
		if err := session.SetField(a.key, a.value); err != nil {
			return err
		}
	}

	if c.IsSet("genre") {
		if err := session.SetGenre(strings.TrimSpace(c.String("genre"))); err != nil {
			return err
		}
	}

	if c.Bool("dry-run") {
		pp.Println(session.Draft())
		fmt.Printf("active genre: %q\n", session.ActiveGenre())
		session.Cancel()
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Context, time.Duration(cfg.UpdateTimeoutSec)*time.Second)
	defer cancel()

	return session.Submit(ctx)
}

type assignment struct {
	key   string
	value string
}

// parseAssignments splits key=value pairs. Only the first '=' separates, so
// values may contain it; an empty value is allowed.
func parseAssignments(raw []string) ([]assignment, error) {
	out := make([]assignment, 0, len(raw))
	for _, r := range raw {
		key, value, ok := strings.Cut(r, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, expected key=value", r)
		}
		out = append(out, assignment{key: key, value: value})
	}
	return out, nil
}
