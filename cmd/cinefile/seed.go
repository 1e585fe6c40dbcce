package main

import (
	"fmt"

	"cinefile/internal/seed"
	"cinefile/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with the genre table and sample movies",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "genres-only",
			Usage: "Only sync the genres table",
		},
	},
	Action: func(c *cli.Context) error {
		ctx := c.Context

		moviesRepo, pool, _, err := openMovieRepository(c)
		if err != nil {
			return err
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		logrus.Info("Syncing genres...")
		if err := seed.SyncGenres(ctx, store.NewGenreRepository(pool)); err != nil {
			return fmt.Errorf("failed to sync genres: %w", err)
		}

		if c.Bool("genres-only") {
			return nil
		}

		logrus.Info("Seeding movies...")
		if err := seed.SeedMovies(ctx, moviesRepo); err != nil {
			return fmt.Errorf("failed to seed movies: %w", err)
		}

		logrus.Info("Seed complete")

		return nil
	},
}
