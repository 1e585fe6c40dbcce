package main

import (
	"fmt"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var showCommand = &cli.Command{
	Name:  "show",
	Usage: "Pretty print a movie record and its active genre",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "show-id",
			Usage:    "Show id of the record",
			Required: true,
		},
	},
	Action: func(c *cli.Context) error {
		moviesRepo, pool, _, err := openMovieRepository(c)
		if err != nil {
			return err
		}
		defer pool.Close()

		movie, err := moviesRepo.Movie(c.Context, c.String("show-id"))
		if err != nil {
			return err
		}

		pp.Println(movie)

		active := movie.Genres.Active()
		if active == "" {
			fmt.Println("active genre: none")
		} else {
			fmt.Printf("active genre: %s (%s)\n", active.Label(), active)
		}
		if n := movie.Genres.SetCount(); n > 1 {
			fmt.Printf("warning: %d genre flags are set, only the first is editable\n", n)
		}

		return nil
	},
}
