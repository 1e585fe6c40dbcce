package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "cinefile",
		Usage: "Catalog editor for movie and TV show records",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-prefix",
				Aliases: []string{"p"},
				Usage:   "Environment variable prefix",
				Value:   "",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Optional dotenv file loaded before reading the environment",
				Value: ".env",
			},
		},
		Commands: []*cli.Command{
			serveCommand,
			seedCommand,
			editCommand,
			showCommand,
			genresCommand,
			nanoidCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
