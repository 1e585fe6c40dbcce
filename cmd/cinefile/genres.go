package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"cinefile/pkg/types"

	"github.com/urfave/cli/v2"
)

var genresCommand = &cli.Command{
	Name:  "genres",
	Usage: "Print the genre table in form order",
	Action: func(c *cli.Context) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "#\tKEY\tLABEL\tCOLUMN")
		for i, g := range types.Genres {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, g.Key, g.Label, g.Column)
		}
		return w.Flush()
	},
}
