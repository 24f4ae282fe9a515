package cmd

import (
	"io"
	"strings"

	"github.com/OpenTraceLab/tiledoc/pkg/markup"
	"github.com/spf13/cobra"
)

func newGroupsCommand(g *globals, stdout io.Writer) *cobra.Command {
	var tf tileFlags
	c := &cobra.Command{
		Use:   "groups <database> <tile>",
		Short: "Show the equivalence groups of one tile",
		Long: `Show the items of a tile grouped by canonical name and encoding, each group
with the value table of its representative. Items whose canonical names
collide but whose encodings differ are listed as conflicts.

Examples:
  tiledoc groups db/virtex4.yaml CLB
  tiledoc -c tiledoc.toml groups db/virtex4.yaml BRAM`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbName, res, emit, err := tf.render(g, args)
			if err != nil {
				return err
			}
			if err := emit.Groups(stdout, dbName, res.Tile, res.Grouping); err != nil {
				return err
			}
			if len(res.Grouping.Diagnostics) == 0 {
				return nil
			}
			l := &markup.Listing{
				Title:  "conflicts",
				Header: []string{"Canonical", "Items", "Fingerprints"},
			}
			for _, d := range res.Grouping.Diagnostics {
				l.Rows = append(l.Rows, []string{d.Canonical, strings.Join(d.Items, " "), strings.Join(d.Fingerprints, " ")})
			}
			return emit.Listing(stdout, l)
		},
	}
	tf.register(c)
	return c
}
