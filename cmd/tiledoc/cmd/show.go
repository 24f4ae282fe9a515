package cmd

import (
	"io"

	"github.com/OpenTraceLab/tiledoc/pkg/markup"
	"github.com/OpenTraceLab/tiledoc/pkg/tiledoc"
	"github.com/spf13/cobra"
)

// tileFlags are shared by the commands that render a single tile.
type tileFlags struct {
	format string
}

func (f *tileFlags) register(c *cobra.Command) {
	c.Flags().StringVarP(&f.format, "format", "f", markup.FormatText, "output format: html, text or markdown")
}

// render runs one render pass with the profile of the database family.
func (f *tileFlags) render(g *globals, args []string) (string, *tiledoc.Result, markup.Emitter, error) {
	emit, err := markup.New(f.format)
	if err != nil {
		return "", nil, nil, err
	}
	db, tile, err := g.loadTile(args[0], args[1])
	if err != nil {
		return "", nil, nil, err
	}
	profile := g.Families.Profile(db.Family)
	res, err := tiledoc.Render(tile, profile.Options(tile.Name, g.Log.WithPrefix(db.Name+" "+tile.Name+": ")))
	if err != nil {
		return "", nil, nil, err
	}
	return db.Name, res, emit, nil
}

func newShowCommand(g *globals, stdout io.Writer) *cobra.Command {
	var tf tileFlags
	c := &cobra.Command{
		Use:   "show <database> <tile>",
		Short: "Show the bit matrix of one tile",
		Long: `Show which item occupies which bit of a tile, one table per bittile, in the
orientation of the database family.

Examples:
  tiledoc show db/xc2c32a.yaml mc
  tiledoc show -f markdown db/virtex4.yaml CLB`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dbName, res, emit, err := tf.render(g, args)
			if err != nil {
				return err
			}
			if len(res.Matrix.Projected) > 0 {
				g.Log.Warnf("%d bits have coordinates that could not be placed on a bittile", len(res.Matrix.Projected))
			}
			return emit.Matrix(stdout, dbName, res.Tile, res.Matrix)
		},
	}
	tf.register(c)
	return c
}
