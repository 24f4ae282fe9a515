package cmd

import (
	"io"

	"github.com/OpenTraceLab/tiledoc/pkg/docgen"
	"github.com/spf13/cobra"
)

func newRenderCommand(g *globals, stdout io.Writer) *cobra.Command {
	cfg := docgen.DefaultConfig()
	var noDevices, noAux bool

	c := &cobra.Command{
		Use:   "render <database>...",
		Short: "Render the documentation of whole databases",
		Long: `Render every tile of each database: the bit matrix of each bittile, the
equivalence groups with their value tables, the misc and device data tables
of the family, and the device and package listings.

Examples:
  tiledoc render db/xc2c32a.yaml
  tiledoc render --tiles 'CLB*' --tiles IOB -f text db/virtex4.yaml
  tiledoc render -o docs -j 8 db/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Devices, cfg.Aux = !noDevices, !noAux
			dbs, err := g.loadDatabases(args)
			if err != nil {
				return err
			}
			gen, err := docgen.New(cfg, g.Families, g.Log)
			if err != nil {
				return err
			}
			for _, db := range dbs {
				files, err := gen.Write(cmd.Context(), db, stdout)
				if err != nil {
					return err
				}
				if len(files) > 0 {
					g.Log.Infof("%s: wrote %d pages", db.Name, len(files))
				}
			}
			return nil
		},
	}

	flags := c.Flags()
	flags.StringVarP(&cfg.Format, "format", "f", cfg.Format, "output format: html, text or markdown")
	flags.StringVarP(&cfg.OutDir, "out", "o", "", "write one file per page under this directory instead of stdout")
	flags.StringSliceVar(&cfg.OnlyTiles, "tiles", nil, "only render tiles matching these glob patterns")
	flags.IntVarP(&cfg.Parallelism, "parallel", "j", 0, "tiles rendered concurrently (0 uses the number of CPUs)")
	flags.BoolVar(&noDevices, "no-devices", false, "skip the device and package listings")
	flags.BoolVar(&noAux, "no-aux", false, "skip the misc and device data tables")
	return c
}
