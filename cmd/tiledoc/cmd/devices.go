package cmd

import (
	"io"

	"github.com/OpenTraceLab/tiledoc/pkg/docgen"
	"github.com/OpenTraceLab/tiledoc/pkg/markup"
	"github.com/spf13/cobra"
)

func newDevicesCommand(g *globals, stdout io.Writer) *cobra.Command {
	var format string
	c := &cobra.Command{
		Use:   "devices <database>...",
		Short: "List the devices and packages of databases",
		Long: `List every part with its chip, decoded IDCODE and chip parameters, followed
by the package availability matrix.

Examples:
  tiledoc devices db/xc2c32a.yaml
  tiledoc devices -f markdown db/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			emit, err := markup.New(format)
			if err != nil {
				return err
			}
			dbs, err := g.loadDatabases(args)
			if err != nil {
				return err
			}
			for _, db := range dbs {
				if len(db.Parts) == 0 {
					g.Log.Infof("%s: no parts", db.Name)
					continue
				}
				if err := emit.Listing(stdout, docgen.DeviceList(db)); err != nil {
					return err
				}
				if err := emit.Listing(stdout, docgen.PackageMatrix(db)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	c.Flags().StringVarP(&format, "format", "f", markup.FormatText, "output format: html, text or markdown")
	return c
}
