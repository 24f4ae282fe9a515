package cmd

import (
	"io"

	"github.com/spf13/cobra"
)

func newConfigCommand(g *globals, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective family profiles as TOML",
		Long: `Print the family profiles in effect, the built-in ones merged with those of
the configuration file. The output is a valid configuration file.

Examples:
  tiledoc config
  tiledoc -c tiledoc.toml config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.Families.Dump(stdout)
		},
	}
}
