package cmd

import (
	"io"

	"github.com/OpenTraceLab/tiledoc/pkg/markup"
	"github.com/OpenTraceLab/tiledoc/pkg/rules"
	"github.com/spf13/cobra"
)

func newRulesCommand(g *globals, stdout io.Writer) *cobra.Command {
	var format string
	c := &cobra.Command{
		Use:   "rules <family> [name]...",
		Short: "List the rewrite rules of a family or explain canonical names",
		Long: `Without names, list the rewrite rules of the family in application order.
With names, show every rule that fires while canonicalizing each name.

Examples:
  tiledoc rules virtex4
  tiledoc rules virtex4 SLICE1:PORTB_WIDTH_B BRAM.DOA_OFFSET`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			emit, err := markup.New(format)
			if err != nil {
				return err
			}
			profile := g.Families.Profile(args[0])
			chain := profile.RuleChain()

			if len(args) == 1 {
				l := &markup.Listing{Title: profile.Name + " rules", Header: []string{"Rule", "Field"}}
				for _, r := range chain.Rules() {
					l.Rows = append(l.Rows, []string{r.Name, r.Field.String()})
				}
				return emit.Listing(stdout, l)
			}

			for _, name := range args[1:] {
				owner, key := rules.SplitName(name)
				_, _, steps, err := chain.Trace(owner, key)
				if err != nil {
					return err
				}
				canonical, err := chain.Canonical(name)
				if err != nil {
					return err
				}
				l := &markup.Listing{
					Title:  name + " -> " + canonical,
					Header: []string{"Rule", "Owner", "Key"},
					Rows:   [][]string{{"", owner, key}},
				}
				for _, s := range steps {
					l.Rows = append(l.Rows, []string{s.Rule, s.Owner, s.Key})
				}
				if err := emit.Listing(stdout, l); err != nil {
					return err
				}
			}
			return nil
		},
	}
	c.Flags().StringVarP(&format, "format", "f", markup.FormatText, "output format: html, text or markdown")
	return c
}
