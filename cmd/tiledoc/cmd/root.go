package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/OpenTraceLab/tiledoc/internal/logger"
	"github.com/OpenTraceLab/tiledoc/pkg/family"
	"github.com/OpenTraceLab/tiledoc/pkg/tiledb"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "TILEDOC"

// globals is filled in before any subcommand runs.
type globals struct {
	Families *family.Config
	Log      logger.Logger
	stdin    io.Reader
}

// NewRootCommand builds the tiledoc command tree.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	g := &globals{stdin: stdin}
	var verbose bool

	rc := &cobra.Command{
		Use:   "tiledoc",
		Short: "Configuration bit documentation for programmable logic tiles",
		Long: `Render the configuration bit layout of programmable logic tiles from a
bitstream database: a bit matrix per bittile, and one table per distinct item
behavior with its values sorted by encoding.

Databases are YAML, JSON or S-expression files; directories are searched
recursively. Use "-" to read a YAML database from stdin.

Examples:
  tiledoc render db/xc2c32a.yaml                  # HTML for every tile on stdout
  tiledoc render -f markdown -o docs db/          # one file per tile under docs/
  tiledoc show db/virtex4.yaml CLB                # bit matrix of one tile
  tiledoc groups db/virtex4.yaml CLB              # equivalence groups of one tile
  tiledoc rules virtex4 SLICE1:PORTB_WIDTH_B      # explain a canonical name
  tiledoc devices db/xc2c32a.yaml                 # device and package tables`,
		Version:      "0.1.0",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if err := setAllConfig(v, cmd.Flags(), knownFlags(cmd.Root())); err != nil {
				return err
			}
			if verbose {
				g.Log = logger.NewVerboseLogger(stderr)
			} else {
				g.Log = logger.NewStandardLogger(stderr)
			}
			base := "."
			if c := v.GetString("config"); c != "" {
				base = filepath.Dir(c)
			}
			fams, err := family.FromViper(v, base)
			if err != nil {
				return err
			}
			g.Families = fams
			return nil
		},
	}
	rc.PersistentFlags().StringP("config", "c", "", "Configuration file to read from.")
	rc.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rc.AddCommand(newRenderCommand(g, stdout))
	rc.AddCommand(newShowCommand(g, stdout))
	rc.AddCommand(newGroupsCommand(g, stdout))
	rc.AddCommand(newRulesCommand(g, stdout))
	rc.AddCommand(newDevicesCommand(g, stdout))
	rc.AddCommand(newConfigCommand(g, stdout))

	rc.SetIn(stdin)
	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// knownFlags collects the flag names of every command, so one configuration
// file can serve all of them.
func knownFlags(root *cobra.Command) map[string]bool {
	known := make(map[string]bool)
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		add := func(f *pflag.Flag) { known[f.Name] = true }
		c.Flags().VisitAll(add)
		c.PersistentFlags().VisitAll(add)
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(root)
	return known
}

// setAllConfig takes a FlagSet to be the definition of all configuration
// options, as well as their defaults. It then reads from the command line, the
// environment, and a config file (if specified), and applies the configuration
// in that priority order.
//
// Environment variables are the flag names in capitals with dashes replaced
// by underscores, prefixed with TILEDOC_. The "families" table of the config
// file is left to the family package.
func setAllConfig(v *viper.Viper, flags *pflag.FlagSet, known map[string]bool) error {
	// add cmd line flag def to viper
	if err := v.BindPFlags(flags); err != nil {
		return err
	}

	// add env to viper
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	// add config file to viper
	if c := v.GetString("config"); c != "" {
		v.SetConfigFile(c)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return errors.Errorf("error reading configuration file '%s': %v", c, err)
		}
		for _, key := range v.AllKeys() {
			if strings.HasPrefix(key, "families.") {
				continue
			}
			if !known[key] {
				return errors.Errorf("invalid option in configuration file: %v", key)
			}
		}
	}

	// set all values from viper
	var flagErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if flagErr != nil || f.Changed {
			return
		}
		var value string
		if f.Value.Type() == "stringSlice" {
			// v.GetString is empty for a real list from the config file
			value = strings.Join(v.GetStringSlice(f.Name), ",")
		} else {
			value = v.GetString(f.Name)
		}
		flagErr = f.Value.Set(value)
	})
	return flagErr
}

// loadDatabases loads every database named by args, in name order.
func (g *globals) loadDatabases(args []string) ([]*tiledb.Database, error) {
	repo := tiledb.NewMemoryRepository()
	for _, a := range args {
		if a == "-" {
			db, err := tiledb.DecodeYAML(g.stdin, "stdin")
			if err != nil {
				return nil, errors.Wrap(err, "stdin")
			}
			if err := repo.Add(db); err != nil {
				return nil, err
			}
			continue
		}
		fi, err := os.Stat(a)
		if err != nil {
			return nil, errors.Wrap(err, "database")
		}
		if fi.IsDir() {
			err = repo.LoadDir(a)
		} else {
			err = repo.LoadFiles(a)
		}
		if err != nil {
			return nil, err
		}
	}
	names := repo.Names()
	if len(names) == 0 {
		return nil, errors.Errorf("no databases found in %s", strings.Join(args, ", "))
	}
	dbs := make([]*tiledb.Database, 0, len(names))
	for _, n := range names {
		db, err := repo.Lookup(n)
		if err != nil {
			return nil, err
		}
		dbs = append(dbs, db)
	}
	return dbs, nil
}

// loadTile loads a single database and one of its tiles.
func (g *globals) loadTile(dbArg, tileName string) (*tiledb.Database, *tiledb.Tile, error) {
	dbs, err := g.loadDatabases([]string{dbArg})
	if err != nil {
		return nil, nil, err
	}
	if len(dbs) != 1 {
		return nil, nil, errors.Errorf("%s holds %d databases, expected one", dbArg, len(dbs))
	}
	db := dbs[0]
	tile, ok := db.Tile(tileName)
	if !ok {
		names := make([]string, len(db.Tiles))
		for i, t := range db.Tiles {
			names[i] = t.Name
		}
		return nil, nil, errors.Errorf("%s: no tile %s (have %s)", db.Name, tileName, strings.Join(names, ", "))
	}
	return db, tile, nil
}
