// Package family holds the per-family rendering profiles: coordinate
// schema, bittile orientation, polarity correction, grouping mode and the
// extra rewrite rules of each device family.
package family

import (
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/OpenTraceLab/tiledoc/internal/logger"
	"github.com/OpenTraceLab/tiledoc/pkg/bitcoord"
	"github.com/OpenTraceLab/tiledoc/pkg/rules"
	"github.com/OpenTraceLab/tiledoc/pkg/tiledoc"
	"github.com/pkg/errors"
)

// Profile controls how the tiles of one family are rendered.
type Profile struct {
	Name string `mapstructure:"-" toml:"-"`

	// Coordinate layout; zero Arity accepts any supported arity.
	Arity int      `mapstructure:"arity" toml:"arity"`
	Axes  []string `mapstructure:"axes" toml:"axes"`

	// Default bittile orientation
	Transpose   bool `mapstructure:"transpose" toml:"transpose"`
	FlipRows    bool `mapstructure:"flip-rows" toml:"flip-rows"`
	FlipColumns bool `mapstructure:"flip-columns" toml:"flip-columns"`

	// Polarity correction applied before sorting values
	PolarityAll  bool   `mapstructure:"polarity-all" toml:"polarity-all"`
	PolarityMask []bool `mapstructure:"polarity-mask" toml:"polarity-mask"`

	// Grouping
	FingerprintOnly bool   `mapstructure:"fingerprint-only" toml:"fingerprint-only"`
	NoDefaultRules  bool   `mapstructure:"no-default-rules" toml:"no-default-rules"`
	Rules           string `mapstructure:"rules" toml:"rules"`

	// Per-tile orientation overrides, first match wins
	Overrides []Override `mapstructure:"overrides" toml:"overrides"`

	// Side tables
	MiscTables    []MiscTable `mapstructure:"misc-tables" toml:"misc-tables"`
	DevDataKeys   []string    `mapstructure:"devdata-keys" toml:"devdata-keys"`
	IgnoreMisc    []string    `mapstructure:"ignore-misc" toml:"ignore-misc"`
	IgnoreDevData []string    `mapstructure:"ignore-devdata" toml:"ignore-devdata"`

	chain *rules.Chain
}

// Override changes the orientation of tiles whose name matches a glob.
type Override struct {
	Tiles       string `mapstructure:"tiles" toml:"tiles"`
	Transpose   *bool  `mapstructure:"transpose" toml:"transpose,omitempty"`
	FlipRows    *bool  `mapstructure:"flip-rows" toml:"flip-rows,omitempty"`
	FlipColumns *bool  `mapstructure:"flip-columns" toml:"flip-columns,omitempty"`
}

// MiscTable names a misc data table built from a list of key prefixes.
type MiscTable struct {
	Name     string   `mapstructure:"name" toml:"name"`
	Prefixes []string `mapstructure:"prefixes" toml:"prefixes"`
}

// Validate checks the profile for errors and compiles its rules. Relative
// rule paths are resolved against baseDir.
func (p *Profile) Validate(baseDir string) error {
	if p.Arity != 0 {
		if err := (bitcoord.Schema{Arity: p.Arity, Axes: p.Axes}).Validate(); err != nil {
			return errors.Wrapf(err, "family %s", p.Name)
		}
	} else if len(p.Axes) != 0 {
		return errors.Errorf("family %s: axes given without arity", p.Name)
	}
	for i, o := range p.Overrides {
		if o.Tiles == "" {
			return errors.Errorf("family %s: override %d has no tile pattern", p.Name, i)
		}
		if _, err := path.Match(o.Tiles, o.Tiles); err != nil {
			return errors.Wrapf(err, "family %s: override %q", p.Name, o.Tiles)
		}
	}
	for _, mt := range p.MiscTables {
		if mt.Name == "" || len(mt.Prefixes) == 0 {
			return errors.Errorf("family %s: misc table needs a name and prefixes", p.Name)
		}
	}

	chain := rules.Default()
	if p.NoDefaultRules {
		chain = rules.NewChain()
	}
	if p.Rules != "" {
		file := p.Rules
		if !filepath.IsAbs(file) && baseDir != "" {
			file = filepath.Join(baseDir, file)
		}
		extra, err := rules.LoadFile(file)
		if err != nil {
			return errors.Wrapf(err, "family %s", p.Name)
		}
		chain = chain.Append(extra...)
	}
	p.chain = chain
	return nil
}

// RuleChain returns the compiled rule chain.
func (p *Profile) RuleChain() *rules.Chain {
	if p.chain == nil {
		if p.NoDefaultRules {
			return rules.NewChain()
		}
		return rules.Default()
	}
	return p.chain
}

// Schema returns the axis naming of the family. The zero Schema is returned
// when the family accepts any arity.
func (p *Profile) Schema() bitcoord.Schema {
	if p.Arity == 0 {
		return bitcoord.Schema{}
	}
	if len(p.Axes) == 0 {
		return bitcoord.SchemaFor(p.Arity)
	}
	return bitcoord.Schema{Arity: p.Arity, Axes: p.Axes}
}

// Orientation returns the orientation of the named tile.
func (p *Profile) Orientation(tile string) tiledoc.Orientation {
	o := tiledoc.Orientation{Transpose: p.Transpose, FlipRows: p.FlipRows, FlipColumns: p.FlipColumns}
	for _, ov := range p.Overrides {
		if ok, _ := path.Match(ov.Tiles, tile); !ok {
			continue
		}
		if ov.Transpose != nil {
			o.Transpose = *ov.Transpose
		}
		if ov.FlipRows != nil {
			o.FlipRows = *ov.FlipRows
		}
		if ov.FlipColumns != nil {
			o.FlipColumns = *ov.FlipColumns
		}
		break
	}
	return o
}

// Correction returns the polarity correction of the family.
func (p *Profile) Correction() tiledoc.Correction {
	return tiledoc.Correction{Mask: p.PolarityMask, All: p.PolarityAll}
}

// Options builds the render options of the named tile.
func (p *Profile) Options(tile string, log logger.Logger) tiledoc.Options {
	return tiledoc.Options{
		Orientation:     p.Orientation(tile),
		Correction:      p.Correction(),
		Rules:           p.RuleChain(),
		FingerprintOnly: p.FingerprintOnly,
		Schema:          p.Schema(),
		Logger:          log,
	}
}

// Config is the set of known family profiles.
type Config struct {
	Families map[string]*Profile `mapstructure:"families" toml:"families"`
}

// Profile returns the profile of a family, falling back to "generic".
// Family names are case-insensitive.
func (c *Config) Profile(name string) *Profile {
	if p, ok := c.Families[strings.ToLower(name)]; ok {
		return p
	}
	if p, ok := c.Families[Generic]; ok {
		return p
	}
	return &Profile{Name: Generic}
}

// Names returns the family names.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Families))
	for n := range c.Families {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
