package docgen

import (
	"path"
	"runtime"

	"github.com/OpenTraceLab/tiledoc/pkg/markup"
	"github.com/pkg/errors"
)

// Config controls a documentation run.
type Config struct {
	// Output
	Format string // html, text or markdown (default: html)
	OutDir string // one file per page under OutDir/<db>/; empty streams to the writer

	// Selection
	OnlyTiles []string // glob patterns; empty renders every tile
	Devices   bool     // add the device and package listings (default: true)
	Aux       bool     // add the misc and device data tables (default: true)

	// Render passes run concurrently, bounded by Parallelism.
	// Zero or less uses the number of CPUs.
	Parallelism int
}

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Format:      markup.FormatHTML,
		OutDir:      "",
		OnlyTiles:   nil,
		Devices:     true,
		Aux:         true,
		Parallelism: 0,
	}
}

// Validate checks the configuration for errors and fills in defaults.
func (c *Config) Validate() error {
	if c.Parallelism < 1 {
		c.Parallelism = runtime.NumCPU()
	}
	if c.Format == "" {
		c.Format = markup.FormatHTML
	}
	if _, err := markup.New(c.Format); err != nil {
		return err
	}
	for _, p := range c.OnlyTiles {
		if _, err := path.Match(p, p); err != nil {
			return errors.Wrapf(err, "docgen: tile pattern %q", p)
		}
	}
	return nil
}

// ShouldRenderTile returns true if the tile passes the OnlyTiles filter.
func (c *Config) ShouldRenderTile(name string) bool {
	if len(c.OnlyTiles) == 0 {
		return true
	}
	for _, p := range c.OnlyTiles {
		if ok, _ := path.Match(p, name); ok {
			return true
		}
	}
	return false
}
