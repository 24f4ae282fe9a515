// Package tiledoc turns a tile of a bitstream database into documentation
// structures: a bit matrix per bittile showing which item occupies which
// bit, and a list of equivalence groups, each documenting one distinct item
// behavior with a sorted value table.
//
// A render pass is a pure function of the tile and the options. It performs
// no I/O and shares no state, so tiles may be rendered concurrently.
//
// Basic usage:
//
//	res, err := tiledoc.Render(tile, tiledoc.Options{
//		Orientation: tiledoc.Orientation{Transpose: true},
//		Rules:       rules.Default(),
//	})
//	for _, g := range res.Matrix.Grids { ... }
//	for _, grp := range res.Grouping.Groups { ... }
package tiledoc

import (
	"github.com/OpenTraceLab/tiledoc/internal/logger"
	"github.com/OpenTraceLab/tiledoc/pkg/bitcoord"
	"github.com/OpenTraceLab/tiledoc/pkg/rules"
	"github.com/OpenTraceLab/tiledoc/pkg/tiledb"
	"github.com/pkg/errors"
)

// Options configure a render pass.
type Options struct {
	Orientation Orientation
	Correction  Correction
	// Rules canonicalizes item names; nil means rules.Default().
	Rules           *rules.Chain
	FingerprintOnly bool
	// Schema names the coordinate axes; the zero value keeps the defaults.
	Schema bitcoord.Schema
	Logger logger.Logger
}

// Result is the output of one render pass.
type Result struct {
	Tile     string
	Index    *ReverseIndex
	Matrix   *Matrix
	Grouping *Grouping
}

// Render validates the tile and builds its matrix and grouping. Malformed
// items are fatal. An empty tile renders without grids or groups.
func Render(tile *tiledb.Tile, opts Options) (*Result, error) {
	if tile == nil {
		return nil, errors.New("tiledoc: nil tile")
	}
	log := opts.Logger
	if log == nil {
		log = logger.NopLogger
	}
	if err := tile.Validate(); err != nil {
		return nil, err
	}

	rev := BuildReverse(tile)
	m, err := RenderMatrix(tile, rev, opts.Orientation)
	if err != nil {
		return nil, errors.Wrapf(err, "tile %s", tile.Name)
	}
	if opts.Schema.Arity > 0 {
		m.NameAxes(opts.Schema)
	}
	if n := len(m.Projected); n > 0 {
		log.Warnf("tile %s: %d bits with unsupported arity shown on their last axes (first: %s)", tile.Name, n, m.Projected[0])
	}

	grouping, err := GroupItems(tile, GroupOptions{
		Rules:           opts.Rules,
		Correction:      opts.Correction,
		FingerprintOnly: opts.FingerprintOnly,
		Logger:          log,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "tile %s", tile.Name)
	}
	log.Debugf("tile %s: %d items, %d bits, %d bittiles, %d groups", tile.Name, tile.Len(), rev.Len(), len(m.Grids), len(grouping.Groups))

	return &Result{Tile: tile.Name, Index: rev, Matrix: m, Grouping: grouping}, nil
}
