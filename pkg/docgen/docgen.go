// Package docgen drives documentation runs: it renders every tile of a
// database with the profile of its family, adds the side tables and device
// listings, and writes the pages out in one markup format.
package docgen

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/OpenTraceLab/tiledoc/internal/logger"
	"github.com/OpenTraceLab/tiledoc/pkg/family"
	"github.com/OpenTraceLab/tiledoc/pkg/markup"
	"github.com/OpenTraceLab/tiledoc/pkg/tiledb"
	"github.com/OpenTraceLab/tiledoc/pkg/tiledoc"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Page names that are not tiles.
const (
	PageAux     = "misc"
	PageDevices = "devices"
)

// Page is one unit of output. Result is nil for pages that are not tiles.
type Page struct {
	Name   string
	Result *tiledoc.Result
	Body   []byte
}

// Generator renders databases.
type Generator struct {
	cfg      *Config
	families *family.Config
	emit     markup.Emitter
	log      logger.Logger
}

// New validates cfg and returns a Generator. A nil families uses the
// built-in profiles.
func New(cfg *Config, families *family.Config, log logger.Logger) (*Generator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "docgen: invalid config")
	}
	emit, err := markup.New(cfg.Format)
	if err != nil {
		return nil, err
	}
	if families == nil {
		families = family.Builtin()
	}
	if log == nil {
		log = logger.NopLogger
	}
	return &Generator{cfg: cfg, families: families, emit: emit, log: log}, nil
}

// Emitter returns the markup emitter in use.
func (g *Generator) Emitter() markup.Emitter { return g.emit }

// Generate renders db into pages: one per selected tile in database order,
// then the side tables and the device listings when enabled and non-empty.
// Tiles render concurrently; the first error cancels the remaining ones.
func (g *Generator) Generate(ctx context.Context, db *tiledb.Database) ([]*Page, error) {
	if db == nil {
		return nil, errors.New("docgen: nil database")
	}
	profile := g.families.Profile(db.Family)
	g.log.Debugf("%s: family %s, profile %s", db.Name, db.Family, profile.Name)

	var tiles []*tiledb.Tile
	for _, t := range db.Tiles {
		if g.cfg.ShouldRenderTile(t.Name) {
			tiles = append(tiles, t)
		}
	}

	pages := make([]*Page, len(tiles))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Parallelism)
	for i, t := range tiles {
		i, t := i, t
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := g.renderTile(db, profile, t)
			if err != nil {
				return err
			}
			pages[i] = p
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if g.cfg.Aux {
		p, err := g.auxPage(db, profile)
		if err != nil {
			return nil, err
		}
		if p != nil {
			pages = append(pages, p)
		}
	}
	if g.cfg.Devices && len(db.Parts) > 0 {
		p, err := g.devicesPage(db)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, nil
}

func (g *Generator) renderTile(db *tiledb.Database, profile *family.Profile, tile *tiledb.Tile) (*Page, error) {
	log := g.log.WithPrefix(db.Name + " " + tile.Name + ": ")
	res, err := tiledoc.Render(tile, profile.Options(tile.Name, log))
	if err != nil {
		return nil, errors.Wrapf(err, "docgen: %s tile %s", db.Name, tile.Name)
	}
	var buf bytes.Buffer
	if err := g.emit.Matrix(&buf, db.Name, tile.Name, res.Matrix); err != nil {
		return nil, errors.Wrapf(err, "docgen: %s tile %s", db.Name, tile.Name)
	}
	if err := g.emit.Groups(&buf, db.Name, tile.Name, res.Grouping); err != nil {
		return nil, errors.Wrapf(err, "docgen: %s tile %s", db.Name, tile.Name)
	}
	return &Page{Name: tile.Name, Result: res, Body: buf.Bytes()}, nil
}

// auxPage renders the misc and device data tables of the profile and warns
// about data keys no table shows. It returns nil when there is nothing to
// show.
func (g *Generator) auxPage(db *tiledb.Database, profile *family.Profile) (*Page, error) {
	used := make(tiledoc.KeySet)
	var buf bytes.Buffer
	for _, mt := range profile.MiscTables {
		t, err := tiledoc.MiscTable(db, mt.Prefixes, used)
		if err != nil {
			return nil, errors.Wrapf(err, "docgen: %s misc table %s", db.Name, mt.Name)
		}
		if err := g.emit.Aux(&buf, mt.Name, t); err != nil {
			return nil, err
		}
	}
	if len(profile.DevDataKeys) > 0 {
		t, err := tiledoc.DevDataTable(db, profile.DevDataKeys, used)
		if err != nil {
			return nil, errors.Wrapf(err, "docgen: %s device data", db.Name)
		}
		if err := g.emit.Aux(&buf, "device data", t); err != nil {
			return nil, err
		}
	}
	for _, k := range tiledoc.UnusedMisc(db, used, profile.IgnoreMisc...) {
		g.log.Warnf("%s: misc data %s not documented", db.Name, k)
	}
	for _, k := range tiledoc.UnusedDevData(db, used, profile.IgnoreDevData...) {
		g.log.Warnf("%s: device data %s not documented", db.Name, k)
	}
	if buf.Len() == 0 {
		return nil, nil
	}
	return &Page{Name: PageAux, Body: buf.Bytes()}, nil
}

func (g *Generator) devicesPage(db *tiledb.Database) (*Page, error) {
	var buf bytes.Buffer
	if err := g.emit.Listing(&buf, DeviceList(db)); err != nil {
		return nil, err
	}
	if err := g.emit.Listing(&buf, PackageMatrix(db)); err != nil {
		return nil, err
	}
	return &Page{Name: PageDevices, Body: buf.Bytes()}, nil
}

// Write generates db and writes the pages. With an OutDir each page goes to
// OutDir/<db>/<page>.<ext> and the written paths are returned; otherwise the
// pages are concatenated to w.
func (g *Generator) Write(ctx context.Context, db *tiledb.Database, w io.Writer) ([]string, error) {
	pages, err := g.Generate(ctx, db)
	if err != nil {
		return nil, err
	}
	if g.cfg.OutDir == "" {
		for _, p := range pages {
			if _, err := w.Write(p.Body); err != nil {
				return nil, errors.Wrap(err, "docgen: write")
			}
		}
		return nil, nil
	}

	dir := filepath.Join(g.cfg.OutDir, fileName(db.Name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "docgen: create output directory")
	}
	var written []string
	for _, p := range pages {
		file := filepath.Join(dir, fileName(p.Name)+"."+g.emit.Ext())
		if err := os.WriteFile(file, p.Body, 0o644); err != nil {
			return written, errors.Wrapf(err, "docgen: write %s", file)
		}
		g.log.Debugf("wrote %s", file)
		written = append(written, file)
	}
	return written, nil
}

// fileName makes a page name safe to use as a file name.
func fileName(name string) string {
	return strings.NewReplacer("/", "_", `\`, "_", ":", "_").Replace(name)
}
