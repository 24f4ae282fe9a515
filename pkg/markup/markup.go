// Package markup renders tiledoc structures into concrete documentation
// formats: HTML fragments with cross-reference anchors, and plain text or
// markdown tables.
package markup

import (
	"io"
	"strings"

	"github.com/OpenTraceLab/tiledoc/pkg/tiledoc"
	"github.com/pkg/errors"
)

// Emitter writes documentation in one output format.
type Emitter interface {
	// Matrix writes one table per bittile.
	Matrix(w io.Writer, db, tile string, m *tiledoc.Matrix) error
	// Groups writes one table per equivalence group.
	Groups(w io.Writer, db, tile string, g *tiledoc.Grouping) error
	// Aux writes a misc or device data table.
	Aux(w io.Writer, title string, t *tiledoc.AuxTable) error
	// Listing writes a plain table.
	Listing(w io.Writer, l *Listing) error
	// Ext is the file extension of the format, without the dot.
	Ext() string
}

// Listing is a simple titled table, used for device listings.
type Listing struct {
	Title  string
	Header []string
	Rows   [][]string
}

// Supported formats.
const (
	FormatHTML     = "html"
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

// New returns the emitter for a format name.
func New(format string) (Emitter, error) {
	switch strings.ToLower(format) {
	case FormatHTML:
		return HTML{}, nil
	case FormatText, "txt":
		return Table{}, nil
	case FormatMarkdown, "md":
		return Table{Markdown: true}, nil
	}
	return nil, errors.Errorf("markup: unknown format %q", format)
}

// ItemAnchor is the element id documenting an item.
func ItemAnchor(db, tile, item string) string {
	return "tile-" + db + "-" + tile + "-" + item
}

// Caption is the title of a bittile table.
func Caption(db, tile string, g *tiledoc.Grid) string {
	return db + " " + tile + " bittile " + itoa(g.Index)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func cellText(c tiledoc.Cell) string {
	if c.Empty() {
		return "-"
	}
	labels := make([]string, len(c.Refs))
	for i, r := range c.Refs {
		labels[i] = r.Label
	}
	return strings.Join(labels, " ")
}
