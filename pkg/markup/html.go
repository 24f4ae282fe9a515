package markup

import (
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/tiledoc/pkg/tiledoc"
)

// HTML emits table fragments meant to be included in a documentation page.
// Every table is wrapped in a "table-wrapper" div. Matrix cells link to the
// item documentation through ItemAnchor ids.
type HTML struct{}

// Ext implements Emitter.
func (HTML) Ext() string { return "html" }

var esc = html.EscapeString

func itoa(i int) string { return strconv.Itoa(i) }

// Matrix implements Emitter.
func (HTML) Matrix(w io.Writer, db, tile string, m *tiledoc.Matrix) error {
	var b strings.Builder
	for _, g := range m.Grids {
		b.WriteString("<div class=\"table-wrapper\"><table>\n")
		b.WriteString("<caption>" + esc(Caption(db, tile, g)) + "</caption>\n")
		b.WriteString("<thead>\n")
		b.WriteString("<tr><th rowspan=\"2\">" + esc(capitalize(g.RowAxis)) + "</th><th colspan=\"" + itoa(len(g.Columns)) + "\">" + esc(capitalize(g.ColumnAxis)) + "</th></tr>\n")
		b.WriteString("<tr>\n")
		for _, c := range g.Columns {
			b.WriteString("<th>" + itoa(c) + "</th>\n")
		}
		b.WriteString("</tr>\n</thead>\n<tbody>\n")
		for ri, r := range g.Rows {
			b.WriteString("<tr><td>" + itoa(r) + "</td>\n")
			for _, cell := range g.Cells[ri] {
				if cell.Empty() {
					b.WriteString("<td>-</td>\n")
					continue
				}
				b.WriteString("<td title=\"" + esc(cell.Coord.String()) + "\">\n")
				for _, ref := range cell.Refs {
					b.WriteString("<a href=\"#" + esc(ItemAnchor(db, tile, ref.Item)) + "\">" + esc(ref.Label) + "</a>\n")
				}
				b.WriteString("</td>\n")
			}
			b.WriteString("</tr>\n")
		}
		b.WriteString("</tbody>\n</table></div>\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Groups implements Emitter. Each member gets a header row carrying its
// anchor and bit coordinates; the shared value table follows.
func (HTML) Groups(w io.Writer, db, tile string, g *tiledoc.Grouping) error {
	var b strings.Builder
	for _, grp := range g.Groups {
		b.WriteString("<div class=\"table-wrapper\"><table>\n<thead>\n")
		for _, it := range grp.Members {
			b.WriteString("<tr><th id=\"" + esc(ItemAnchor(db, tile, it.Name)) + "\">" + esc(it.Name) + "</th>\n")
			for _, c := range it.Bits {
				b.WriteString("<th>" + esc(c.String()) + "</th>\n")
			}
			b.WriteString("</tr>\n")
		}
		b.WriteString("</thead>\n<tbody>\n")
		for _, row := range grp.Table.Rows {
			b.WriteString("<tr><td>" + esc(row.Label) + "</td>\n")
			for _, c := range row.Cells {
				b.WriteString("<td>" + esc(c) + "</td>\n")
			}
			b.WriteString("</tr>\n")
		}
		b.WriteString("</tbody>\n</table></div>\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Aux implements Emitter. Bit vector columns span one cell per bit with a
// second header row of bit indices.
func (HTML) Aux(w io.Writer, title string, t *tiledoc.AuxTable) error {
	var b strings.Builder
	b.WriteString("<div class=\"table-wrapper\"><table>\n")
	if title != "" {
		b.WriteString("<caption>" + esc(title) + "</caption>\n")
	}
	b.WriteString("<thead>\n<tr><th rowspan=\"2\">" + esc(t.KeyHeader) + "</th>\n")
	for _, c := range t.Columns {
		if c.Width == 0 {
			b.WriteString("<th rowspan=\"2\">" + esc(c.Name) + "</th>\n")
		} else {
			b.WriteString("<th colspan=\"" + itoa(c.Width) + "\">" + esc(c.Name) + "</th>\n")
		}
	}
	b.WriteString("</tr>\n<tr>\n")
	for _, c := range t.Columns {
		for i := 0; i < c.Width; i++ {
			b.WriteString("<th>[" + itoa(i) + "]</th>\n")
		}
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n")
	for _, r := range t.Rows {
		b.WriteString("<tr><td>" + esc(r.Name) + "</td>\n")
		for _, c := range r.Cells {
			b.WriteString("<td>" + esc(c) + "</td>\n")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table></div>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// Listing implements Emitter.
func (HTML) Listing(w io.Writer, l *Listing) error {
	var b strings.Builder
	b.WriteString("<div class=\"table-wrapper\"><table>\n")
	if l.Title != "" {
		b.WriteString("<caption>" + esc(l.Title) + "</caption>\n")
	}
	b.WriteString("<thead>\n<tr>\n")
	for _, h := range l.Header {
		b.WriteString("<th>" + esc(h) + "</th>\n")
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n")
	for _, r := range l.Rows {
		b.WriteString("<tr>\n")
		for _, c := range r {
			b.WriteString("<td>" + esc(c) + "</td>\n")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table></div>\n")
	_, err := io.WriteString(w, b.String())
	return err
}
