package markup

import (
	"io"
	"strings"

	"github.com/OpenTraceLab/tiledoc/pkg/tiledoc"
	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
)

// Table emits go-pretty tables, as boxed text or as markdown.
type Table struct {
	Markdown bool
}

// Ext implements Emitter.
func (t Table) Ext() string {
	if t.Markdown {
		return "md"
	}
	return "txt"
}

func (t Table) newWriter(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	// Don't uppercase the header values.
	tw.Style().Format.Header = text.FormatDefault
	return tw
}

func (t Table) render(w io.Writer, tw table.Writer) error {
	if t.Markdown {
		tw.RenderMarkdown()
	} else {
		tw.Render()
	}
	// Blank line between tables.
	_, err := io.WriteString(w, "\n")
	return err
}

func row(cells ...string) table.Row {
	r := make(table.Row, len(cells))
	for i, c := range cells {
		r[i] = c
	}
	return r
}

// Matrix implements Emitter.
func (t Table) Matrix(w io.Writer, db, tile string, m *tiledoc.Matrix) error {
	for _, g := range m.Grids {
		tw := t.newWriter(w)
		tw.SetTitle("%s", Caption(db, tile, g))
		header := []string{capitalize(g.RowAxis) + " \\ " + capitalize(g.ColumnAxis)}
		for _, c := range g.Columns {
			header = append(header, itoa(c))
		}
		tw.AppendHeader(row(header...))
		for ri, r := range g.Rows {
			cells := []string{itoa(r)}
			for _, cell := range g.Cells[ri] {
				cells = append(cells, cellText(cell))
			}
			tw.AppendRow(row(cells...))
		}
		if err := t.render(w, tw); err != nil {
			return err
		}
	}
	return nil
}

// Groups implements Emitter. The title lists every member; members other
// than the representative are given with their coordinates in the caption.
func (t Table) Groups(w io.Writer, db, tile string, g *tiledoc.Grouping) error {
	for _, grp := range g.Groups {
		tw := t.newWriter(w)
		tw.SetTitle("%s", strings.Join(grp.Names(), ", "))
		rep := grp.Representative()
		header := []string{rep.Name}
		for _, c := range rep.Bits {
			header = append(header, c.String())
		}
		tw.AppendHeader(row(header...))
		for _, r := range grp.Table.Rows {
			tw.AppendRow(row(append([]string{r.Label}, r.Cells...)...))
		}
		if len(grp.Members) > 1 {
			var aliases []string
			for _, m := range grp.Members[1:] {
				coords := make([]string, len(m.Bits))
				for i, c := range m.Bits {
					coords[i] = c.String()
				}
				aliases = append(aliases, m.Name+": "+strings.Join(coords, " "))
			}
			tw.SetCaption("%s", strings.Join(aliases, "; "))
		}
		if err := t.render(w, tw); err != nil {
			return err
		}
	}
	return nil
}

// Aux implements Emitter. Bit vector columns are flattened to one column
// per bit named "<column>[i]".
func (t Table) Aux(w io.Writer, title string, a *tiledoc.AuxTable) error {
	tw := t.newWriter(w)
	if title != "" {
		tw.SetTitle("%s", title)
	}
	header := []string{a.KeyHeader}
	for _, c := range a.Columns {
		if c.Width == 0 {
			header = append(header, c.Name)
			continue
		}
		for i := 0; i < c.Width; i++ {
			header = append(header, c.Name+"["+itoa(i)+"]")
		}
	}
	tw.AppendHeader(row(header...))
	for _, r := range a.Rows {
		tw.AppendRow(row(append([]string{r.Name}, r.Cells...)...))
	}
	return t.render(w, tw)
}

// Listing implements Emitter.
func (t Table) Listing(w io.Writer, l *Listing) error {
	tw := t.newWriter(w)
	if l.Title != "" {
		tw.SetTitle("%s", l.Title)
	}
	tw.AppendHeader(row(l.Header...))
	for _, r := range l.Rows {
		tw.AppendRow(row(r...))
	}
	return t.render(w, tw)
}
