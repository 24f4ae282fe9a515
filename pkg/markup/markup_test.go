package markup

import (
	"bytes"
	"strings"
	"testing"

	"github.com/OpenTraceLab/tiledoc/pkg/bitcoord"
	"github.com/OpenTraceLab/tiledoc/pkg/tiledb"
	"github.com/OpenTraceLab/tiledoc/pkg/tiledoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult(t *testing.T) *tiledoc.Result {
	t.Helper()
	tile := tiledb.NewTile("MC")
	require.NoError(t, tile.Add(&tiledb.Item{
		Name: "FB0:INV",
		Bits: []bitcoord.Coord{bitcoord.MustNew(0, 0)},
		Kind: &tiledb.Inversion{Invert: []bool{true}},
	}))
	require.NoError(t, tile.Add(&tiledb.Item{
		Name: "FB0:MUX",
		Bits: []bitcoord.Coord{bitcoord.MustNew(0, 0), bitcoord.MustNew(1, 1)},
		Kind: &tiledb.Enumeration{Values: []tiledb.Value{
			{Name: "B", Pattern: []bool{true, false}},
			{Name: "A<&>", Pattern: []bool{false, true}},
		}},
	}))
	require.NoError(t, tile.Add(&tiledb.Item{
		Name: "FB1:MUX",
		Bits: []bitcoord.Coord{bitcoord.MustNew(2, 0), bitcoord.MustNew(2, 1)},
		Kind: &tiledb.Enumeration{Values: []tiledb.Value{
			{Name: "A<&>", Pattern: []bool{false, true}},
			{Name: "B", Pattern: []bool{true, false}},
		}},
	}))
	res, err := tiledoc.Render(tile, tiledoc.Options{})
	require.NoError(t, err)
	return res
}

func TestNew(t *testing.T) {
	for format, ext := range map[string]string{"html": "html", "text": "txt", "MD": "md"} {
		e, err := New(format)
		require.NoError(t, err, format)
		assert.Equal(t, ext, e.Ext())
	}
	_, err := New("pdf")
	assert.Error(t, err)
}

func TestHTMLMatrix(t *testing.T) {
	res := testResult(t)
	var buf bytes.Buffer
	require.NoError(t, HTML{}.Matrix(&buf, "xc2c", "MC", res.Matrix))
	out := buf.String()

	assert.Contains(t, out, `<div class="table-wrapper"><table>`)
	assert.Contains(t, out, `<caption>xc2c MC bittile 0</caption>`)
	assert.Contains(t, out, `<tr><th rowspan="2">Row</th><th colspan="2">Column</th></tr>`)
	assert.Contains(t, out, `<td title="0.0">`)
	assert.Contains(t, out, `<a href="#tile-xc2c-MC-FB0:INV">~FB0:INV</a>`)
	assert.Contains(t, out, `<a href="#tile-xc2c-MC-FB0:MUX">FB0:MUX[0]</a>`)
	assert.Contains(t, out, `<td>-</td>`)
	// overlay order follows the tile
	assert.Less(t, strings.Index(out, "~FB0:INV"), strings.Index(out, "FB0:MUX[0]"))
}

func TestHTMLGroups(t *testing.T) {
	res := testResult(t)
	var buf bytes.Buffer
	require.NoError(t, HTML{}.Groups(&buf, "xc2c", "MC", res.Grouping))
	out := buf.String()

	assert.Equal(t, 2, strings.Count(out, "<table>"))
	assert.Contains(t, out, `<tr><th id="tile-xc2c-MC-FB0:MUX">FB0:MUX</th>`)
	assert.Contains(t, out, `<tr><th id="tile-xc2c-MC-FB1:MUX">FB1:MUX</th>`)
	assert.Contains(t, out, "<th>1.1</th>")
	assert.Contains(t, out, "<tr><td>inverted</td>\n<td>~[0]</td>")
	assert.Contains(t, out, "<tr><td>A&lt;&amp;&gt;</td>\n<td>0</td>\n<td>1</td>")
	assert.Less(t, strings.Index(out, "A&lt;"), strings.Index(out, "<td>B</td>"))
}

func TestHTMLAux(t *testing.T) {
	tab := &tiledoc.AuxTable{
		KeyHeader: "Name",
		Columns:   []tiledoc.AuxColumn{{Name: "PDRIVE", Width: 2}, {Name: "NAME"}},
		Rows:      []tiledoc.AuxRow{{Name: "LVTTL", Cells: []string{"1", "0", "TTL"}}},
	}
	var buf bytes.Buffer
	require.NoError(t, HTML{}.Aux(&buf, "iostd", tab))
	out := buf.String()
	assert.Contains(t, out, `<th colspan="2">PDRIVE</th>`)
	assert.Contains(t, out, `<th rowspan="2">NAME</th>`)
	assert.Contains(t, out, "<th>[0]</th>\n<th>[1]</th>")
	assert.Contains(t, out, "<tr><td>LVTTL</td>\n<td>1</td>\n<td>0</td>\n<td>TTL</td>")
}

func TestTableText(t *testing.T) {
	res := testResult(t)
	var buf bytes.Buffer
	e := Table{}
	require.NoError(t, e.Matrix(&buf, "xc2c", "MC", res.Matrix))
	require.NoError(t, e.Groups(&buf, "xc2c", "MC", res.Grouping))
	out := buf.String()

	assert.Contains(t, out, "xc2c MC bittile 0")
	assert.Contains(t, out, "Row \\ Column")
	assert.Contains(t, out, "~FB0:INV FB0:MUX[0]")
	assert.Contains(t, out, "FB0:MUX, FB1:MUX")
	assert.Contains(t, out, "FB1:MUX: 2.0 2.1")
}

func TestTableMarkdown(t *testing.T) {
	var buf bytes.Buffer
	l := &Listing{
		Title:  "Devices",
		Header: []string{"Device", "IDCODE"},
		Rows:   [][]string{{"xc2c32a", "0xX6e1c093"}},
	}
	require.NoError(t, Table{Markdown: true}.Listing(&buf, l))
	out := buf.String()
	assert.Contains(t, out, "# Devices")
	assert.Contains(t, out, "| Device | IDCODE |")
	assert.Contains(t, out, "| xc2c32a | 0xX6e1c093 |")
}
