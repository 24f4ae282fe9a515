package tiledoc

import (
	"sort"

	"github.com/OpenTraceLab/tiledoc/pkg/bitcoord"
	"github.com/OpenTraceLab/tiledoc/pkg/tiledb"
	"github.com/pkg/errors"
)

// Orientation controls how a bittile is laid out. Row and column refer to
// the second to last and last coordinate axes.
type Orientation struct {
	// Transpose shows the column axis vertically and the row axis
	// horizontally.
	Transpose bool
	// FlipRows lists row axis values in descending order.
	FlipRows bool
	// FlipColumns lists column axis values in descending order.
	FlipColumns bool
}

// Cell is one bit of a grid. Refs is empty when no item uses the bit. A
// projected coordinate landing on an occupied position shares its cell; the
// refs of both follow in discovery order and Coord is the first of them.
type Cell struct {
	Coord bitcoord.Coord
	Refs  []CellRef
}

// Empty reports whether no item occupies the cell.
func (c Cell) Empty() bool { return len(c.Refs) == 0 }

// CellRef is a resolved label inside a cell.
type CellRef struct {
	Item     string
	Label    string
	Inverted bool
}

// Grid is the dense layout of one bittile.
type Grid struct {
	// Index numbers the bittiles of a tile from zero.
	Index int
	// Plane holds the leading coordinate axes selecting this bittile.
	Plane bitcoord.Coord
	// RowAxis and ColumnAxis name the displayed axes; they are swapped when
	// the orientation is transposed.
	RowAxis    string
	ColumnAxis string
	// Rows and Columns are the axis values in display order.
	Rows    []int
	Columns []int
	// Cells is indexed [row][column] in display order.
	Cells [][]Cell

	transposed bool
	arity      int
}

// Matrix is the set of grids of one tile.
type Matrix struct {
	Grids []*Grid
	// Projected lists coordinates whose arity has no layout; they were shown
	// on their trailing axes in a single plane.
	Projected []bitcoord.Coord
}

type planeKey struct {
	plane bitcoord.Coord
	arity int
}

type placed struct {
	coord    bitcoord.Coord
	row, col int
}

// RenderMatrix lays out every occupied bit of the tile. A nil rev is built
// from the tile. An empty tile yields a matrix without grids.
func RenderMatrix(tile *tiledb.Tile, rev *ReverseIndex, o Orientation) (*Matrix, error) {
	if rev == nil {
		rev = BuildReverse(tile)
	}
	m := &Matrix{}
	if rev.Len() == 0 {
		return m, nil
	}

	planes := make(map[planeKey][]placed)
	var keys []planeKey
	for _, c := range rev.Coords() {
		plane, row, col, ok := bitcoord.Split(c)
		arity := c.Arity()
		if !ok {
			m.Projected = append(m.Projected, c)
			arity = 2
		}
		k := planeKey{plane: plane, arity: arity}
		if _, seen := planes[k]; !seen {
			keys = append(keys, k)
		}
		planes[k] = append(planes[k], placed{coord: c, row: row, col: col})
	}
	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].plane != keys[j].plane {
			return keys[i].plane.Less(keys[j].plane)
		}
		return keys[i].arity < keys[j].arity
	})

	for i, k := range keys {
		g, err := renderGrid(planes[k], k, rev, o)
		if err != nil {
			return nil, errors.Wrapf(err, "bittile %d", i)
		}
		g.Index = i
		m.Grids = append(m.Grids, g)
	}
	return m, nil
}

func renderGrid(bits []placed, k planeKey, rev *ReverseIndex, o Orientation) (*Grid, error) {
	inPlane := make([]bitcoord.Coord, 0, len(bits))
	byPos := make(map[[2]int][]bitcoord.Coord, len(bits))
	for _, b := range bits {
		c, err := bitcoord.New(b.row, b.col)
		if err != nil {
			return nil, err
		}
		inPlane = append(inPlane, c)
		pos := [2]int{b.row, b.col}
		byPos[pos] = append(byPos[pos], b.coord)
	}
	ext, err := bitcoord.Extent(inPlane)
	if err != nil {
		return nil, err
	}

	schema := bitcoord.SchemaFor(k.arity)
	g := &Grid{
		Plane:      k.plane,
		RowAxis:    schema.RowAxis(),
		ColumnAxis: schema.ColumnAxis(),
	}
	rows := axisValues(ext[0], o.FlipRows)
	cols := axisValues(ext[1], o.FlipColumns)
	g.Rows, g.Columns = rows, cols
	g.transposed, g.arity = o.Transpose, k.arity
	if o.Transpose {
		g.Rows, g.Columns = cols, rows
		g.RowAxis, g.ColumnAxis = g.ColumnAxis, g.RowAxis
	}

	g.Cells = make([][]Cell, len(g.Rows))
	for ri, rv := range g.Rows {
		g.Cells[ri] = make([]Cell, len(g.Columns))
		for ci, cv := range g.Columns {
			row, col := rv, cv
			if o.Transpose {
				row, col = cv, rv
			}
			coords := byPos[[2]int{row, col}]
			if len(coords) == 0 {
				g.Cells[ri][ci] = Cell{Coord: bitcoord.Join(k.plane, row, col)}
				continue
			}
			cell := Cell{Coord: coords[0]}
			for _, coord := range coords {
				for _, r := range rev.Lookup(coord) {
					cell.Refs = append(cell.Refs, CellRef{Item: r.Item, Label: r.Label(), Inverted: r.Inverted})
				}
			}
			g.Cells[ri][ci] = cell
		}
	}
	return g, nil
}

func axisValues(n int, flip bool) []int {
	out := make([]int, n)
	for i := range out {
		if flip {
			out[i] = n - 1 - i
		} else {
			out[i] = i
		}
	}
	return out
}

// NameAxes renames the displayed axes of every grid whose coordinates have
// the arity of s.
func (m *Matrix) NameAxes(s bitcoord.Schema) {
	for _, g := range m.Grids {
		if g.arity != s.Arity {
			continue
		}
		g.RowAxis, g.ColumnAxis = s.RowAxis(), s.ColumnAxis()
		if g.transposed {
			g.RowAxis, g.ColumnAxis = g.ColumnAxis, g.RowAxis
		}
	}
}
