package tiledoc

import (
	"strconv"

	"github.com/OpenTraceLab/tiledoc/pkg/bitcoord"
	"github.com/OpenTraceLab/tiledoc/pkg/tiledb"
)

// BitRef is one item occupying a bit.
type BitRef struct {
	Item string
	// Index is the position of the bit within the item, or -1 when the item
	// has a single bit.
	Index int
	// Inverted is the resolved polarity of this bit.
	Inverted bool
}

// Label returns the display label: "NAME", "NAME[i]", with a leading "~"
// when inverted.
func (r BitRef) Label() string {
	s := r.Item
	if r.Index >= 0 {
		s += "[" + strconv.Itoa(r.Index) + "]"
	}
	if r.Inverted {
		s = "~" + s
	}
	return s
}

// ReverseIndex maps bit coordinates to the items occupying them.
type ReverseIndex struct {
	refs  map[bitcoord.Coord][]BitRef
	order []bitcoord.Coord
}

// BuildReverse indexes every bit of every item. References at a shared
// coordinate keep tile insertion order, then bit order.
func BuildReverse(tile *tiledb.Tile) *ReverseIndex {
	rev := &ReverseIndex{refs: make(map[bitcoord.Coord][]BitRef)}
	if tile == nil {
		return rev
	}
	for _, it := range tile.Items() {
		for i, c := range it.Bits {
			idx := i
			if it.Width() == 1 {
				idx = -1
			}
			if _, seen := rev.refs[c]; !seen {
				rev.order = append(rev.order, c)
			}
			rev.refs[c] = append(rev.refs[c], BitRef{Item: it.Name, Index: idx, Inverted: it.Inverted(i)})
		}
	}
	return rev
}

// Lookup returns the references at c in discovery order.
func (r *ReverseIndex) Lookup(c bitcoord.Coord) []BitRef {
	return r.refs[c]
}

// Coords returns every occupied coordinate in first-seen order.
func (r *ReverseIndex) Coords() []bitcoord.Coord {
	return r.order
}

// Len returns the number of occupied coordinates.
func (r *ReverseIndex) Len() int {
	return len(r.order)
}
