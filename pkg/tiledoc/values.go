package tiledoc

import (
	"sort"
	"strconv"

	"github.com/OpenTraceLab/tiledoc/pkg/tiledb"
)

// Correction is a per-family polarity correction applied to value patterns
// before they are compared. Bit i of a pattern is XORed with Mask[i]; bits
// beyond the mask are left alone. All flips every bit.
type Correction struct {
	Mask []bool
	All  bool
}

// Bit reports whether bit i is flipped.
func (c Correction) Bit(i int) bool {
	if c.All {
		return true
	}
	return i >= 0 && i < len(c.Mask) && c.Mask[i]
}

// IsZero reports whether the correction flips nothing.
func (c Correction) IsZero() bool {
	if c.All {
		return false
	}
	for _, b := range c.Mask {
		if b {
			return false
		}
	}
	return true
}

// comparePatterns orders two corrected patterns, most significant bit first.
// A shorter pattern sorts first on a common prefix.
func (c Correction) comparePatterns(a, b []bool) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		x, y := a[i] != c.Bit(i), b[i] != c.Bit(i)
		if x != y {
			if y {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

// SortValues returns the values of enum ordered by corrected pattern. Equal
// patterns keep database order. The stored patterns are not modified.
func SortValues(enum *tiledb.Enumeration, corr Correction) []tiledb.Value {
	if enum == nil {
		return nil
	}
	out := append([]tiledb.Value(nil), enum.Values...)
	sort.SliceStable(out, func(i, j int) bool {
		return corr.comparePatterns(out[i].Pattern, out[j].Pattern) < 0
	})
	return out
}

// ValueTable is the documentation table of one item encoding.
type ValueTable struct {
	// Header labels the bit columns, most significant first: "[0]", "[1]"...
	Header []string
	Rows   []ValueRow
}

// ValueRow is one row of a ValueTable.
type ValueRow struct {
	Label string
	Cells []string
}

// Polarity legends of an inversion table.
const (
	LegendInverted    = "inverted"
	LegendNonInverted = "non-inverted"
	LegendMixed       = "mixed inversion"
)

// EnumTable renders the sorted values of enum, one row per value.
func EnumTable(enum *tiledb.Enumeration, width int, corr Correction) ValueTable {
	t := ValueTable{Header: bitHeader(width)}
	for _, v := range SortValues(enum, corr) {
		t.Rows = append(t.Rows, ValueRow{Label: v.Name, Cells: patternCells(v.Pattern)})
	}
	return t
}

// InversionTable renders the single legend row of a plain bit vector: one
// cell per bit, "~[i]" when that bit is inverted.
func InversionTable(inv *tiledb.Inversion, width int) ValueTable {
	pol := inv.Expand(width)
	all, some := true, false
	cells := make([]string, width)
	for i, p := range pol {
		all = all && p
		some = some || p
		cells[i] = "[" + strconv.Itoa(i) + "]"
		if p {
			cells[i] = "~" + cells[i]
		}
	}
	label := LegendMixed
	switch {
	case all:
		label = LegendInverted
	case !some:
		label = LegendNonInverted
	}
	return ValueTable{Header: bitHeader(width), Rows: []ValueRow{{Label: label, Cells: cells}}}
}

// TableFor renders the value table of an item.
func TableFor(it *tiledb.Item, corr Correction) ValueTable {
	switch k := it.Kind.(type) {
	case *tiledb.Enumeration:
		return EnumTable(k, it.Width(), corr)
	case *tiledb.Inversion:
		return InversionTable(k, it.Width())
	}
	return ValueTable{Header: bitHeader(it.Width())}
}

func bitHeader(width int) []string {
	h := make([]string, width)
	for i := range h {
		h[i] = "[" + strconv.Itoa(i) + "]"
	}
	return h
}

func patternCells(p []bool) []string {
	out := make([]string, len(p))
	for i, b := range p {
		out[i] = "0"
		if b {
			out[i] = "1"
		}
	}
	return out
}

func patternString(p []bool) string {
	buf := make([]byte, len(p))
	for i, b := range p {
		if b {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}
