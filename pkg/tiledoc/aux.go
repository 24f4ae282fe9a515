package tiledoc

import (
	"sort"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/tiledoc/pkg/tiledb"
	"github.com/pkg/errors"
)

// AuxColumn is a column group of an AuxTable. Width is zero for scalar
// values and the bit count for bit vectors, which span one cell per bit.
type AuxColumn struct {
	Name  string
	Width int
}

// Span returns the number of cells the column occupies.
func (c AuxColumn) Span() int {
	if c.Width == 0 {
		return 1
	}
	return c.Width
}

// AuxRow is one row of an AuxTable.
type AuxRow struct {
	Name  string
	Cells []string
}

// AuxTable is a misc or device data table.
type AuxTable struct {
	KeyHeader string
	Columns   []AuxColumn
	Rows      []AuxRow
}

// KeySet records which data keys were shown.
type KeySet map[string]struct{}

func (s KeySet) add(k string) {
	if s != nil {
		s[k] = struct{}{}
	}
}

// Has reports whether k was recorded.
func (s KeySet) Has(k string) bool {
	_, ok := s[k]
	return ok
}

// MiscTable builds a table from misc entries named "<prefix>:<name>". Rows
// come from the names under the first prefix, columns are the prefixes. All
// rows must agree on the shape of each column. Shown keys are added to used.
func MiscTable(db *tiledb.Database, prefixes []string, used KeySet) (*AuxTable, error) {
	if len(prefixes) == 0 {
		return nil, errors.New("tiledoc: misc table without prefixes")
	}
	t := &AuxTable{KeyHeader: "Name"}
	var widths []int
	first := prefixes[0] + ":"
	for _, e := range db.MiscData {
		if !strings.HasPrefix(e.Key, first) {
			continue
		}
		name := strings.TrimPrefix(e.Key, first)
		row := AuxRow{Name: name}
		cur := make([]int, len(prefixes))
		vals := make([]tiledb.DataValue, len(prefixes))
		for i, p := range prefixes {
			full := p + ":" + name
			v, ok := db.Misc(full)
			if !ok {
				return nil, errors.Errorf("tiledoc: misc %s: missing %s", name, full)
			}
			used.add(full)
			cur[i] = len(v.Bits)
			vals[i] = v
		}
		if widths == nil {
			widths = cur
		} else if !equalInts(widths, cur) {
			return nil, errors.Errorf("tiledoc: misc %s: column widths %v differ from %v", name, cur, widths)
		}
		for _, v := range vals {
			row.Cells = append(row.Cells, valueCells(&v, len(v.Bits))...)
		}
		t.Rows = append(t.Rows, row)
	}
	if widths == nil {
		widths = make([]int, len(prefixes))
	}
	for i, p := range prefixes {
		t.Columns = append(t.Columns, AuxColumn{Name: p, Width: widths[i]})
	}
	return t, nil
}

// DevDataTable builds one row per device with the given device data keys.
// Rows follow the database part order; missing values show as "-".
func DevDataTable(db *tiledb.Database, keys []string, used KeySet) (*AuxTable, error) {
	t := &AuxTable{KeyHeader: "Device"}
	widths := make([]int, len(keys))
	known := make([]bool, len(keys))
	for _, k := range keys {
		used.add(k)
	}
	for _, dd := range db.DeviceData {
		for i, k := range keys {
			v, ok := dd.Get(k)
			if !ok {
				continue
			}
			if known[i] && widths[i] != len(v.Bits) {
				return nil, errors.Errorf("tiledoc: device data %s: %s has %d bits, want %d", dd.Device, k, len(v.Bits), widths[i])
			}
			widths[i], known[i] = len(v.Bits), true
		}
	}

	order := make(map[string]int, len(db.Parts))
	for i, p := range db.Parts {
		order[p.Name] = i
	}
	devs := append([]tiledb.DeviceData(nil), db.DeviceData...)
	sort.SliceStable(devs, func(i, j int) bool {
		return partRank(order, devs[i].Device) < partRank(order, devs[j].Device)
	})

	for _, dd := range devs {
		row := AuxRow{Name: dd.Device}
		for i, k := range keys {
			if v, ok := dd.Get(k); ok {
				row.Cells = append(row.Cells, valueCells(&v, widths[i])...)
			} else {
				row.Cells = append(row.Cells, valueCells(nil, widths[i])...)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	for i, k := range keys {
		t.Columns = append(t.Columns, AuxColumn{Name: k, Width: widths[i]})
	}
	return t, nil
}

func partRank(order map[string]int, dev string) int {
	if i, ok := order[dev]; ok {
		return i
	}
	return len(order)
}

// UnusedMisc lists misc keys not in used, skipping ignored prefixes.
func UnusedMisc(db *tiledb.Database, used KeySet, ignore ...string) []string {
	var out []string
	for _, e := range db.MiscData {
		if !used.Has(e.Key) && !hasAnyPrefix(e.Key, ignore) {
			out = append(out, e.Key)
		}
	}
	return out
}

// UnusedDevData lists device data keys not in used, once each, skipping
// ignored prefixes.
func UnusedDevData(db *tiledb.Database, used KeySet, ignore ...string) []string {
	var out []string
	warned := make(KeySet)
	for _, dd := range db.DeviceData {
		for _, e := range dd.Entries {
			if used.Has(e.Key) || warned.Has(e.Key) || hasAnyPrefix(e.Key, ignore) {
				continue
			}
			warned.add(e.Key)
			out = append(out, e.Key)
		}
	}
	return out
}

// valueCells renders v as width cells for bit vectors or one cell otherwise.
// A nil v renders as dashes.
func valueCells(v *tiledb.DataValue, width int) []string {
	n := width
	if n == 0 {
		n = 1
	}
	out := make([]string, 0, n)
	switch {
	case v == nil:
		for i := 0; i < n; i++ {
			out = append(out, "-")
		}
	case v.IsBits():
		out = append(out, patternCells(v.Bits)...)
	case v.Int != nil:
		out = append(out, strconv.FormatInt(*v.Int, 10))
	case v.String != nil:
		out = append(out, *v.String)
	default:
		out = append(out, "-")
	}
	return out
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
