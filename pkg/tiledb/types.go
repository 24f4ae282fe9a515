// Package tiledb holds the parsed form of a bitstream tile database: tiles,
// their configuration items and the per-device side tables that accompany
// them. It also knows how to load databases from YAML/JSON and S-expression
// files.
package tiledb

import (
	"github.com/OpenTraceLab/tiledoc/pkg/bitcoord"
	"github.com/pkg/errors"
)

// Kind is the encoding carried by an item: *Enumeration or *Inversion.
type Kind interface {
	isKind()
}

// Value is one named bit pattern of an enumerated item. Pattern is aligned
// with the owning item's Bits, most significant first.
type Value struct {
	Name    string
	Pattern []bool
}

// Enumeration maps symbolic value names to bit patterns. Values keep
// database order.
type Enumeration struct {
	Values []Value
}

func (*Enumeration) isKind() {}

// Inversion describes a plain bit vector with an optional polarity. A single
// entry applies to every bit; otherwise there is one entry per bit.
type Inversion struct {
	Invert []bool
}

func (*Inversion) isKind() {}

// Bit returns the polarity of bit i.
func (inv *Inversion) Bit(i int) bool {
	if len(inv.Invert) == 1 {
		return inv.Invert[0]
	}
	if i < 0 || i >= len(inv.Invert) {
		return false
	}
	return inv.Invert[i]
}

// Expand returns the per-bit polarity for an item of the given width.
func (inv *Inversion) Expand(width int) []bool {
	out := make([]bool, width)
	for i := range out {
		out[i] = inv.Bit(i)
	}
	return out
}

// Item is a named configuration field of a tile.
type Item struct {
	Name string
	// Bits lists the coordinates of the field, most significant first.
	Bits []bitcoord.Coord
	Kind Kind
}

// Width returns the number of bits.
func (it *Item) Width() int { return len(it.Bits) }

// Inverted reports the resolved polarity of bit i. Enumerated items are never
// inverted.
func (it *Item) Inverted(i int) bool {
	if inv, ok := it.Kind.(*Inversion); ok {
		return inv.Bit(i)
	}
	return false
}

// Validate checks the item's internal consistency.
func (it *Item) Validate() error {
	if len(it.Bits) == 0 {
		return &MalformedItemError{Item: it.Name, Reason: "item has no bits"}
	}
	seen := make(map[bitcoord.Coord]struct{}, len(it.Bits))
	for _, b := range it.Bits {
		if _, dup := seen[b]; dup {
			return &MalformedItemError{Item: it.Name, Reason: "duplicate bit " + b.String()}
		}
		seen[b] = struct{}{}
	}
	switch k := it.Kind.(type) {
	case *Enumeration:
		for _, v := range k.Values {
			if len(v.Pattern) != len(it.Bits) {
				return &MalformedItemError{
					Item:   it.Name,
					Value:  v.Name,
					Want:   len(it.Bits),
					Got:    len(v.Pattern),
					Reason: "pattern length mismatch",
				}
			}
		}
	case *Inversion:
		if len(k.Invert) != 1 && len(k.Invert) != len(it.Bits) {
			return &MalformedItemError{
				Item:   it.Name,
				Want:   len(it.Bits),
				Got:    len(k.Invert),
				Reason: "inversion length mismatch",
			}
		}
	case nil:
		return &MalformedItemError{Item: it.Name, Reason: "item has no encoding"}
	}
	return nil
}

// Tile is an ordered set of items sharing one addressable region.
type Tile struct {
	Name  string
	items []*Item
	index map[string]int
}

// NewTile creates an empty tile.
func NewTile(name string) *Tile {
	return &Tile{Name: name, index: make(map[string]int)}
}

// Add appends an item. Names must be unique within the tile.
func (t *Tile) Add(it *Item) error {
	if it == nil {
		return errors.New("tiledb: nil item")
	}
	if _, dup := t.index[it.Name]; dup {
		return errors.Errorf("tiledb: tile %s: duplicate item %s", t.Name, it.Name)
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}
	t.index[it.Name] = len(t.items)
	t.items = append(t.items, it)
	return nil
}

// Items returns the items in insertion order. The slice must not be modified.
func (t *Tile) Items() []*Item { return t.items }

// Item looks up an item by name.
func (t *Tile) Item(name string) (*Item, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.items[i], true
}

// Len returns the number of items.
func (t *Tile) Len() int { return len(t.items) }

// Validate validates every item and tags errors with the tile name.
func (t *Tile) Validate() error {
	for _, it := range t.items {
		if err := it.Validate(); err != nil {
			var mie *MalformedItemError
			if errors.As(err, &mie) {
				mie.Tile = t.Name
			}
			return err
		}
	}
	return nil
}

// Part is a sellable device: a chip in some packages and speed grades.
type Part struct {
	Name     string
	Chip     string
	Packages []string
	Speeds   []string
}

// Chip describes one die of the family.
type Chip struct {
	Name string
	// IDCode is the JTAG IDCODE with the version nibble cleared.
	IDCode uint32
	Params []Param
}

// Param is a free form chip parameter shown on device pages.
type Param struct {
	Name  string
	Value string
}

// DataValue is a misc or device-data entry: exactly one field is set.
type DataValue struct {
	String *string
	Int    *int64
	Bits   []bool
}

// IsBits reports whether the value is a bit vector.
func (v DataValue) IsBits() bool { return v.Bits != nil }

// Entry is one keyed data value.
type Entry struct {
	Key   string
	Value DataValue
}

// DeviceData holds the per-device side data of one part.
type DeviceData struct {
	Device  string
	Entries []Entry
}

// Get returns the entry with the given key.
func (d DeviceData) Get(key string) (DataValue, bool) {
	for _, e := range d.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return DataValue{}, false
}

// Database is a complete tile database of one device family.
type Database struct {
	Name       string
	Family     string
	Tiles      []*Tile
	Chips      []Chip
	Parts      []Part
	MiscData   []Entry
	DeviceData []DeviceData
}

// Tile looks up a tile by name.
func (db *Database) Tile(name string) (*Tile, bool) {
	for _, t := range db.Tiles {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Chip looks up a chip by name.
func (db *Database) Chip(name string) (Chip, bool) {
	for _, c := range db.Chips {
		if c.Name == name {
			return c, true
		}
	}
	return Chip{}, false
}

// Misc looks up a misc data entry.
func (db *Database) Misc(key string) (DataValue, bool) {
	for _, e := range db.MiscData {
		if e.Key == key {
			return e.Value, true
		}
	}
	return DataValue{}, false
}

// Validate checks every tile and that parts reference known chips.
func (db *Database) Validate() error {
	seen := make(map[string]struct{}, len(db.Tiles))
	for _, t := range db.Tiles {
		if _, dup := seen[t.Name]; dup {
			return errors.Errorf("tiledb: %s: duplicate tile %s", db.Name, t.Name)
		}
		seen[t.Name] = struct{}{}
		if err := t.Validate(); err != nil {
			return errors.Wrapf(err, "tiledb: %s", db.Name)
		}
	}
	for _, p := range db.Parts {
		if p.Chip == "" {
			continue
		}
		if _, ok := db.Chip(p.Chip); !ok {
			return errors.Errorf("tiledb: %s: part %s references unknown chip %s", db.Name, p.Name, p.Chip)
		}
	}
	return nil
}
