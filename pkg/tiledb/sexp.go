package tiledb

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/tiledoc/pkg/bitcoord"
	"github.com/chewxy/sexp"
	"github.com/pkg/errors"
)

// DecodeSexp decodes a database written as S-expressions:
//
//	(database xc2c32a
//	  (family coolrunner2)
//	  (chip xc2c32a (idcode 0x06e1c093) (param bs-columns 260))
//	  (part xc2c32a (chip xc2c32a) (packages qf32 vq44) (speeds -4 -6))
//	  (tile mc
//	    (item CLK_MUX (bits (0 1) (0 2)) (values (GCK0 00) (GCK1 01)))
//	    (item INV (bits (1 1)) (invert 1)))
//	  (misc "IOSTD:PDRIVE:LVCMOS33" (bits 1 0 1))
//	  (device-data xc2c32a (IDCODE_PART 12)))
//
// Patterns are bit strings, most significant bit first. Atoms may be quoted
// but cannot contain whitespace.
func DecodeSexp(r io.Reader, defaultName string) (*Database, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read")
	}
	exprs, err := sexp.ParseString(string(data))
	if err != nil {
		return nil, errors.Wrap(err, "parse s-expression")
	}
	var root sexp.Sexp
	for _, e := range exprs {
		if e == nil || e.IsLeaf() {
			continue
		}
		if head, _ := getString(e, 0); head == "database" {
			root = e
			break
		}
	}
	if root == nil {
		return nil, errors.New("no (database ...) form")
	}

	db := &Database{Name: defaultName}
	items := sexpToSlice(root)
	if len(items) > 1 && items[1].IsLeaf() {
		db.Name = atom(items[1])
	}
	for _, node := range items[1:] {
		if node.IsLeaf() {
			continue
		}
		key, err := getString(node, 0)
		if err != nil {
			return nil, err
		}
		switch key {
		case "family":
			if db.Family, err = getString(node, 1); err != nil {
				return nil, errors.Wrap(err, "family")
			}
		case "chip":
			chip, err := sexpChip(node)
			if err != nil {
				return nil, err
			}
			db.Chips = append(db.Chips, chip)
		case "part":
			part, err := sexpPart(node)
			if err != nil {
				return nil, err
			}
			db.Parts = append(db.Parts, part)
		case "tile":
			tile, err := sexpTile(node)
			if err != nil {
				return nil, err
			}
			db.Tiles = append(db.Tiles, tile)
		case "misc":
			name, err := getString(node, 1)
			if err != nil {
				return nil, errors.Wrap(err, "misc")
			}
			v, err := sexpValue(getListItems(node)[1:])
			if err != nil {
				return nil, errors.Wrapf(err, "misc %s", name)
			}
			db.MiscData = append(db.MiscData, Entry{Key: name, Value: v})
		case "device-data":
			dd, err := sexpDeviceData(node)
			if err != nil {
				return nil, err
			}
			db.DeviceData = append(db.DeviceData, dd)
		default:
			return nil, errors.Errorf("unknown form (%s ...)", key)
		}
	}
	if err := db.Validate(); err != nil {
		return nil, err
	}
	return db, nil
}

func sexpChip(node sexp.Sexp) (Chip, error) {
	name, err := getString(node, 1)
	if err != nil {
		return Chip{}, errors.Wrap(err, "chip")
	}
	chip := Chip{Name: name}
	if id, ok := findNode(node, "idcode"); ok {
		s, err := getString(id, 1)
		if err != nil {
			return Chip{}, errors.Wrapf(err, "chip %s idcode", name)
		}
		v, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return Chip{}, errors.Wrapf(err, "chip %s idcode", name)
		}
		chip.IDCode = uint32(v)
	}
	for _, p := range findAllNodes(node, "param") {
		pname, err := getString(p, 1)
		if err != nil {
			return Chip{}, errors.Wrapf(err, "chip %s param", name)
		}
		pval, err := getString(p, 2)
		if err != nil {
			return Chip{}, errors.Wrapf(err, "chip %s param %s", name, pname)
		}
		chip.Params = append(chip.Params, Param{Name: pname, Value: pval})
	}
	return chip, nil
}

func sexpPart(node sexp.Sexp) (Part, error) {
	name, err := getString(node, 1)
	if err != nil {
		return Part{}, errors.Wrap(err, "part")
	}
	part := Part{Name: name}
	if c, ok := findNode(node, "chip"); ok {
		if part.Chip, err = getString(c, 1); err != nil {
			return Part{}, errors.Wrapf(err, "part %s chip", name)
		}
	}
	if pk, ok := findNode(node, "packages"); ok {
		part.Packages = atoms(getListItems(pk))
	}
	if sp, ok := findNode(node, "speeds"); ok {
		part.Speeds = atoms(getListItems(sp))
	}
	return part, nil
}

func sexpTile(node sexp.Sexp) (*Tile, error) {
	name, err := getString(node, 1)
	if err != nil {
		return nil, errors.Wrap(err, "tile")
	}
	tile := NewTile(name)
	for _, in := range findAllNodes(node, "item") {
		item, err := sexpItem(in)
		if err != nil {
			return nil, errors.Wrapf(err, "tile %s", name)
		}
		if err := tile.Add(item); err != nil {
			return nil, err
		}
	}
	return tile, nil
}

func sexpItem(node sexp.Sexp) (*Item, error) {
	name, err := getString(node, 1)
	if err != nil {
		return nil, errors.Wrap(err, "item")
	}
	item := &Item{Name: name}
	bits, ok := findNode(node, "bits")
	if !ok {
		return nil, errors.Errorf("item %s: missing bits", name)
	}
	for _, b := range getListItems(bits) {
		vals := make([]int, 0, 4)
		for _, a := range sexpToSlice(b) {
			v, err := strconv.Atoi(atom(a))
			if err != nil {
				return nil, errors.Wrapf(err, "item %s bit", name)
			}
			vals = append(vals, v)
		}
		c, err := bitcoord.New(vals...)
		if err != nil {
			return nil, errors.Wrapf(err, "item %s", name)
		}
		item.Bits = append(item.Bits, c)
	}

	values, hasValues := findNode(node, "values")
	invert, hasInvert := findNode(node, "invert")
	switch {
	case hasValues && hasInvert:
		return nil, errors.Errorf("item %s: values and invert are exclusive", name)
	case hasValues:
		enum := &Enumeration{}
		for _, v := range getListItems(values) {
			vname, err := getString(v, 0)
			if err != nil {
				return nil, errors.Wrapf(err, "item %s value", name)
			}
			pat, err := getString(v, 1)
			if err != nil {
				return nil, errors.Wrapf(err, "item %s value %s", name, vname)
			}
			bits, err := parseBitString(pat)
			if err != nil {
				return nil, errors.Wrapf(err, "item %s value %s", name, vname)
			}
			enum.Values = append(enum.Values, Value{Name: vname, Pattern: bits})
		}
		item.Kind = enum
	case hasInvert:
		var pol []bool
		for _, a := range getListItems(invert) {
			bits, err := parseBitString(atom(a))
			if err != nil {
				return nil, errors.Wrapf(err, "item %s invert", name)
			}
			pol = append(pol, bits...)
		}
		if len(pol) == 0 {
			pol = []bool{true}
		}
		item.Kind = &Inversion{Invert: pol}
	default:
		item.Kind = &Inversion{Invert: []bool{false}}
	}
	return item, nil
}

func sexpDeviceData(node sexp.Sexp) (DeviceData, error) {
	dev, err := getString(node, 1)
	if err != nil {
		return DeviceData{}, errors.Wrap(err, "device-data")
	}
	dd := DeviceData{Device: dev}
	for _, e := range getListItems(node)[1:] {
		key, err := getString(e, 0)
		if err != nil {
			return DeviceData{}, errors.Wrapf(err, "device-data %s", dev)
		}
		v, err := sexpValue(sexpToSlice(e)[1:])
		if err != nil {
			return DeviceData{}, errors.Wrapf(err, "device-data %s %s", dev, key)
		}
		dd.Entries = append(dd.Entries, Entry{Key: key, Value: v})
	}
	return dd, nil
}

// sexpValue decodes the tail of a data entry: a (bits ...) list, an integer
// or a string.
func sexpValue(rest []sexp.Sexp) (DataValue, error) {
	if len(rest) != 1 {
		return DataValue{}, errors.Errorf("expected one value, got %d", len(rest))
	}
	v := rest[0]
	if !v.IsLeaf() {
		if head, _ := getString(v, 0); head != "bits" {
			return DataValue{}, errors.Errorf("unexpected list %s", v)
		}
		var bits []bool
		for _, a := range getListItems(v) {
			b, err := parseBitString(atom(a))
			if err != nil {
				return DataValue{}, err
			}
			bits = append(bits, b...)
		}
		return DataValue{Bits: bits}, nil
	}
	s := atom(v)
	if n, err := strconv.ParseInt(s, 0, 64); err == nil {
		return DataValue{Int: &n}, nil
	}
	return DataValue{String: &s}, nil
}

// S-expression navigation helpers

// sexpToSlice converts an s-expression list to a Go slice.
func sexpToSlice(s sexp.Sexp) []sexp.Sexp {
	var items []sexp.Sexp

	if s == nil || s.IsLeaf() {
		return items
	}

	for {
		if s == nil {
			break
		}
		leafCount := s.LeafCount()
		if leafCount == 0 {
			break
		}

		head := s.Head()
		if head != nil {
			items = append(items, head)
		}

		if leafCount <= 1 {
			break
		}

		s = s.Tail()
		if s == nil || s.IsLeaf() {
			break
		}
	}

	return items
}

// findNode returns the first child list whose head symbol is key.
func findNode(s sexp.Sexp, key string) (sexp.Sexp, bool) {
	for _, item := range sexpToSlice(s) {
		if item == nil || item.IsLeaf() {
			continue
		}
		if head, err := getString(item, 0); err == nil && head == key {
			return item, true
		}
	}
	return nil, false
}

// findAllNodes returns every child list whose head symbol is key.
func findAllNodes(s sexp.Sexp, key string) []sexp.Sexp {
	var results []sexp.Sexp
	for _, item := range sexpToSlice(s) {
		if item == nil || item.IsLeaf() {
			continue
		}
		if head, err := getString(item, 0); err == nil && head == key {
			results = append(results, item)
		}
	}
	return results
}

// getListItems returns the elements of a list after its head.
func getListItems(s sexp.Sexp) []sexp.Sexp {
	all := sexpToSlice(s)
	if len(all) <= 1 {
		return []sexp.Sexp{}
	}
	return all[1:]
}

// getString returns the atom at index in a list.
func getString(s sexp.Sexp, index int) (string, error) {
	if s == nil || s.IsLeaf() {
		return "", errors.New("expected list, got leaf")
	}
	items := sexpToSlice(s)
	if index < 0 || index >= len(items) {
		return "", errors.Errorf("index %d out of bounds (length %d)", index, len(items))
	}
	if !items[index].IsLeaf() {
		return "", errors.Errorf("expected atom at index %d, got %s", index, items[index])
	}
	return atom(items[index]), nil
}

// atom returns the text of a leaf with surrounding quotes removed.
func atom(s sexp.Sexp) string {
	var v string
	if sym, ok := s.(sexp.Symbol); ok {
		v = string(sym)
	} else {
		v = fmt.Sprint(s)
	}
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}

func atoms(list []sexp.Sexp) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		if a.IsLeaf() {
			out = append(out, strings.TrimSpace(atom(a)))
		}
	}
	return out
}
