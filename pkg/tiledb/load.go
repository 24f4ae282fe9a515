package tiledb

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/tiledoc/pkg/bitcoord"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Load reads a database file, choosing the decoder from the extension:
// .json, .yaml and .yml use the YAML decoder (JSON is accepted as YAML),
// .sexp uses the S-expression decoder.
func Load(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "tiledb: open")
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var db *Database
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		db, err = DecodeYAML(f, name)
	case ".sexp":
		db, err = DecodeSexp(f, name)
	default:
		return nil, errors.Errorf("tiledb: %s: unknown database format", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "tiledb: %s", path)
	}
	return db, nil
}

// IsDatabaseFile reports whether path has a loadable extension.
func IsDatabaseFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml", ".sexp":
		return true
	default:
		return false
	}
}

// DecodeYAML decodes a YAML or JSON database. defaultName is used when the
// document has no name field.
func DecodeYAML(r io.Reader, defaultName string) (*Database, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read")
	}
	var raw rawDatabase
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	if raw.Name == "" {
		raw.Name = defaultName
	}
	return raw.build()
}

type rawDatabase struct {
	Name       string        `yaml:"name"`
	Family     string        `yaml:"family"`
	Chips      []rawChip     `yaml:"chips"`
	Parts      []rawPart     `yaml:"parts"`
	Tiles      rawTiles      `yaml:"tiles"`
	Misc       yaml.MapSlice `yaml:"misc"`
	DeviceData yaml.MapSlice `yaml:"device-data"`
}

type rawChip struct {
	Name   string        `yaml:"name"`
	IDCode uint32        `yaml:"idcode"`
	Params yaml.MapSlice `yaml:"params"`
}

type rawPart struct {
	Name     string   `yaml:"name"`
	Chip     string   `yaml:"chip"`
	Packages []string `yaml:"packages"`
	Speeds   []string `yaml:"speeds"`
}

type rawTile struct {
	name  string
	items rawItems
}

type rawTiles []rawTile

func (t *rawTiles) UnmarshalYAML(unmarshal func(interface{}) error) error {
	keys, err := orderedKeys(unmarshal)
	if err != nil {
		return err
	}
	var byName map[string]rawItems
	if err := unmarshal(&byName); err != nil {
		return err
	}
	for _, k := range keys {
		*t = append(*t, rawTile{name: k, items: byName[k]})
	}
	return nil
}

type rawNamedItem struct {
	name string
	item rawItem
}

type rawItems []rawNamedItem

func (it *rawItems) UnmarshalYAML(unmarshal func(interface{}) error) error {
	keys, err := orderedKeys(unmarshal)
	if err != nil {
		return err
	}
	var byName map[string]rawItem
	if err := unmarshal(&byName); err != nil {
		return err
	}
	for _, k := range keys {
		*it = append(*it, rawNamedItem{name: k, item: byName[k]})
	}
	return nil
}

type rawItem struct {
	Bits   [][]int      `yaml:"bits"`
	Values *rawValues   `yaml:"values"`
	Invert *rawPolarity `yaml:"invert"`
}

type rawValues []Value

func (v *rawValues) UnmarshalYAML(unmarshal func(interface{}) error) error {
	keys, err := orderedKeys(unmarshal)
	if err != nil {
		return err
	}
	var byName map[string]rawPattern
	if err := unmarshal(&byName); err != nil {
		return err
	}
	for _, k := range keys {
		*v = append(*v, Value{Name: k, Pattern: []bool(byName[k])})
	}
	return nil
}

// rawPattern accepts "0110" strings, [0, 1, 1, 0] integer lists and boolean
// lists. Patterns are written most significant bit first.
type rawPattern []bool

func (p *rawPattern) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err == nil {
		bits, err := parseBitString(s)
		if err != nil {
			return err
		}
		*p = bits
		return nil
	}
	var ints []int
	if err := unmarshal(&ints); err == nil {
		bits, err := intsToBits(ints)
		if err != nil {
			return err
		}
		*p = bits
		return nil
	}
	var bools []bool
	if err := unmarshal(&bools); err != nil {
		return errors.New("pattern must be a bit string or a list of bits")
	}
	*p = bools
	return nil
}

// rawPolarity accepts a scalar bool or a per-bit list.
type rawPolarity []bool

func (p *rawPolarity) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var b bool
	if err := unmarshal(&b); err == nil {
		*p = []bool{b}
		return nil
	}
	var pat rawPattern
	if err := unmarshal(&pat); err != nil {
		return errors.New("invert must be a bool or a list of bits")
	}
	*p = rawPolarity(pat)
	return nil
}

func orderedKeys(unmarshal func(interface{}) error) ([]string, error) {
	var ms yaml.MapSlice
	if err := unmarshal(&ms); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(ms))
	for _, kv := range ms {
		keys = append(keys, fmt.Sprint(kv.Key))
	}
	return keys, nil
}

func (raw *rawDatabase) build() (*Database, error) {
	db := &Database{Name: raw.Name, Family: raw.Family}
	for _, c := range raw.Chips {
		chip := Chip{Name: c.Name, IDCode: c.IDCode}
		for _, kv := range c.Params {
			chip.Params = append(chip.Params, Param{Name: fmt.Sprint(kv.Key), Value: fmt.Sprint(kv.Value)})
		}
		db.Chips = append(db.Chips, chip)
	}
	for _, p := range raw.Parts {
		db.Parts = append(db.Parts, Part(p))
	}
	for _, rt := range raw.Tiles {
		tile := NewTile(rt.name)
		for _, ri := range rt.items {
			item, err := ri.item.build(ri.name)
			if err != nil {
				return nil, errors.Wrapf(err, "tile %s", rt.name)
			}
			if err := tile.Add(item); err != nil {
				return nil, err
			}
		}
		db.Tiles = append(db.Tiles, tile)
	}
	for _, kv := range raw.Misc {
		v, err := dataValue(kv.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "misc %v", kv.Key)
		}
		db.MiscData = append(db.MiscData, Entry{Key: fmt.Sprint(kv.Key), Value: v})
	}
	for _, kv := range raw.DeviceData {
		dd := DeviceData{Device: fmt.Sprint(kv.Key)}
		entries, ok := kv.Value.(yaml.MapSlice)
		if !ok && kv.Value != nil {
			return nil, errors.Errorf("device-data %s: expected a mapping", dd.Device)
		}
		for _, e := range entries {
			v, err := dataValue(e.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "device-data %s %v", dd.Device, e.Key)
			}
			dd.Entries = append(dd.Entries, Entry{Key: fmt.Sprint(e.Key), Value: v})
		}
		db.DeviceData = append(db.DeviceData, dd)
	}
	if err := db.Validate(); err != nil {
		return nil, err
	}
	return db, nil
}

func (ri rawItem) build(name string) (*Item, error) {
	item := &Item{Name: name}
	for _, b := range ri.Bits {
		c, err := bitcoord.New(b...)
		if err != nil {
			return nil, errors.Wrapf(err, "item %s", name)
		}
		item.Bits = append(item.Bits, c)
	}
	switch {
	case ri.Values != nil && ri.Invert != nil:
		return nil, errors.Errorf("item %s: values and invert are exclusive", name)
	case ri.Values != nil:
		item.Kind = &Enumeration{Values: []Value(*ri.Values)}
	case ri.Invert != nil:
		item.Kind = &Inversion{Invert: []bool(*ri.Invert)}
	default:
		item.Kind = &Inversion{Invert: []bool{false}}
	}
	return item, nil
}

func dataValue(v interface{}) (DataValue, error) {
	switch x := v.(type) {
	case string:
		return DataValue{String: &x}, nil
	case int:
		n := int64(x)
		return DataValue{Int: &n}, nil
	case int64:
		return DataValue{Int: &x}, nil
	case uint64:
		n := int64(x)
		return DataValue{Int: &n}, nil
	case bool:
		if x {
			return DataValue{Bits: []bool{true}}, nil
		}
		return DataValue{Bits: []bool{false}}, nil
	case []interface{}:
		bits := make([]bool, 0, len(x))
		for _, e := range x {
			switch b := e.(type) {
			case int:
				if b != 0 && b != 1 {
					return DataValue{}, errors.Errorf("bit value %d out of range", b)
				}
				bits = append(bits, b == 1)
			case bool:
				bits = append(bits, b)
			default:
				return DataValue{}, errors.Errorf("unexpected bit %v", e)
			}
		}
		return DataValue{Bits: bits}, nil
	default:
		return DataValue{}, errors.Errorf("unsupported value %v (%T)", v, v)
	}
}

func parseBitString(s string) ([]bool, error) {
	s = strings.TrimSpace(s)
	bits := make([]bool, 0, len(s))
	for _, r := range s {
		switch r {
		case '0':
			bits = append(bits, false)
		case '1':
			bits = append(bits, true)
		case '_':
		default:
			return nil, errors.Errorf("invalid bit %q in %q", r, s)
		}
	}
	return bits, nil
}

func intsToBits(ints []int) ([]bool, error) {
	bits := make([]bool, len(ints))
	for i, v := range ints {
		if v != 0 && v != 1 {
			return nil, errors.Errorf("bit value %s out of range", strconv.Itoa(v))
		}
		bits[i] = v == 1
	}
	return bits, nil
}
