package tiledoc

import (
	"strconv"
	"strings"

	"github.com/OpenTraceLab/tiledoc/internal/logger"
	"github.com/OpenTraceLab/tiledoc/pkg/rules"
	"github.com/OpenTraceLab/tiledoc/pkg/tiledb"
	"github.com/pkg/errors"
)

// EquivalenceKey identifies items documented together.
type EquivalenceKey struct {
	Canonical   string
	Fingerprint string
}

// Group is a set of items with the same EquivalenceKey.
type Group struct {
	Key EquivalenceKey
	// Members are the grouped items in tile order. The first one is the
	// representative.
	Members []*tiledb.Item
	Table   ValueTable
}

// Representative returns the item that carries the documentation.
func (g *Group) Representative() *tiledb.Item { return g.Members[0] }

// Names returns the member names in tile order.
func (g *Group) Names() []string {
	out := make([]string, len(g.Members))
	for i, m := range g.Members {
		out[i] = m.Name
	}
	return out
}

// Conflict reports items that share a canonical name but encode differently.
// They are kept in separate groups.
type Conflict struct {
	Canonical    string
	Items        []string
	Fingerprints []string
}

// Grouping is the result of GroupItems.
type Grouping struct {
	Groups      []*Group
	Diagnostics []Conflict
}

// GroupOptions configure GroupItems.
type GroupOptions struct {
	// Rules canonicalizes names; nil means rules.Default().
	Rules      *rules.Chain
	Correction Correction
	// FingerprintOnly ignores names and groups purely by encoding.
	FingerprintOnly bool
	Logger          logger.Logger
}

// Fingerprint serializes the encoding of an item. Enumerations list their
// values in sorted order ("E2|OFF=00;ON=11"), bit vectors their expanded
// polarity ("I3|101").
func Fingerprint(it *tiledb.Item, corr Correction) string {
	var sb strings.Builder
	switch k := it.Kind.(type) {
	case *tiledb.Enumeration:
		sb.WriteString("E" + strconv.Itoa(it.Width()) + "|")
		for i, v := range SortValues(k, corr) {
			if i > 0 {
				sb.WriteByte(';')
			}
			sb.WriteString(v.Name + "=" + patternString(v.Pattern))
		}
	case *tiledb.Inversion:
		sb.WriteString("I" + strconv.Itoa(it.Width()) + "|" + patternString(k.Expand(it.Width())))
	default:
		sb.WriteString("?" + strconv.Itoa(it.Width()))
	}
	return sb.String()
}

// GroupItems merges the items of a tile into equivalence groups. Groups
// appear in the order their first member appears in the tile.
func GroupItems(tile *tiledb.Tile, opts GroupOptions) (*Grouping, error) {
	chain := opts.Rules
	if chain == nil {
		chain = rules.Default()
	}
	log := opts.Logger
	if log == nil {
		log = logger.NopLogger
	}

	res := &Grouping{}
	if tile == nil {
		return res, nil
	}

	byKey := make(map[EquivalenceKey]*Group)
	type seen struct {
		items        []string
		fingerprints []string
	}
	byCanonical := make(map[string]*seen)
	var canonicals []string

	for _, it := range tile.Items() {
		canonical := ""
		if !opts.FingerprintOnly {
			var err error
			if canonical, err = chain.Canonical(it.Name); err != nil {
				return nil, errors.Wrapf(err, "item %s", it.Name)
			}
		}
		key := EquivalenceKey{Canonical: canonical, Fingerprint: Fingerprint(it, opts.Correction)}

		g, ok := byKey[key]
		if !ok {
			g = &Group{Key: key, Table: TableFor(it, opts.Correction)}
			byKey[key] = g
			res.Groups = append(res.Groups, g)
		}
		g.Members = append(g.Members, it)

		if opts.FingerprintOnly {
			continue
		}
		s, ok := byCanonical[canonical]
		if !ok {
			s = &seen{}
			byCanonical[canonical] = s
			canonicals = append(canonicals, canonical)
		}
		s.items = append(s.items, it.Name)
		if !contains(s.fingerprints, key.Fingerprint) {
			s.fingerprints = append(s.fingerprints, key.Fingerprint)
		}
	}

	for _, c := range canonicals {
		s := byCanonical[c]
		if len(s.fingerprints) < 2 {
			continue
		}
		res.Diagnostics = append(res.Diagnostics, Conflict{Canonical: c, Items: s.items, Fingerprints: s.fingerprints})
		log.Warnf("tile %s: %s: %d items with %d incompatible encodings kept apart: %s",
			tile.Name, c, len(s.items), len(s.fingerprints), strings.Join(s.items, ", "))
	}
	return res, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
