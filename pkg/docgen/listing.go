package docgen

import (
	"strings"

	"github.com/OpenTraceLab/tiledoc/pkg/idcode"
	"github.com/OpenTraceLab/tiledoc/pkg/markup"
	"github.com/OpenTraceLab/tiledoc/pkg/tiledb"
)

const (
	markYes = "✅"
	markNo  = "❌"
)

// DeviceList lists every part with its chip, IDCODE and chip parameters.
// Parameter columns follow the order they first appear in; boolean
// parameters show as check marks.
func DeviceList(db *tiledb.Database) *markup.Listing {
	var params []string
	seen := make(map[string]bool)
	for _, c := range db.Chips {
		for _, p := range c.Params {
			if !seen[p.Name] {
				seen[p.Name] = true
				params = append(params, p.Name)
			}
		}
	}

	l := &markup.Listing{
		Title:  db.Name + " devices",
		Header: append([]string{"Device", "Chip", "IDCODE", "Manufacturer"}, params...),
	}
	for _, part := range db.Parts {
		row := []string{part.Name, part.Chip, "-", "-"}
		chip, ok := db.Chip(part.Chip)
		if ok && chip.IDCode != 0 {
			id := idcode.ParseIDCode(chip.IDCode)
			m, _ := idcode.LookupManufacturer(id.ManufacturerCode)
			row[2], row[3] = id.Pattern(), m.Name
		}
		for _, name := range params {
			row = append(row, paramCell(chip, name))
		}
		l.Rows = append(l.Rows, row)
	}
	return l
}

func paramCell(chip tiledb.Chip, name string) string {
	for _, p := range chip.Params {
		if p.Name != name {
			continue
		}
		switch strings.ToLower(p.Value) {
		case "true":
			return markYes
		case "false":
			return markNo
		}
		return p.Value
	}
	return "-"
}

// PackageMatrix shows which part comes in which package. Bare die packages,
// named "di*", get a column of their own.
func PackageMatrix(db *tiledb.Database) *markup.Listing {
	var pkgs []string
	seen := make(map[string]bool)
	for _, part := range db.Parts {
		for _, p := range part.Packages {
			if !isBareDie(p) && !seen[p] {
				seen[p] = true
				pkgs = append(pkgs, p)
			}
		}
	}

	header := append([]string{"Device"}, pkgs...)
	l := &markup.Listing{
		Title:  db.Name + " packages",
		Header: append(header, "Bare die"),
	}
	for _, part := range db.Parts {
		has := make(map[string]bool, len(part.Packages))
		bare := "-"
		for _, p := range part.Packages {
			has[p] = true
			if isBareDie(p) {
				bare = p
			}
		}
		row := []string{part.Name}
		for _, p := range pkgs {
			if has[p] {
				row = append(row, markYes)
			} else {
				row = append(row, markNo)
			}
		}
		l.Rows = append(l.Rows, append(row, bare))
	}
	return l
}

func isBareDie(pkg string) bool { return strings.HasPrefix(pkg, "di") }
