package idcode

import "testing"

func TestParseIDCode(t *testing.T) {
	id := ParseIDCode(0x16e1c093)
	if id.Version != 1 || id.PartNumber != 0x6e1c || id.ManufacturerCode != 0x049 || !id.HasIDCode {
		t.Fatalf("unexpected fields %+v", id)
	}
	m, ok := LookupManufacturer(id.ManufacturerCode)
	if !ok || m.Name != "Xilinx" {
		t.Errorf("expected Xilinx, got %+v", m)
	}
}

func TestPattern(t *testing.T) {
	if got := ParseIDCode(0x06e1c093).Pattern(); got != "0xX6e1c093" {
		t.Errorf("Pattern() = %s", got)
	}
	if got := ParseIDCode(0x020b10dd).Pattern(); got != "0xX20b10dd" {
		t.Errorf("Pattern() = %s", got)
	}
}

func TestParseString(t *testing.T) {
	for _, s := range []string{"0xX6e1c093", "06e1c093", "0x06E1C093"} {
		id, err := ParseString(s)
		if err != nil {
			t.Fatalf("ParseString(%q): %v", s, err)
		}
		if id.Raw != 0x06e1c093 {
			t.Errorf("ParseString(%q) = %s", s, id)
		}
	}
	if _, err := ParseString("zz"); err == nil {
		t.Error("expected error")
	}
}

func TestLookupUnknown(t *testing.T) {
	m, ok := LookupManufacturer(0x7ff)
	if ok || m.Abbreviation != "Unknown" {
		t.Errorf("unexpected %+v", m)
	}
}
