package tiledoc

import (
	"testing"

	"github.com/OpenTraceLab/tiledoc/pkg/tiledb"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strVal(s string) tiledb.DataValue { return tiledb.DataValue{String: &s} }
func intVal(n int64) tiledb.DataValue  { return tiledb.DataValue{Int: &n} }
func bitVal(s string) tiledb.DataValue { return tiledb.DataValue{Bits: bits(s)} }

func auxDB() *tiledb.Database {
	return &tiledb.Database{
		Name:  "xc2c",
		Parts: []tiledb.Part{{Name: "xc2c32a"}, {Name: "xc2c64a"}},
		MiscData: []tiledb.Entry{
			{Key: "IOSTD:PDRIVE:LVCMOS33", Value: bitVal("101")},
			{Key: "IOSTD:NAME:LVCMOS33", Value: strVal("3.3V")},
			{Key: "IOSTD:PDRIVE:LVTTL", Value: bitVal("011")},
			{Key: "IOSTD:NAME:LVTTL", Value: strVal("TTL")},
			{Key: "SPARE", Value: intVal(1)},
		},
		DeviceData: []tiledb.DeviceData{
			{Device: "xc2c64a", Entries: []tiledb.Entry{
				{Key: "ROWS", Value: intVal(40)},
				{Key: "USERCODE", Value: bitVal("10")},
			}},
			{Device: "xc2c32a", Entries: []tiledb.Entry{
				{Key: "ROWS", Value: intVal(20)},
				{Key: "IDCODE_PART", Value: intVal(1)},
				{Key: "EXTRA", Value: strVal("x")},
			}},
		},
	}
}

func TestMiscTable(t *testing.T) {
	db := auxDB()
	used := make(KeySet)
	tab, err := MiscTable(db, []string{"IOSTD:PDRIVE", "IOSTD:NAME"}, used)
	require.NoError(t, err)

	want := &AuxTable{
		KeyHeader: "Name",
		Columns:   []AuxColumn{{Name: "IOSTD:PDRIVE", Width: 3}, {Name: "IOSTD:NAME"}},
		Rows: []AuxRow{
			{Name: "LVCMOS33", Cells: []string{"1", "0", "1", "3.3V"}},
			{Name: "LVTTL", Cells: []string{"0", "1", "1", "TTL"}},
		},
	}
	if diff := cmp.Diff(want, tab); diff != "" {
		t.Errorf("MiscTable mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"SPARE"}, UnusedMisc(db, used))
	assert.Empty(t, UnusedMisc(db, used, "SP"))
}

func TestMiscTableMismatch(t *testing.T) {
	db := auxDB()
	db.MiscData = append(db.MiscData,
		tiledb.Entry{Key: "IOSTD:PDRIVE:HSTL", Value: bitVal("1")},
		tiledb.Entry{Key: "IOSTD:NAME:HSTL", Value: strVal("HSTL")},
	)
	_, err := MiscTable(db, []string{"IOSTD:PDRIVE", "IOSTD:NAME"}, nil)
	assert.Error(t, err)

	_, err = MiscTable(db, []string{"IOSTD:PDRIVE", "IOSTD:MISSING"}, nil)
	assert.Error(t, err)
}

func TestDevDataTable(t *testing.T) {
	db := auxDB()
	used := make(KeySet)
	tab, err := DevDataTable(db, []string{"ROWS", "USERCODE"}, used)
	require.NoError(t, err)

	want := &AuxTable{
		KeyHeader: "Device",
		Columns:   []AuxColumn{{Name: "ROWS"}, {Name: "USERCODE", Width: 2}},
		Rows: []AuxRow{
			{Name: "xc2c32a", Cells: []string{"20", "-", "-"}},
			{Name: "xc2c64a", Cells: []string{"40", "1", "0"}},
		},
	}
	if diff := cmp.Diff(want, tab); diff != "" {
		t.Errorf("DevDataTable mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, tab.Columns[1].Span())
	assert.Equal(t, []string{"EXTRA"}, UnusedDevData(db, used, "IDCODE"))
}
