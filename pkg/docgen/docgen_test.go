package docgen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/tiledoc/internal/logger"
	"github.com/OpenTraceLab/tiledoc/pkg/family"
	"github.com/OpenTraceLab/tiledoc/pkg/tiledb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDB = `
name: xc2c32a
family: coolrunner2
chips:
  - name: xc2c32a
    idcode: 0x06e1c093
    params:
      Function blocks: 2
      Has VREF: false
parts:
  - name: xc2c32a
    chip: xc2c32a
    packages: [qf32, vq44, di]
  - name: xc2c32a-x
    chip: xc2c32a
    packages: [vq44]
tiles:
  mc:
    CLK_MUX:
      bits: [[0, 3], [0, 2]]
      values:
        GCK0: "00"
        GCK1: "01"
    INV_CE:
      bits: [[1, 1]]
      invert: true
  fb:
    FB_EN:
      bits: [[0, 0]]
misc:
  IOSTD:PDRIVE:LVCMOS33: [1, 0, 1]
device-data:
  xc2c32a:
    IDCODE: 12
    ROWS: 4
`

func loadTestDB(t *testing.T) *tiledb.Database {
	db, err := tiledb.DecodeYAML(strings.NewReader(testDB), "x")
	require.NoError(t, err)
	return db
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.GreaterOrEqual(t, cfg.Parallelism, 1)

	cfg = &Config{Format: "pdf"}
	assert.Error(t, cfg.Validate())

	cfg = &Config{OnlyTiles: []string{"["}}
	assert.Error(t, cfg.Validate())

	cfg = &Config{OnlyTiles: []string{"m*"}}
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.ShouldRenderTile("mc"))
	assert.False(t, cfg.ShouldRenderTile("fb"))
}

func TestGenerate(t *testing.T) {
	log := logger.NewBufferLogger()
	cfg := DefaultConfig()
	cfg.Parallelism = 2
	g, err := New(cfg, family.Builtin(), log)
	require.NoError(t, err)

	pages, err := g.Generate(context.Background(), loadTestDB(t))
	require.NoError(t, err)

	var names []string
	for _, p := range pages {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"mc", "fb", PageDevices}, names)
	require.NotNil(t, pages[0].Result)
	assert.Equal(t, "mc", pages[0].Result.Tile)
	assert.Contains(t, string(pages[0].Body), "tile-xc2c32a-mc-CLK_MUX")
	assert.Nil(t, pages[2].Result)

	// IDCODE is ignored by the coolrunner2 profile; ROWS is not.
	lines := strings.Join(log.Lines(), "\n")
	assert.Contains(t, lines, "misc data IOSTD:PDRIVE:LVCMOS33 not documented")
	assert.Contains(t, lines, "device data ROWS not documented")
	assert.NotContains(t, lines, "device data IDCODE")
}

func TestGenerateOnlyTiles(t *testing.T) {
	cfg := &Config{Format: "text", OnlyTiles: []string{"fb"}}
	g, err := New(cfg, nil, logger.NewLogfLogger(t))
	require.NoError(t, err)
	pages, err := g.Generate(context.Background(), loadTestDB(t))
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "fb", pages[0].Name)
}

func TestGenerateAuxTables(t *testing.T) {
	fam := &family.Config{Families: map[string]*family.Profile{
		family.Generic: {
			Name:        family.Generic,
			MiscTables:  []family.MiscTable{{Name: "iostd", Prefixes: []string{"IOSTD:PDRIVE"}}},
			DevDataKeys: []string{"IDCODE", "ROWS"},
		},
	}}
	log := logger.NewBufferLogger()
	g, err := New(&Config{Format: "markdown", Aux: true}, fam, log)
	require.NoError(t, err)

	db := loadTestDB(t)
	db.Family = "other"
	pages, err := g.Generate(context.Background(), db)
	require.NoError(t, err)
	aux := pages[len(pages)-1]
	assert.Equal(t, PageAux, aux.Name)
	assert.Contains(t, string(aux.Body), "LVCMOS33")
	assert.Contains(t, string(aux.Body), "ROWS")
	for _, l := range log.Lines() {
		assert.NotContains(t, l, "not documented")
	}
}

func TestGenerateMalformedTile(t *testing.T) {
	db := loadTestDB(t)
	tile, _ := db.Tile("fb")
	it, _ := tile.Item("FB_EN")
	it.Kind = &tiledb.Enumeration{Values: []tiledb.Value{{Name: "ON", Pattern: []bool{true, true}}}}

	g, err := New(nil, nil, nil)
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tile fb")
}

func TestGenerateCanceled(t *testing.T) {
	g, err := New(nil, nil, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Generate(ctx, loadTestDB(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	g, err := New(&Config{Format: "html", OutDir: dir, Devices: true}, nil, nil)
	require.NoError(t, err)
	files, err := g.Write(context.Background(), loadTestDB(t), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "xc2c32a", "mc.html"),
		filepath.Join(dir, "xc2c32a", "fb.html"),
		filepath.Join(dir, "xc2c32a", "devices.html"),
	}, files)
	body, err := os.ReadFile(files[2])
	require.NoError(t, err)
	assert.Contains(t, string(body), "0xX6e1c093")

	var buf bytes.Buffer
	g, err = New(&Config{Format: "text"}, nil, nil)
	require.NoError(t, err)
	files, err = g.Write(context.Background(), loadTestDB(t), &buf)
	require.NoError(t, err)
	assert.Nil(t, files)
	assert.Contains(t, buf.String(), "xc2c32a mc bittile 0")
}

func TestDeviceList(t *testing.T) {
	l := DeviceList(loadTestDB(t))
	assert.Equal(t, []string{"Device", "Chip", "IDCODE", "Manufacturer", "Function blocks", "Has VREF"}, l.Header)
	assert.Equal(t, []string{"xc2c32a", "xc2c32a", "0xX6e1c093", "Xilinx", "2", "❌"}, l.Rows[0])
}

func TestPackageMatrix(t *testing.T) {
	l := PackageMatrix(loadTestDB(t))
	assert.Equal(t, []string{"Device", "qf32", "vq44", "Bare die"}, l.Header)
	assert.Equal(t, [][]string{
		{"xc2c32a", "✅", "✅", "di"},
		{"xc2c32a-x", "❌", "✅", "-"},
	}, l.Rows)
}
