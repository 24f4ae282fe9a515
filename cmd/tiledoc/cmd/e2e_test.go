package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

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
      Has VREF: false
parts:
  - name: xc2c32a
    chip: xc2c32a
    packages: [qf32, vq44, di]
tiles:
  mc:
    CLK_MUX:
      bits: [[0, 3], [0, 2]]
      values:
        GCK1: "01"
        GCK0: "00"
    INV_CE:
      bits: [[1, 1]]
      invert: true
`

const testVirtexDB = `
name: xc4vlx15
family: virtex4
tiles:
  BRAM:
    BRAM0:PORTA_WIDTH_A:
      bits: [[0, 0, 0], [0, 0, 1]]
      values: {W1: "01", W2: "10"}
    BRAM1:PORTB_WIDTH_B:
      bits: [[0, 1, 0], [0, 1, 1]]
      values: {W1: "01", W2: "10"}
    BRAM2:PORTA_WIDTH_A:
      bits: [[0, 2, 0], [0, 2, 1]]
      values: {W1: "10", W2: "01"}
`

const testConfig = `
format = "markdown"

[families.coolrunner2]
arity = 2
axes = ["row", "bit"]
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	file := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(file, []byte(body), 0o644))
	return file
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rc := NewRootCommand(strings.NewReader(stdin), &stdout, &stderr)
	rc.SetArgs(args)
	err := rc.Execute()
	return stdout.String(), stderr.String(), err
}

func TestE2E(t *testing.T) {
	dir := t.TempDir()
	db := writeFile(t, dir, "xc2c32a.yaml", testDB)
	v4 := writeFile(t, dir, "xc4vlx15.yaml", testVirtexDB)
	cfg := writeFile(t, dir, "tiledoc.toml", testConfig)

	tests := []struct {
		name        string
		stdin       string
		args        []string
		wantErr     bool
		wantContain []string
	}{
		{
			name:        "render html",
			args:        []string{"render", db},
			wantContain: []string{`<caption>xc2c32a mc bittile 0</caption>`, `id="tile-xc2c32a-mc-CLK_MUX"`, "0xX6e1c093"},
		},
		{
			name:        "render stdin",
			stdin:       testDB,
			args:        []string{"render", "-f", "markdown", "--no-devices", "-"},
			wantContain: []string{"# xc2c32a mc bittile 0"},
		},
		{
			name:        "render stdin unnamed",
			stdin:       strings.Replace(testDB, "\nname: xc2c32a\n", "\n", 1),
			args:        []string{"render", "-f", "markdown", "--no-devices", "-"},
			wantContain: []string{"# stdin mc bittile 0"},
		},
		{
			name:        "render format from config",
			args:        []string{"-c", cfg, "render", "--no-devices", db},
			wantContain: []string{"| Row \\ Bit |"},
		},
		{
			name:        "show",
			args:        []string{"show", db, "mc"},
			wantContain: []string{"~INV_CE", "CLK_MUX[0]", "CLK_MUX[1]"},
		},
		{
			name:    "show missing tile",
			args:    []string{"show", db, "nope"},
			wantErr: true,
		},
		{
			name:        "groups with conflicts",
			args:        []string{"groups", "-f", "markdown", v4, "BRAM"},
			wantContain: []string{"# BRAM0:PORTA_WIDTH_A, BRAM1:PORTB_WIDTH_B", "# conflicts", "BRAM*:PORTA_WIDTH_*"},
		},
		{
			name:        "rules list",
			args:        []string{"rules", "virtex4"},
			wantContain: []string{"port-alias", "instance-index"},
		},
		{
			name:        "rules trace",
			args:        []string{"rules", "-f", "markdown", "virtex4", "SLICE1:PORTB_WIDTH_B"},
			wantContain: []string{"# SLICE1:PORTB_WIDTH_B -> SLICE*:PORTA_WIDTH_*", "| lane-suffix | SLICE1 | PORTA_WIDTH_* |"},
		},
		{
			name:        "devices",
			args:        []string{"devices", db},
			wantContain: []string{"0xX6e1c093", "Xilinx", "Bare die", "✅"},
		},
		{
			name:        "config dump",
			args:        []string{"-c", cfg, "config"},
			wantContain: []string{"[families.coolrunner2]", "row"},
		},
		{
			name:    "unknown format",
			args:    []string{"render", "-f", "pdf", db},
			wantErr: true,
		},
		{
			name:    "missing database",
			args:    []string{"render", filepath.Join(dir, "missing.yaml")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.stdin, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err, out)
			for _, want := range tt.wantContain {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestRenderOutDir(t *testing.T) {
	dir := t.TempDir()
	db := writeFile(t, dir, "xc2c32a.yaml", testDB)
	out := filepath.Join(dir, "docs")

	_, _, err := run(t, "", "render", "-f", "markdown", "-o", out, db)
	require.NoError(t, err)
	for _, name := range []string{"mc.md", "devices.md"} {
		_, err := os.Stat(filepath.Join(out, "xc2c32a", name))
		assert.NoError(t, err, name)
	}
}

func TestConfigEnv(t *testing.T) {
	dir := t.TempDir()
	db := writeFile(t, dir, "xc2c32a.yaml", testDB)
	t.Setenv("TILEDOC_FORMAT", "markdown")

	out, _, err := run(t, "", "show", db, "mc")
	require.NoError(t, err)
	assert.Contains(t, out, "# xc2c32a mc bittile 0")
}

func TestConfigInvalidOption(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "bad.toml", "colour = \"red\"\n")
	_, _, err := run(t, "", "-c", cfg, "config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid option in configuration file: colour")
}
