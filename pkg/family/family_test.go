package family

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/tiledoc/pkg/tiledoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinVirtex4Orientation(t *testing.T) {
	p := Builtin().Profile("Virtex4")
	assert.Equal(t, tiledoc.Orientation{Transpose: true, FlipColumns: true}, p.Orientation("CLB"))
	assert.Equal(t, tiledoc.Orientation{Transpose: true}, p.Orientation("REG.CLK"))
	assert.Equal(t, tiledoc.Orientation{FlipColumns: true}, p.Orientation("GTZ"))
	assert.Equal(t, "tile/frame/bit", p.Schema().String())
}

func TestBuiltinFallback(t *testing.T) {
	cfg := Builtin()
	p := cfg.Profile("unknown")
	assert.Equal(t, Generic, p.Name)
	assert.Equal(t, 0, p.Schema().Arity)
	assert.Equal(t, 4, p.RuleChain().Len())
	assert.True(t, cfg.Profile(CoolRunner2).FingerprintOnly)
	assert.True(t, cfg.Profile(XC2000).Correction().All)
	assert.Equal(t, []string{CoolRunner2, Generic, Virtex4, XC2000}, cfg.Names())
}

func TestBuiltinProfilesValidate(t *testing.T) {
	cfg := Builtin()
	for _, name := range cfg.Names() {
		assert.NoError(t, cfg.Profile(name).Validate(""), name)
	}
	assert.Panics(t, func() { mustValidate(&Profile{Name: "bad", Axes: []string{"row"}}) })
	assert.Panics(t, func() {
		mustValidate(&Profile{Name: "bad", Overrides: []Override{{Tiles: "["}}})
	})
}

const testConfig = `
[families.virtex4]
arity = 3
axes = ["minor", "major", "word"]
transpose = false
polarity-mask = [true, false]
rules = "v4.rules"

[[families.virtex4.overrides]]
tiles = "HCLK*"
flip-rows = true

[[families.virtex4.misc-tables]]
name = "iostd-drive"
prefixes = ["IOSTD:PDRIVE", "IOSTD:NDRIVE"]

[families.spartan]
fingerprint-only = true
no-default-rules = true
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "v4.rules"), []byte(`rule strip: owner drop;`), 0o644))
	file := filepath.Join(dir, "tiledoc.toml")
	require.NoError(t, os.WriteFile(file, []byte(testConfig), 0o644))

	cfg, err := Load(file)
	require.NoError(t, err)

	v4 := cfg.Profile(Virtex4)
	assert.Equal(t, "virtex4", v4.Name)
	assert.Equal(t, []string{"minor", "major", "word"}, v4.Axes)
	assert.Equal(t, tiledoc.Orientation{FlipRows: true}, v4.Orientation("HCLK_L"))
	assert.Equal(t, tiledoc.Orientation{}, v4.Orientation("CLB"))
	assert.Equal(t, tiledoc.Correction{Mask: []bool{true, false}}, v4.Correction())
	assert.Equal(t, 5, v4.RuleChain().Len())
	require.Len(t, v4.MiscTables, 1)
	assert.Equal(t, []string{"IOSTD:PDRIVE", "IOSTD:NDRIVE"}, v4.MiscTables[0].Prefixes)

	sp := cfg.Profile("spartan")
	assert.True(t, sp.FingerprintOnly)
	assert.Equal(t, 0, sp.RuleChain().Len())

	// built-ins not mentioned in the file survive
	assert.True(t, cfg.Profile(CoolRunner2).FingerprintOnly)

	opts := v4.Options("CLB", nil)
	assert.Equal(t, 3, opts.Schema.Arity)
	assert.Same(t, v4.RuleChain(), opts.Rules)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, input string
	}{
		{"bad arity", "[families.x]\narity = 7\n"},
		{"axes mismatch", "[families.x]\narity = 2\naxes = [\"a\"]\n"},
		{"axes without arity", "[families.x]\naxes = [\"a\", \"b\"]\n"},
		{"bad glob", "[families.x]\n[[families.x.overrides]]\ntiles = \"[\"\n"},
		{"missing rules", "[families.x]\nrules = \"nope.rules\"\n"},
		{"empty misc table", "[families.x]\n[[families.x.misc-tables]]\nname = \"t\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), t.TempDir())
			assert.Error(t, err)
		})
	}
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Builtin().Dump(&buf))
	assert.Contains(t, buf.String(), "families.virtex4")
	assert.Contains(t, buf.String(), "REG.*")
}
