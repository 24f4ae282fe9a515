package family

// Built-in family names.
const (
	Generic     = "generic"
	CoolRunner2 = "coolrunner2"
	XC2000      = "xc2000"
	Virtex4     = "virtex4"
)

func boolPtr(b bool) *bool { return &b }

// Builtin returns the profiles known without a configuration file.
func Builtin() *Config {
	profiles := []*Profile{
		{Name: Generic},
		{
			Name:            CoolRunner2,
			Arity:           2,
			FingerprintOnly: true,
			IgnoreDevData:   []string{"IDCODE"},
		},
		{
			// Older families number bits the other way round.
			Name:        XC2000,
			Arity:       3,
			Transpose:   true,
			PolarityAll: true,
		},
		{
			Name:        Virtex4,
			Arity:       3,
			Transpose:   true,
			FlipColumns: true,
			Overrides: []Override{
				{Tiles: "REG.*", FlipColumns: boolPtr(false)},
				{Tiles: "GTZ", Transpose: boolPtr(false)},
			},
			MiscTables: []MiscTable{
				{Name: "iostd-misc", Prefixes: []string{"IOSTD:OUTPUT_MISC"}},
				{Name: "iostd-drive", Prefixes: []string{"IOSTD:PDRIVE", "IOSTD:NDRIVE"}},
				{Name: "iostd-slew", Prefixes: []string{"IOSTD:PSLEW", "IOSTD:NSLEW"}},
				{Name: "iostd-lvds", Prefixes: []string{"IOSTD:LVDS_T", "IOSTD:LVDS_C"}},
			},
			IgnoreMisc:    []string{"INTF.DSP"},
			IgnoreDevData: []string{"IDCODE"},
		},
	}
	cfg := &Config{Families: make(map[string]*Profile, len(profiles))}
	for _, p := range profiles {
		mustValidate(p)
		cfg.Families[p.Name] = p
	}
	return cfg
}

// mustValidate validates a built-in profile. A failure is a bug in the
// profile table, so it panics.
func mustValidate(p *Profile) {
	if err := p.Validate(""); err != nil {
		panic(err)
	}
}
