package family

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Load reads family profiles from a TOML file on top of the built-in ones.
// A family defined in the file replaces the built-in profile of that name.
// Rule files are resolved relative to the configuration file.
//
//	[families.virtex4]
//	arity = 3
//	transpose = true
//	rules = "virtex4.rules"
//
//	[[families.virtex4.overrides]]
//	tiles = "REG.*"
//	flip-columns = false
func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "error reading configuration file '%s'", file)
	}
	return FromViper(v, filepath.Dir(file))
}

// Parse reads family profiles from TOML text.
func Parse(r io.Reader, baseDir string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(r); err != nil {
		return nil, errors.Wrap(err, "reading configuration")
	}
	return FromViper(v, baseDir)
}

// FromViper decodes the "families" table of an already loaded viper
// instance.
func FromViper(v *viper.Viper, baseDir string) (*Config, error) {
	cfg := Builtin()
	if !v.IsSet("families") {
		return cfg, nil
	}
	families := make(map[string]*Profile)
	if err := v.UnmarshalKey("families", &families); err != nil {
		return nil, errors.Wrap(err, "unmarshalling families")
	}
	for name, p := range families {
		if p == nil {
			p = &Profile{}
		}
		p.Name = strings.ToLower(name)
		if err := p.Validate(baseDir); err != nil {
			return nil, errors.Wrap(err, "validating config")
		}
		cfg.Families[p.Name] = p
	}
	return cfg, nil
}

// Dump writes the configuration as TOML.
func (c *Config) Dump(w io.Writer) error {
	b, err := toml.Marshal(*c)
	if err != nil {
		return errors.Wrap(err, "marshalling config")
	}
	_, err = w.Write(b)
	return err
}
