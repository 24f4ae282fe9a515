package bitcoord

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Schema names the axes of a family's coordinates.
type Schema struct {
	Arity int
	Axes  []string
}

var defaultAxes = map[int][]string{
	2: {"row", "column"},
	3: {"tile", "frame", "bit"},
	4: {"bank", "row", "byte", "column"},
}

// SchemaFor returns the default schema for a coordinate arity. Unknown
// arities fall back to the two axis layout.
func SchemaFor(arity int) Schema {
	axes, ok := defaultAxes[arity]
	if !ok {
		return Schema{Arity: 2, Axes: defaultAxes[2]}
	}
	return Schema{Arity: arity, Axes: axes}
}

// Validate checks that the axis names match the arity.
func (s Schema) Validate() error {
	if s.Arity < 2 || s.Arity > MaxArity {
		return errors.Errorf("bitcoord: schema arity %d out of range", s.Arity)
	}
	if len(s.Axes) != 0 && len(s.Axes) != s.Arity {
		return errors.Errorf("bitcoord: schema has %d axis names for arity %d", len(s.Axes), s.Arity)
	}
	return nil
}

// Axis returns the name of axis i, or a positional name when unnamed.
func (s Schema) Axis(i int) string {
	if i >= 0 && i < len(s.Axes) {
		return s.Axes[i]
	}
	return "axis" + strconv.Itoa(i)
}

// RowAxis is the name of the in-plane row axis.
func (s Schema) RowAxis() string { return s.Axis(s.Arity - 2) }

// ColumnAxis is the name of the in-plane column axis.
func (s Schema) ColumnAxis() string { return s.Axis(s.Arity - 1) }

// PlaneAxes lists the leading axes that select a bittile.
func (s Schema) PlaneAxes() []string {
	if s.Arity <= 2 {
		return nil
	}
	out := make([]string, 0, s.Arity-2)
	for i := 0; i < s.Arity-2; i++ {
		out = append(out, s.Axis(i))
	}
	return out
}

func (s Schema) String() string {
	return strings.Join(s.Axes, "/")
}
