// Package bitcoord models bit coordinates inside a configuration tile.
//
// A coordinate is a short tuple of non-negative integers. How many axes it
// has and what they mean depends on the device family:
//
//	2 axes: row, column              (single plane, e.g. CPLD macrocell tiles)
//	3 axes: tile, frame, bit         (stacked bittiles of one frame-based tile)
//	4 axes: bank, row, byte, column  (banked byte-addressed fuse arrays)
//
// The grid of a plane is always spanned by the last two axes; any leading
// axes select the plane (bittile).
package bitcoord

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MaxArity is the largest number of axes a coordinate can carry.
const MaxArity = 4

var (
	// ErrEmptyExtent is returned when an extent is requested over no coordinates.
	ErrEmptyExtent = errors.New("bitcoord: extent of empty coordinate set")

	// ErrMixedArity is returned when coordinates of different arity are combined.
	ErrMixedArity = errors.New("bitcoord: mixed coordinate arity")
)

// Coord is an immutable bit coordinate. It is comparable and can be used as
// a map key.
type Coord struct {
	n    uint8
	vals [MaxArity]int
}

// New builds a coordinate from its components, most significant axis first.
func New(vals ...int) (Coord, error) {
	if len(vals) == 0 || len(vals) > MaxArity {
		return Coord{}, errors.Errorf("bitcoord: unsupported arity %d", len(vals))
	}
	var c Coord
	c.n = uint8(len(vals))
	for i, v := range vals {
		if v < 0 {
			return Coord{}, errors.Errorf("bitcoord: negative component %d at axis %d", v, i)
		}
		c.vals[i] = v
	}
	return c, nil
}

// MustNew is like New but panics on invalid input. Intended for tests and
// static tables.
func MustNew(vals ...int) Coord {
	c, err := New(vals...)
	if err != nil {
		panic(err)
	}
	return c
}

// Arity returns the number of axes.
func (c Coord) Arity() int { return int(c.n) }

// At returns the component on axis i.
func (c Coord) At(i int) int {
	if i < 0 || i >= int(c.n) {
		return 0
	}
	return c.vals[i]
}

// Equal reports whether both coordinates have the same arity and components.
func (c Coord) Equal(o Coord) bool { return c == o }

// Values returns a copy of the components.
func (c Coord) Values() []int {
	out := make([]int, c.n)
	copy(out, c.vals[:c.n])
	return out
}

// String renders the coordinate as dot separated components ("0.12.3").
func (c Coord) String() string {
	var sb strings.Builder
	for i := 0; i < int(c.n); i++ {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(c.vals[i]))
	}
	return sb.String()
}

// Less orders coordinates lexicographically, shorter first on a common prefix.
func (c Coord) Less(o Coord) bool {
	n := c.n
	if o.n < n {
		n = o.n
	}
	for i := uint8(0); i < n; i++ {
		if c.vals[i] != o.vals[i] {
			return c.vals[i] < o.vals[i]
		}
	}
	return c.n < o.n
}

// Extent returns max+1 for every axis of the given coordinates.
func Extent(coords []Coord) ([]int, error) {
	if len(coords) == 0 {
		return nil, ErrEmptyExtent
	}
	arity := coords[0].Arity()
	ext := make([]int, arity)
	for _, c := range coords {
		if c.Arity() != arity {
			return nil, errors.Wrapf(ErrMixedArity, "%s has %d axes, want %d", c, c.Arity(), arity)
		}
		for i := 0; i < arity; i++ {
			if c.vals[i]+1 > ext[i] {
				ext[i] = c.vals[i] + 1
			}
		}
	}
	return ext, nil
}

// Split separates a coordinate into the plane selector and the in-plane
// (row, column) position. ok is false when the arity is not one of the
// supported family layouts; the coordinate is then projected onto its
// trailing two axes in a single plane.
func Split(c Coord) (plane Coord, row, col int, ok bool) {
	switch c.n {
	case 2:
		return Coord{}, c.vals[0], c.vals[1], true
	case 3, 4:
		plane.n = c.n - 2
		copy(plane.vals[:], c.vals[:plane.n])
		return plane, c.vals[c.n-2], c.vals[c.n-1], true
	case 1:
		return Coord{}, 0, c.vals[0], false
	default:
		return Coord{}, 0, 0, false
	}
}

// Join is the inverse of Split for supported arities: it appends the
// in-plane position to a plane selector of at most two axes.
func Join(plane Coord, row, col int) Coord {
	c := plane
	c.vals[c.n] = row
	c.vals[c.n+1] = col
	c.n += 2
	return c
}
