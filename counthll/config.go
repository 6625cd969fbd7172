package counthll

import (
	"errors"
	"math/bits"

	"github.com/probkit/distinct/internal/hashx"
)

var (
	// ErrZeroWidth is returned when a config asks for no columns.
	ErrZeroWidth = errors.New("counthll: width must be greater than zero")

	// ErrBadDepth is returned when the depth cannot be used for mask-based
	// row derivation or is too small for the bias correction table.
	ErrBadDepth = errors.New("counthll: depth must be a power of two >= 16")

	// ErrBadSeeds is returned when a seed slice of the wrong length is
	// supplied.
	ErrBadSeeds = errors.New("counthll: exactly three seeds are required")
)

// numSeeds is the number of independent hash functions the register plane
// uses: row selection, rank derivation, and column selection.
const numSeeds = 3

// Config holds the parameters of a CountHLL register plane. Two sketches can
// only be merged when their configs are identical, seeds included.
type Config struct {
	// Depth is the number of rows, shared by every label. It plays the role
	// HyperLogLog's register count plays for a single set; must be a power
	// of two >= 16.
	Depth int
	// Width is the number of columns; it bounds how many labels the plane
	// can keep apart before their registers start colliding.
	Width int
	// Seeds key the three hash functions.
	Seeds []uint64

	depthLog2 int
	alpha     float64
}

// NewConfig validates the dimensions and builds a Config. When seeds is nil,
// random seeds are generated; sketches with random seeds can only merge with
// sketches sharing the same Config value.
func NewConfig(depth, width int, seeds []uint64) (*Config, error) {
	if width == 0 {
		return nil, ErrZeroWidth
	}
	if depth < 16 || depth&(depth-1) != 0 {
		return nil, ErrBadDepth
	}
	if seeds == nil {
		seeds = hashx.RandomSeeds(numSeeds)
	}
	if len(seeds) != numSeeds {
		return nil, ErrBadSeeds
	}

	return &Config{
		Depth:     depth,
		Width:     width,
		Seeds:     seeds,
		depthLog2: bits.TrailingZeros(uint(depth)),
		alpha:     alpha(depth),
	}, nil
}

// Size returns the total number of registers in the plane, which is also
// the slot count a bounded label keeper for this config must use.
func (c *Config) Size() int {
	return c.Depth * c.Width
}

func (c *Config) equal(o *Config) bool {
	if c.Depth != o.Depth || c.Width != o.Width || len(c.Seeds) != len(o.Seeds) {
		return false
	}
	for i := range c.Seeds {
		if c.Seeds[i] != o.Seeds[i] {
			return false
		}
	}
	return true
}

// alpha returns the HyperLogLog bias correction factor for d rows.
func alpha(d int) float64 {
	switch d {
	case 16:
		return 0.673
	case 32:
		return 0.697
	case 64:
		return 0.709
	case 128:
		return 0.715
	case 256:
		return 0.718
	case 512:
		return 0.720
	default:
		return 0.721
	}
}
