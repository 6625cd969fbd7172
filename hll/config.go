package hll

import (
	"errors"

	"github.com/probkit/distinct/internal/hashx"
)

var (
	// ErrZeroRegisters is returned when a config asks for no registers.
	ErrZeroRegisters = errors.New("hll: number of registers must be greater than zero")

	// ErrRegistersNotPowerOfTwo is returned when the register count cannot
	// be used for mask-based index derivation.
	ErrRegistersNotPowerOfTwo = errors.New("hll: number of registers must be a power of two")

	// ErrBadSeeds is returned when a seed slice of the wrong length is
	// supplied.
	ErrBadSeeds = errors.New("hll: exactly two seeds are required")
)

// numSeeds is the number of independent hash functions the sketch uses: one
// for register selection, one for rank derivation.
const numSeeds = 2

// Config holds the parameters of a HyperLogLog sketch. Two sketches can only
// be merged when their configs are identical, seeds included.
type Config struct {
	// NumRegisters is the number of registers; must be a power of two.
	NumRegisters int
	// Alpha is the bias correction factor, derived from NumRegisters.
	Alpha float64
	// Seeds key the two hash functions.
	Seeds []uint64
}

// NewConfig validates the register count and builds a Config. When seeds is
// nil, random seeds are generated; note that sketches with random seeds can
// only merge with sketches sharing the same Config value.
func NewConfig(numRegisters int, seeds []uint64) (*Config, error) {
	if numRegisters == 0 {
		return nil, ErrZeroRegisters
	}
	if numRegisters&(numRegisters-1) != 0 {
		return nil, ErrRegistersNotPowerOfTwo
	}
	if seeds == nil {
		seeds = hashx.RandomSeeds(numSeeds)
	}
	if len(seeds) != numSeeds {
		return nil, ErrBadSeeds
	}

	return &Config{
		NumRegisters: numRegisters,
		Alpha:        alpha(numRegisters),
		Seeds:        seeds,
	}, nil
}

// Equal reports whether two configs are interchangeable for merging.
func (c *Config) Equal(o *Config) bool {
	if c.NumRegisters != o.NumRegisters || len(c.Seeds) != len(o.Seeds) {
		return false
	}
	for i := range c.Seeds {
		if c.Seeds[i] != o.Seeds[i] {
			return false
		}
	}
	return true
}

// alpha returns the standard HyperLogLog bias correction factor for m
// registers. The closed form below is the usual approximation for m >= 128.
func alpha(m int) float64 {
	switch m {
	case 16:
		return 0.673
	case 32:
		return 0.697
	case 64:
		return 0.709
	default:
		return 0.7213 / (1.0 + 1.079/float64(m))
	}
}
