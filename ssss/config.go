package ssss

import (
	"errors"

	"github.com/probkit/distinct/hll"
	"github.com/probkit/distinct/internal/hashx"
)

// ErrZeroMaxCounters is returned when a config asks for no counters.
var ErrZeroMaxCounters = errors.New("ssss: max counters must be greater than zero")

// defaultNumSeeds is how many sampling hash functions are generated when the
// caller supplies none. Averaging several crude estimates smooths the
// admission decision for labels near the threshold.
const defaultNumSeeds = 4

// Config holds the parameters of a sampling space-saving sets sketch. Two
// sketches can only be merged when their configs are identical, seeds and
// counter configuration included.
type Config struct {
	// MaxCounters is the maximum number of labels tracked at once.
	MaxCounters int
	// Seeds key the sampling hash functions used to pre-estimate the
	// cardinality of untracked labels.
	Seeds []uint64
	// Counter configures the per-label cardinality sketches.
	Counter *hll.Config
}

// NewConfig validates the counter budget and builds a Config. When seeds is
// nil, random seeds are generated; sketches with random seeds can only merge
// with sketches sharing the same Config value.
func NewConfig(maxCounters int, counter *hll.Config, seeds []uint64) (*Config, error) {
	if maxCounters == 0 {
		return nil, ErrZeroMaxCounters
	}
	if seeds == nil {
		seeds = hashx.RandomSeeds(defaultNumSeeds)
	}
	return &Config{
		MaxCounters: maxCounters,
		Seeds:       seeds,
		Counter:     counter,
	}, nil
}

func (c *Config) equal(o *Config) bool {
	if c.MaxCounters != o.MaxCounters || len(c.Seeds) != len(o.Seeds) {
		return false
	}
	for i := range c.Seeds {
		if c.Seeds[i] != o.Seeds[i] {
			return false
		}
	}
	return c.Counter.Equal(o.Counter)
}
