// data.go generates synthetic (label, item) streams.
//
// Two label distributions are supported. "uniform" spreads entries evenly
// across the labels, so every label ends up with a similar distinct count.
// "zipf" skews entries towards the low-numbered labels, which is the shape
// that makes heavy distinct hitter sketches interesting: a few labels own
// most of the distinct items while a long tail contributes noise.
//
// Items are drawn uniformly from a per-stream item range, so the distinct
// count of a label is capped by that range and repeats occur naturally.

package main

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
)

// Entry is one element of a synthetic stream.
type Entry struct {
	Label string
	Item  string
}

// Stream produces a deterministic sequence of entries for a scenario. The
// generator is seeded, so a scenario always replays the same stream.
type Stream struct {
	next func() Entry
}

func (s *Stream) Next() Entry {
	return s.next()
}

// NewStream builds a generator from a scenario description.
func NewStream(sc Scenario) (*Stream, error) {
	rng := rand.New(rand.NewSource(sc.Seed))

	var pickLabel func() int
	switch sc.Distribution {
	case "uniform":
		pickLabel = func() int { return rng.Intn(sc.Labels) }
	case "zipf":
		// Zipf over [0, labels): label 0 is the heaviest.
		zipf := rand.NewZipf(rng, sc.ZipfS, 1, uint64(sc.Labels-1))
		pickLabel = func() int { return int(zipf.Uint64()) }
	default:
		return nil, errors.Errorf("unknown distribution %q", sc.Distribution)
	}

	return &Stream{
		next: func() Entry {
			return Entry{
				Label: fmt.Sprintf("label-%03d", pickLabel()),
				Item:  fmt.Sprintf("item-%d", rng.Int63n(sc.ItemRange)),
			}
		},
	}, nil
}
