// Package ssss implements sampling space-saving sets, a fixed-size mergeable
// heavy distinct-hitter sketch over streams of (label, item) pairs.
//
// The sketch keeps at most MaxCounters labels, each with its own HyperLogLog
// counter. While there is room, every new label gets a counter. Once full,
// an untracked label has to earn its slot: the item's hash gives a crude
// one-shot cardinality estimate (2^trailing-zeros, averaged over the seeded
// hash functions), and only if that estimate beats both the admission
// threshold and the smallest tracked cardinality does the label evict the
// minimum counter and take it over.
//
// The two-stage test is what makes this fast. Most stream entries belong to
// small labels whose crude estimate never clears the threshold, so the
// common case skips the O(MaxCounters) minimum scan entirely; and because
// admitted labels inherit a used counter rather than a cleared one, churn at
// the bottom of the sketch does not reset accumulated evidence.
package ssss

import (
	"errors"
	"math"
	"math/bits"
	"sort"

	"github.com/probkit/distinct/hll"
	"github.com/probkit/distinct/internal/hashx"
	"github.com/probkit/distinct/sketch"
)

// ErrSketchMismatch is returned when merging sketches of different concrete
// types.
var ErrSketchMismatch = errors.New("ssss: can only merge with another ssss sketch")

// ErrConfigMismatch is returned when merging sketches whose counter budget,
// seeds, or counter configuration differ.
var ErrConfigMismatch = errors.New("ssss: sketch configs do not match")

// Sketch tracks the labels with the largest approximate distinct-item
// counts using bounded memory.
type Sketch[L comparable, T any] struct {
	config   *Config
	counters map[L]*cached[T]

	// threshold is the bar an untracked label's crude estimate must clear
	// before the sketch even considers an eviction.
	threshold uint64
}

var _ sketch.HeavyDistinctHitterSketch[string, string] = (*Sketch[string, string])(nil)

// New creates an empty sketch with the given config.
func New[L comparable, T any](config *Config) *Sketch[L, T] {
	return &Sketch[L, T]{
		config:   config,
		counters: make(map[L]*cached[T], config.MaxCounters),
	}
}

// Config returns the sketch's configuration.
func (s *Sketch[L, T]) Config() *Config {
	return s.config
}

// NumCounters returns the number of labels currently tracked.
func (s *Sketch[L, T]) NumCounters() int {
	return len(s.counters)
}

// Insert adds an item to the set associated with the given label.
func (s *Sketch[L, T]) Insert(label L, item T) {
	if counter, ok := s.counters[label]; ok {
		counter.insert(item)
		return
	}

	if len(s.counters) < s.config.MaxCounters {
		counter := newCached[T](hll.New[T](s.config.Counter))
		s.counters[label] = counter
		counter.insert(item)
		return
	}

	estimate := s.sampleEstimate(item)
	if estimate <= s.threshold {
		return
	}

	minLabel, minCardinality := s.minCounter()
	s.threshold = minCardinality
	if estimate <= minCardinality {
		return
	}

	// Remap the minimum counter to the new label. The counter keeps its
	// registers: the new label inherits the old label's evidence, which is
	// the space-saving overestimate bias.
	counter := s.counters[minLabel]
	delete(s.counters, minLabel)
	s.counters[label] = counter
	counter.insert(item)
}

// Merge combines another sketch into this one: counters for common labels
// merge register-wise, counters for new labels are materialized, and the
// result is truncated back to the MaxCounters largest. The other sketch is
// not modified.
func (s *Sketch[L, T]) Merge(other sketch.HeavyDistinctHitterSketch[L, T]) error {
	o, ok := other.(*Sketch[L, T])
	if !ok {
		return ErrSketchMismatch
	}
	if !s.config.equal(o.config) {
		return ErrConfigMismatch
	}

	for label, counter := range o.counters {
		mine, ok := s.counters[label]
		if !ok {
			mine = newCached[T](hll.New[T](s.config.Counter))
			s.counters[label] = mine
		}
		if err := mine.merge(counter); err != nil {
			// Counter configs are identical by construction.
			return err
		}
	}

	// Keep only the top MaxCounters labels.
	if len(s.counters) > s.config.MaxCounters {
		entries := s.entries()
		for _, e := range entries[s.config.MaxCounters:] {
			delete(s.counters, e.Label)
		}
	}

	// The threshold restarts at the new minimum cardinality.
	s.threshold = 0
	if len(s.counters) > 0 {
		_, s.threshold = s.minCounter()
	}
	return nil
}

// Clear resets the sketch to its initial empty state.
func (s *Sketch[L, T]) Clear() {
	s.counters = make(map[L]*cached[T], s.config.MaxCounters)
	s.threshold = 0
}

// Cardinality returns the estimated cardinality of the set associated with
// the given label. For untracked labels it returns the minimum tracked
// cardinality, the space-saving upper bound on what an evicted label could
// have accumulated (zero when nothing is tracked).
func (s *Sketch[L, T]) Cardinality(label L) uint64 {
	if counter, ok := s.counters[label]; ok {
		return counter.cardinality
	}
	if len(s.counters) == 0 {
		return 0
	}
	_, min := s.minCounter()
	return min
}

// Top returns the k tracked labels with the highest estimated cardinality,
// in descending order.
func (s *Sketch[L, T]) Top(k int) []sketch.LabelCount[L] {
	entries := s.entries()
	if k < len(entries) {
		entries = entries[:k]
	}
	return entries
}

// entries returns every tracked label with its cached cardinality, sorted
// in descending order.
func (s *Sketch[L, T]) entries() []sketch.LabelCount[L] {
	entries := make([]sketch.LabelCount[L], 0, len(s.counters))
	for label, counter := range s.counters {
		entries = append(entries, sketch.LabelCount[L]{Label: label, Count: counter.cardinality})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

// minCounter returns the tracked label with the smallest cached cardinality.
// Callers must ensure the sketch is non-empty.
func (s *Sketch[L, T]) minCounter() (L, uint64) {
	var minLabel L
	minCardinality := uint64(math.MaxUint64)
	for label, counter := range s.counters {
		if counter.cardinality < minCardinality {
			minLabel = label
			minCardinality = counter.cardinality
		}
	}
	return minLabel, minCardinality
}

// sampleEstimate is the crude one-item cardinality guess used for admission:
// 2^trailing-zeros of the item's hash, averaged across the seeded hash
// functions. Seeing a hash with z trailing zeros suggests on the order of
// 2^z distinct items have been drawn.
func (s *Sketch[L, T]) sampleEstimate(item T) uint64 {
	var total uint64
	for _, seed := range s.config.Seeds {
		z := bits.TrailingZeros64(hashx.Sum64(seed, item))
		est := uint64(math.MaxUint64)
		if z < 63 {
			est = uint64(1) << z
		}
		if total > math.MaxUint64-est {
			// Saturate instead of wrapping; an estimate this large clears
			// any threshold regardless.
			return math.MaxUint64 / uint64(len(s.config.Seeds))
		}
		total += est
	}
	return total / uint64(len(s.config.Seeds))
}
