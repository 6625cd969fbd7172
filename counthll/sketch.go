package counthll

import (
	"errors"
	"sort"

	"github.com/probkit/distinct/labels"
	"github.com/probkit/distinct/sketch"
)

// ErrSketchMismatch is returned when merging sketches of different concrete
// types.
var ErrSketchMismatch = errors.New("counthll: can only merge with another counthll sketch")

// Sketch pairs a register plane with a label keeper, making the estimator
// invertible: it can enumerate the heavy labels it has seen, not just
// estimate a cardinality for a label the caller already knows.
//
// The keeper strategy is fixed at construction. NewLabelSet gives exact
// inversion at unbounded memory; NewLabelArray bounds memory by the register
// count but may lose labels that were overwritten at every register they
// touched.
type Sketch[L comparable, T any] struct {
	plane  *Pointwise[L, T]
	keeper labels.Keeper[L]
}

var _ sketch.HeavyDistinctHitterSketch[string, string] = (*Sketch[string, string])(nil)

// NewLabelSet creates a sketch whose keeper records every distinct label in
// a deduplicating set.
func NewLabelSet[L comparable, T any](config *Config) *Sketch[L, T] {
	return &Sketch[L, T]{
		plane:  NewPointwise[L, T](config),
		keeper: labels.NewSet[L](),
	}
}

// NewLabelArray creates a sketch whose keeper records the most recent label
// per register in a fixed-size slot array sized to the plane.
func NewLabelArray[L comparable, T any](config *Config) *Sketch[L, T] {
	return &Sketch[L, T]{
		plane:  NewPointwise[L, T](config),
		keeper: labels.NewArray[L](config.Size()),
	}
}

// Config returns the sketch's configuration.
func (s *Sketch[L, T]) Config() *Config {
	return s.plane.Config()
}

// Keeper returns the sketch's label keeper.
func (s *Sketch[L, T]) Keeper() labels.Keeper[L] {
	return s.keeper
}

// Insert adds an item to the label's set and records the label at the
// register index the item mapped to.
func (s *Sketch[L, T]) Insert(label L, item T) {
	s.plane.Insert(label, item)
	s.keeper.Insert(label, s.plane.Index(label, item))
}

// Merge combines another sketch into this one: the register planes merge by
// register-wise maximum, then the keepers combine their label records. A
// keeper failure (mismatched keeper kinds or sizes) surfaces as the sketch
// merge failure.
func (s *Sketch[L, T]) Merge(other sketch.HeavyDistinctHitterSketch[L, T]) error {
	o, ok := other.(*Sketch[L, T])
	if !ok {
		return ErrSketchMismatch
	}
	if err := s.plane.Merge(o.plane); err != nil {
		return err
	}
	return s.keeper.Merge(o.keeper)
}

// Clear resets the plane and the keeper.
func (s *Sketch[L, T]) Clear() {
	s.plane.Clear()
	s.keeper.Reset()
}

// Cardinality estimates the number of distinct items inserted under the
// given label.
func (s *Sketch[L, T]) Cardinality(label L) uint64 {
	return s.plane.Cardinality(label)
}

// Top returns the k recorded labels with the highest estimated cardinality,
// in descending order. With a set keeper the candidates are every label ever
// inserted; with an array keeper they are the labels still holding at least
// one register slot.
func (s *Sketch[L, T]) Top(k int) []sketch.LabelCount[L] {
	recorded := s.keeper.Labels()
	entries := make([]sketch.LabelCount[L], 0, len(recorded))
	for _, label := range recorded {
		entries = append(entries, sketch.LabelCount[L]{
			Label: label,
			Count: s.plane.Cardinality(label),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if k < len(entries) {
		entries = entries[:k]
	}
	return entries
}
