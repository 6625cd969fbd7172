// Package sketch defines the contracts shared by the cardinality and heavy
// distinct-hitter sketches in this module.
//
// A CardinalitySketch answers "how many distinct items have I seen?" for a
// single stream. A HeavyDistinctHitterSketch answers "which labels have the
// largest distinct-item sets?" for a stream of (label, item) pairs. Both are
// mergeable: two sketches built from independent streams combine into one
// that approximates the union of the inputs, which is what makes them usable
// across shards or workers.
package sketch

// CardinalitySketch estimates the number of distinct items in a stream.
type CardinalitySketch[T any] interface {
	// Insert adds an item to the sketch.
	Insert(item T)

	// Merge combines another sketch of the same concrete type and
	// configuration into this one. The other sketch is not modified.
	Merge(other CardinalitySketch[T]) error

	// Clear resets the sketch to its initial empty state.
	Clear()

	// Cardinality returns the estimated number of distinct items inserted.
	Cardinality() uint64
}

// HeavyDistinctHitterSketch tracks the labels whose associated item sets have
// the largest approximate cardinalities.
type HeavyDistinctHitterSketch[L comparable, T any] interface {
	// Insert adds an item to the set associated with the given label.
	Insert(label L, item T)

	// Merge combines another sketch of the same concrete type and
	// configuration into this one. The other sketch is not modified.
	Merge(other HeavyDistinctHitterSketch[L, T]) error

	// Clear resets the sketch to its initial empty state.
	Clear()

	// Cardinality returns the estimated cardinality of the set associated
	// with the given label.
	Cardinality(label L) uint64

	// Top returns the k labels with the highest estimated cardinality,
	// in descending order.
	Top(k int) []LabelCount[L]
}

// LabelCount pairs a label with its estimated distinct-item count.
type LabelCount[L comparable] struct {
	Label L
	Count uint64
}
