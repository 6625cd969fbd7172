// Package labels implements per-register label bookkeeping for invertible
// cardinality estimators.
//
// A plain cardinality estimator can tell you *how many* distinct items a
// register plane has absorbed, but not *which* labels put them there. To
// report heavy distinct hitters, the estimator has to keep a side record of
// the labels observed at its registers. That record is the Keeper.
//
// Two strategies are provided, chosen by the owning estimator at
// construction time:
//
//   - Set records every distinct label ever inserted, ignoring register
//     placement entirely. It is statistically exact and always mergeable,
//     but its memory grows with the true number of distinct labels.
//
//   - Array keeps one optional slot per register and records only the most
//     recently written label at each index. Memory is bounded by the
//     register count no matter how many labels the stream carries, at the
//     cost of losing overwritten labels.
//
// The Keeper is a purely sequential, single-owner structure. It performs no
// locking and assumes exclusive mutable access during Insert and Reset, and
// exclusive access to the receiver plus read-only access to the argument
// during Merge. Estimators shared across goroutines must serialize access
// externally, typically by keeping one estimator/keeper pair per worker and
// merging afterward.
package labels

import "errors"

var (
	// ErrKeeperMismatch is returned by Merge when the two keepers use
	// different bookkeeping strategies.
	ErrKeeperMismatch = errors.New("labels: cannot merge keepers of different kinds")

	// ErrSizeMismatch is returned by Array.Merge when the two keepers were
	// built for register planes of different sizes.
	ErrSizeMismatch = errors.New("labels: cannot merge keepers of different sizes")
)

// Keeper records which labels have been observed at the registers of a
// cardinality estimator and combines two such records during a sketch merge.
type Keeper[L comparable] interface {
	// Reset clears all recorded state. An Array keeper re-establishes its
	// full-length sequence of empty slots.
	Reset()

	// Insert records that label was observed at register index. Set keepers
	// ignore the index entirely; Array keepers overwrite slot index
	// unconditionally. The caller must guarantee 0 <= index < size for an
	// Array keeper (the keeper does not derive indices and does not
	// validate them; an out-of-range index panics).
	Insert(label L, index int)

	// Count characterizes the keeper's current state. For a Set keeper it
	// is the exact number of distinct labels recorded. For an Array keeper
	// it is the slot-sequence length (capacity, not occupancy or
	// distinctness) and must not be read as a cardinality estimate.
	Count() uint64

	// Labels returns the distinct labels currently recorded, in no
	// particular order.
	Labels() []L

	// Merge combines the other keeper's recorded state into this one. The
	// other keeper is read-only during the merge and both keepers remain
	// independently usable afterward. Merging keepers of different kinds,
	// or Array keepers of different sizes, fails before mutating the
	// receiver.
	Merge(other Keeper[L]) error
}
