package labels

// Set is the exact bookkeeping strategy: a deduplicating collection of every
// distinct label ever inserted since the last Reset. Register placement
// carries no weight for this strategy, so Count is a true distinct-label
// count the owning estimator can use directly. The price is memory
// proportional to the real number of distinct labels.
type Set[L comparable] struct {
	members map[L]struct{}
}

// NewSet creates an empty Set keeper.
func NewSet[L comparable]() *Set[L] {
	return &Set[L]{members: make(map[L]struct{})}
}

// Reset removes all recorded labels.
func (s *Set[L]) Reset() {
	clear(s.members)
}

// Insert records the label. The register index exists only to satisfy the
// Keeper contract and is ignored; placement never matters for this strategy.
// Inserting a label that is already present is a no-op.
func (s *Set[L]) Insert(label L, _ int) {
	s.members[label] = struct{}{}
}

// Count returns the exact number of distinct labels recorded since the last
// Reset, merges included.
func (s *Set[L]) Count() uint64 {
	return uint64(len(s.members))
}

// Labels returns the recorded labels in map-iteration order.
func (s *Set[L]) Labels() []L {
	out := make([]L, 0, len(s.members))
	for l := range s.members {
		out = append(out, l)
	}
	return out
}

// Merge absorbs every label present in the other keeper. The operation is
// the set union: commutative in resulting membership and idempotent.
func (s *Set[L]) Merge(other Keeper[L]) error {
	o, ok := other.(*Set[L])
	if !ok {
		return ErrKeeperMismatch
	}
	for l := range o.members {
		s.members[l] = struct{}{}
	}
	return nil
}
