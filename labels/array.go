package labels

// Slot is one entry of an Array keeper: either empty or holding exactly one
// label. A dense array of optional values is used rather than a sparse map
// because the register index space is dense and fixed at construction, and
// slot writes must stay O(1).
type Slot[L comparable] struct {
	Label    L
	Occupied bool
}

// Array is the bounded bookkeeping strategy: one slot per register, each
// recording only the most recently written label at that index. Memory is
// fixed by the register count regardless of the true label cardinality.
//
// Unlike Set, an Array keeper carries no usable distinct count of its own;
// the owning estimator must derive its cardinality signal from register
// contents by other means.
type Array[L comparable] struct {
	size  int
	slots []Slot[L]
}

// NewArray creates an Array keeper with size empty slots, one per register
// of the owning estimator. The size is fixed for the lifetime of the keeper.
func NewArray[L comparable](size int) *Array[L] {
	return &Array[L]{
		size:  size,
		slots: make([]Slot[L], size),
	}
}

// Reset re-establishes a sequence of exactly size empty slots, discarding
// any lengthening a previous Merge may have caused.
func (a *Array[L]) Reset() {
	a.slots = make([]Slot[L], a.size)
}

// Insert overwrites slot index with the label, discarding whatever was
// recorded there. Last write wins; there is no same-label detection. The
// index must be in [0, size) — the keeper does not derive indices and an
// out-of-range value panics.
func (a *Array[L]) Insert(label L, index int) {
	a.slots[index] = Slot[L]{Label: label, Occupied: true}
}

// Count returns the slot-sequence length. This is the keeper's capacity,
// not an occupancy or distinctness measure: it equals the construction size
// until a Merge lengthens the sequence (see Merge). Callers must not read
// it as a cardinality estimate.
func (a *Array[L]) Count() uint64 {
	return uint64(len(a.slots))
}

// Labels returns the distinct labels held by occupied slots, in slot order
// of first appearance.
func (a *Array[L]) Labels() []L {
	seen := make(map[L]struct{}, len(a.slots))
	var out []L
	for _, s := range a.slots {
		if !s.Occupied {
			continue
		}
		if _, dup := seen[s.Label]; dup {
			continue
		}
		seen[s.Label] = struct{}{}
		out = append(out, s.Label)
	}
	return out
}

// Slots exposes the slot sequence for direct inspection. The returned slice
// is the keeper's backing storage and must not be mutated by the caller.
func (a *Array[L]) Slots() []Slot[L] {
	return a.slots
}

// Merge appends the other keeper's entire slot sequence after this one's.
//
// This is not an index-aligned combination: the merged sequence has length
// len(a) + len(other), Count reports the doubled length, and subsequent
// Inserts keep writing into the first size slots only. Reset restores the
// one-slot-per-register shape.
//
// Kind and size mismatches are rejected before any mutation, so a failed
// Merge leaves the receiver untouched.
func (a *Array[L]) Merge(other Keeper[L]) error {
	o, ok := other.(*Array[L])
	if !ok {
		return ErrKeeperMismatch
	}
	if a.size != o.size {
		return ErrSizeMismatch
	}
	a.slots = append(a.slots, o.slots...)
	return nil
}
