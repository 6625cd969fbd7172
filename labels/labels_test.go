package labels

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedLabels(k Keeper[string]) []string {
	out := k.Labels()
	sort.Strings(out)
	return out
}

func TestSet(t *testing.T) {
	t.Run("duplicate inserts collapse", func(t *testing.T) {
		s := NewSet[string]()
		for i := 0; i < 10; i++ {
			s.Insert("x", i) // arbitrary indices; ignored by this strategy
		}
		assert.Equal(t, uint64(1), s.Count())
	})

	t.Run("count is order independent", func(t *testing.T) {
		forward := NewSet[string]()
		backward := NewSet[string]()
		seq := []string{"a", "b", "a", "c", "b", "a"}
		for i, l := range seq {
			forward.Insert(l, i)
		}
		for i := len(seq) - 1; i >= 0; i-- {
			backward.Insert(seq[i], i)
		}
		assert.Equal(t, uint64(3), forward.Count())
		assert.Equal(t, forward.Count(), backward.Count())
		assert.Equal(t, sortedLabels(forward), sortedLabels(backward))
	})

	t.Run("merge is a commutative union", func(t *testing.T) {
		build := func(ls ...string) *Set[string] {
			s := NewSet[string]()
			for i, l := range ls {
				s.Insert(l, i)
			}
			return s
		}

		ab := build("a", "b")
		bc := build("b", "c")
		require.NoError(t, ab.Merge(bc))

		ba := build("b", "c")
		require.NoError(t, ba.Merge(build("a", "b")))

		assert.Equal(t, []string{"a", "b", "c"}, sortedLabels(ab))
		assert.Equal(t, sortedLabels(ab), sortedLabels(ba))

		// Union can never shrink either operand's count.
		assert.GreaterOrEqual(t, ab.Count(), uint64(2))

		// The other operand is untouched.
		assert.Equal(t, []string{"b", "c"}, sortedLabels(bc))
	})

	t.Run("merge is idempotent", func(t *testing.T) {
		s := NewSet[string]()
		s.Insert("a", 0)
		o := NewSet[string]()
		o.Insert("a", 3)
		o.Insert("b", 1)
		require.NoError(t, s.Merge(o))
		require.NoError(t, s.Merge(o))
		assert.Equal(t, uint64(2), s.Count())
	})

	t.Run("merge rejects a different keeper kind", func(t *testing.T) {
		s := NewSet[string]()
		s.Insert("a", 0)
		err := s.Merge(NewArray[string](4))
		require.ErrorIs(t, err, ErrKeeperMismatch)
		assert.Equal(t, uint64(1), s.Count())
	})

	t.Run("reset clears membership", func(t *testing.T) {
		s := NewSet[string]()
		s.Insert("a", 0)
		s.Insert("b", 1)
		s.Reset()
		assert.Equal(t, uint64(0), s.Count())
		assert.Empty(t, s.Labels())
	})

	t.Run("end to end", func(t *testing.T) {
		s := NewSet[string]()
		s.Insert("x", 0)
		s.Insert("y", 1)
		s.Insert("x", 2)
		assert.Equal(t, uint64(2), s.Count())
	})
}

func TestArray(t *testing.T) {
	t.Run("count reports capacity", func(t *testing.T) {
		a := NewArray[string](8)
		assert.Equal(t, uint64(8), a.Count())
		for i := 0; i < 8; i++ {
			a.Insert("l", i)
			assert.Equal(t, uint64(8), a.Count())
		}
		a.Reset()
		assert.Equal(t, uint64(8), a.Count())
	})

	t.Run("last write wins per slot", func(t *testing.T) {
		a := NewArray[string](4)
		a.Insert("L", 1)
		a.Insert("M", 1)
		slots := a.Slots()
		require.Len(t, slots, 4)
		assert.Equal(t, Slot[string]{Label: "M", Occupied: true}, slots[1])
		for _, i := range []int{0, 2, 3} {
			assert.False(t, slots[i].Occupied)
		}
	})

	t.Run("reset matches a fresh keeper", func(t *testing.T) {
		a := NewArray[string](4)
		a.Insert("a", 0)
		a.Insert("b", 3)
		a.Reset()
		assert.Equal(t, NewArray[string](4).Slots(), a.Slots())
	})

	t.Run("labels deduplicates occupied slots", func(t *testing.T) {
		a := NewArray[string](4)
		a.Insert("a", 0)
		a.Insert("b", 2)
		a.Insert("a", 3)
		assert.Equal(t, []string{"a", "b"}, a.Labels())
	})

	// Merge appends rather than index-aligning the two slot sequences.
	// This pins down the current behavior: the merged sequence has length
	// 2*S and a later insert writes only into the first half.
	t.Run("merge appends the other slot sequence", func(t *testing.T) {
		const size = 4
		a := NewArray[string](size)
		a.Insert("a", 0)
		b := NewArray[string](size)
		b.Insert("b", 1)

		require.NoError(t, a.Merge(b))
		slots := a.Slots()
		require.Len(t, slots, 2*size)
		assert.Equal(t, uint64(2*size), a.Count())
		assert.Equal(t, "a", slots[0].Label)
		assert.Equal(t, "b", slots[size+1].Label)

		// The other operand is untouched.
		require.Len(t, b.Slots(), size)

		// A subsequent insert still writes into the first half.
		a.Insert("c", 1)
		assert.Equal(t, "c", a.Slots()[1].Label)
		assert.Equal(t, "b", a.Slots()[size+1].Label)

		// Reset restores the constructed length.
		a.Reset()
		assert.Len(t, a.Slots(), size)
	})

	t.Run("merge rejects size and kind mismatches without mutating", func(t *testing.T) {
		a := NewArray[string](4)
		a.Insert("a", 0)

		err := a.Merge(NewArray[string](8))
		require.ErrorIs(t, err, ErrSizeMismatch)
		require.Len(t, a.Slots(), 4)

		err = a.Merge(NewSet[string]())
		require.ErrorIs(t, err, ErrKeeperMismatch)
		require.Len(t, a.Slots(), 4)
		assert.Equal(t, "a", a.Slots()[0].Label)
	})

	t.Run("out of range insert panics", func(t *testing.T) {
		a := NewArray[string](4)
		assert.Panics(t, func() { a.Insert("a", 4) })
	})

	t.Run("end to end", func(t *testing.T) {
		a := NewArray[string](4)
		a.Insert("a", 0)
		a.Insert("b", 2)

		assert.Equal(t, uint64(4), a.Count())
		assert.Equal(t, []Slot[string]{
			{Label: "a", Occupied: true},
			{},
			{Label: "b", Occupied: true},
			{},
		}, a.Slots())
	})
}
