package counthll

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probkit/distinct/labels"
)

var testSeeds = []uint64{0, 1, 2}

func seededConfig(t *testing.T, depth, width int) *Config {
	t.Helper()
	cfg, err := NewConfig(depth, width, testSeeds)
	require.NoError(t, err)
	return cfg
}

func relativeError(estimate, truth uint64) float64 {
	fe, ft := float64(estimate), float64(truth)
	if fe > ft {
		return (fe - ft) / ft
	}
	return (ft - fe) / ft
}

func TestNewConfig(t *testing.T) {
	t.Run("rejects zero width", func(t *testing.T) {
		_, err := NewConfig(1024, 0, testSeeds)
		assert.ErrorIs(t, err, ErrZeroWidth)
	})

	t.Run("rejects bad depths", func(t *testing.T) {
		for _, depth := range []int{0, 8, 100} {
			_, err := NewConfig(depth, 10, testSeeds)
			assert.ErrorIs(t, err, ErrBadDepth, "depth %d", depth)
		}
	})

	t.Run("rejects wrong seed count", func(t *testing.T) {
		_, err := NewConfig(1024, 10, []uint64{1, 2})
		assert.ErrorIs(t, err, ErrBadSeeds)
	})

	t.Run("size covers the whole plane", func(t *testing.T) {
		assert.Equal(t, 1024*10, seededConfig(t, 1024, 10).Size())
	})
}

func TestPointwise(t *testing.T) {
	t.Run("index stays within the plane", func(t *testing.T) {
		p := NewPointwise[string, uint64](seededConfig(t, 64, 7))
		for i := uint64(0); i < 1000; i++ {
			index := p.Index(fmt.Sprintf("label-%d", i%5), i)
			assert.GreaterOrEqual(t, index, 0)
			assert.Less(t, index, p.Config().Size())
		}
	})

	t.Run("estimates per label cardinality", func(t *testing.T) {
		p := NewPointwise[uint64, uint64](seededConfig(t, 1024, 100))
		const numLabels = 3
		const numEntries = 18000
		for i := uint64(0); i < numEntries; i++ {
			p.Insert(i%numLabels, i)
		}
		for label := uint64(0); label < numLabels; label++ {
			estimate := p.Cardinality(label)
			relErr := relativeError(estimate, numEntries/numLabels)
			t.Logf("label=%d estimate=%d relative error=%.4f", label, estimate, relErr)
			assert.Less(t, relErr, 0.2)
		}
	})

	t.Run("merge approximates the union", func(t *testing.T) {
		cfg := seededConfig(t, 1024, 100)
		a := NewPointwise[string, uint64](cfg)
		b := NewPointwise[string, uint64](cfg)
		for i := uint64(0); i < 6000; i++ {
			a.Insert("l", i)
		}
		for i := uint64(3000); i < 9000; i++ {
			b.Insert("l", i)
		}
		require.NoError(t, a.Merge(b))
		assert.Less(t, relativeError(a.Cardinality("l"), 9000), 0.2)
	})

	t.Run("merge rejects differing configs", func(t *testing.T) {
		a := NewPointwise[string, uint64](seededConfig(t, 1024, 100))
		b := NewPointwise[string, uint64](seededConfig(t, 1024, 200))
		assert.ErrorIs(t, a.Merge(b), ErrConfigMismatch)
	})

	t.Run("clear empties every register", func(t *testing.T) {
		p := NewPointwise[string, uint64](seededConfig(t, 1024, 10))
		for i := uint64(0); i < 6000; i++ {
			p.Insert("l", i)
		}
		p.Clear()
		fresh := NewPointwise[string, uint64](seededConfig(t, 1024, 10))
		assert.Equal(t, fresh.Cardinality("l"), p.Cardinality("l"))
	})
}

func TestSketchKeeperWiring(t *testing.T) {
	t.Run("label set records every distinct label", func(t *testing.T) {
		s := NewLabelSet[string, uint64](seededConfig(t, 1024, 10))
		for i := uint64(0); i < 300; i++ {
			s.Insert(fmt.Sprintf("label-%d", i%7), i)
		}
		assert.Equal(t, uint64(7), s.Keeper().Count())
	})

	t.Run("label array reports plane capacity", func(t *testing.T) {
		cfg := seededConfig(t, 1024, 10)
		s := NewLabelArray[string, uint64](cfg)
		for i := uint64(0); i < 300; i++ {
			s.Insert(fmt.Sprintf("label-%d", i%7), i)
		}
		// Capacity, not occupancy: not a cardinality signal.
		assert.Equal(t, uint64(cfg.Size()), s.Keeper().Count())
	})

	t.Run("inserted labels are recoverable from the array keeper", func(t *testing.T) {
		s := NewLabelArray[string, uint64](seededConfig(t, 1024, 10))
		for i := uint64(0); i < 6000; i++ {
			s.Insert("heavy", i)
		}
		assert.Contains(t, s.Keeper().Labels(), "heavy")
	})

	t.Run("clear resets the keeper too", func(t *testing.T) {
		s := NewLabelSet[string, uint64](seededConfig(t, 1024, 10))
		s.Insert("a", 1)
		s.Clear()
		assert.Zero(t, s.Keeper().Count())
	})
}

func TestSketchTop(t *testing.T) {
	for _, tc := range []struct {
		name string
		new  func(*Config) *Sketch[string, uint64]
	}{
		{"label set", NewLabelSet[string, uint64]},
		{"label array", NewLabelArray[string, uint64]},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := tc.new(seededConfig(t, 1024, 100))
			// Cardinalities 4000, 8000, ..., 20000 for labels 1..5.
			var item uint64
			for l := uint64(1); l <= 5; l++ {
				for i := 0; i < int(4000*l); i++ {
					s.Insert(fmt.Sprintf("label-%d", l), item)
					item++
				}
			}

			top := s.Top(2)
			require.Len(t, top, 2)
			assert.Equal(t, "label-5", top[0].Label)
			assert.Equal(t, "label-4", top[1].Label)
			assert.GreaterOrEqual(t, top[0].Count, top[1].Count)
		})
	}
}

func TestSketchMerge(t *testing.T) {
	t.Run("combines plane and keeper", func(t *testing.T) {
		cfg := seededConfig(t, 1024, 100)
		a := NewLabelSet[string, uint64](cfg)
		b := NewLabelSet[string, uint64](cfg)
		for i := uint64(0); i < 6000; i++ {
			a.Insert("x", i)
		}
		for i := uint64(6000); i < 12000; i++ {
			b.Insert("y", i)
		}
		require.NoError(t, a.Merge(b))
		assert.Equal(t, uint64(2), a.Keeper().Count())
		assert.Less(t, relativeError(a.Cardinality("x"), 6000), 0.2)
		assert.Less(t, relativeError(a.Cardinality("y"), 6000), 0.2)
	})

	t.Run("propagates keeper mismatches", func(t *testing.T) {
		cfg := seededConfig(t, 1024, 10)
		set := NewLabelSet[string, uint64](cfg)
		array := NewLabelArray[string, uint64](cfg)
		assert.ErrorIs(t, set.Merge(array), labels.ErrKeeperMismatch)
	})

	t.Run("rejects differing configs before touching the keeper", func(t *testing.T) {
		a := NewLabelSet[string, uint64](seededConfig(t, 1024, 10))
		b := NewLabelSet[string, uint64](seededConfig(t, 1024, 20))
		b.Insert("y", 1)
		require.ErrorIs(t, a.Merge(b), ErrConfigMismatch)
		assert.Zero(t, a.Keeper().Count())
	})
}
