package ssss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probkit/distinct/hll"
)

const (
	testMaxCounters = 10
	testCounterSize = 512
)

var (
	testSeeds    = []uint64{0, 1, 2, 3}
	testHLLSeeds = []uint64{8, 9}
)

func seededConfig(t *testing.T) *Config {
	t.Helper()
	counter, err := hll.NewConfig(testCounterSize, testHLLSeeds)
	require.NoError(t, err)
	cfg, err := NewConfig(testMaxCounters, counter, testSeeds)
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
	t.Run("rejects zero counters", func(t *testing.T) {
		counter, err := hll.NewConfig(testCounterSize, testHLLSeeds)
		require.NoError(t, err)
		_, err = NewConfig(0, counter, nil)
		assert.ErrorIs(t, err, ErrZeroMaxCounters)
	})

	t.Run("generates seeds when nil", func(t *testing.T) {
		counter, err := hll.NewConfig(testCounterSize, testHLLSeeds)
		require.NoError(t, err)
		cfg, err := NewConfig(5, counter, nil)
		require.NoError(t, err)
		assert.Len(t, cfg.Seeds, defaultNumSeeds)
	})
}

func TestInsert(t *testing.T) {
	t.Run("counts set cardinality", func(t *testing.T) {
		s := New[rune, uint64](seededConfig(t))
		exact := map[rune]map[uint64]struct{}{}

		// Fill up the sketch.
		for label := 'a'; label <= 'j'; label++ {
			for i := uint64(0); i < 100; i++ {
				s.Insert(label, i)
				if exact[label] == nil {
					exact[label] = map[uint64]struct{}{}
				}
				exact[label][i] = struct{}{}
			}
		}
		require.Equal(t, testMaxCounters, s.NumCounters())

		for label := 'a'; label <= 'j'; label++ {
			assert.Less(t,
				relativeError(s.Cardinality(label), uint64(len(exact[label]))),
				0.1, "label %c", label)
		}
	})

	t.Run("new label inherits a used counter", func(t *testing.T) {
		s := New[rune, uint64](seededConfig(t))
		for label := 'a'; label <= 'j'; label++ {
			for i := uint64(0); i < 100; i++ {
				s.Insert(label, i)
			}
		}

		// Inserting the same 100 items under a new label: whichever counter
		// it inherits already holds those items, so the estimate stays
		// close to 100 rather than doubling.
		for i := uint64(0); i < 100; i++ {
			s.Insert('k', i)
		}
		assert.Less(t, relativeError(s.Cardinality('k'), 100), 0.1)
	})

	t.Run("burst of small labels keeps the counter estimates heavy", func(t *testing.T) {
		s := New[int, uint64](seededConfig(t))
		var item uint64
		for label := 0; label < testMaxCounters; label++ {
			for i := 0; i < 1000; i++ {
				s.Insert(label, item)
				item++
			}
		}

		// A burst of one-item labels. A burst label may occasionally be
		// sampled in and inherit a counter, but inheritance keeps the
		// counter's registers, so every tracked estimate stays near the
		// heavy labels' ~1000.
		for label := 100; label < 200; label++ {
			s.Insert(label, item)
			item++
		}

		top := s.Top(testMaxCounters)
		require.Len(t, top, testMaxCounters)
		for _, e := range top {
			assert.Greater(t, e.Count, uint64(800))
		}
	})
}

func TestCardinality(t *testing.T) {
	t.Run("empty sketch reports zero", func(t *testing.T) {
		s := New[string, uint64](seededConfig(t))
		assert.Zero(t, s.Cardinality("missing"))
	})

	t.Run("untracked label reports the tracked minimum", func(t *testing.T) {
		s := New[string, uint64](seededConfig(t))
		for i := uint64(0); i < 500; i++ {
			s.Insert("tracked", i)
		}
		min := s.Cardinality("tracked")
		assert.Equal(t, min, s.Cardinality("never-seen"))
	})
}

func TestTop(t *testing.T) {
	s := New[int, uint64](seededConfig(t))
	// Labels 1..8 with cardinalities 500, 1000, ..., 4000.
	var item uint64
	for label := 1; label <= 8; label++ {
		for i := 0; i < 500*label; i++ {
			s.Insert(label, item)
			item++
		}
	}

	top := s.Top(3)
	require.Len(t, top, 3)
	assert.Equal(t, 8, top[0].Label)
	assert.Equal(t, 7, top[1].Label)
	assert.Equal(t, 6, top[2].Label)

	// Asking for more than is tracked returns everything, still sorted.
	all := s.Top(100)
	assert.Len(t, all, 8)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Count, all[i].Count)
	}
}

func TestClear(t *testing.T) {
	s := New[string, uint64](seededConfig(t))
	for i := uint64(0); i < 100; i++ {
		s.Insert("a", i)
	}
	s.Clear()
	assert.Zero(t, s.NumCounters())
	assert.Zero(t, s.Cardinality("a"))

	// The sketch stays usable after a clear.
	for i := uint64(0); i < 100; i++ {
		s.Insert("a", i)
	}
	assert.Less(t, relativeError(s.Cardinality("a"), 100), 0.1)
}

func TestMerge(t *testing.T) {
	t.Run("approximates the union of both streams", func(t *testing.T) {
		s1 := New[rune, uint64](seededConfig(t))
		exact := map[rune]map[uint64]struct{}{}
		record := func(label rune, item uint64) {
			if exact[label] == nil {
				exact[label] = map[uint64]struct{}{}
			}
			exact[label][item] = struct{}{}
		}

		// Disjoint labels with larger sets.
		s2 := New[rune, uint64](seededConfig(t))
		for label := 'k'; label <= 't'; label++ {
			for i := uint64(1); i < 200; i++ {
				s2.Insert(label, i)
				record(label, i)
			}
		}
		require.NoError(t, s1.Merge(s2))

		// Overlapping labels, half-disjoint items.
		s3 := New[rune, uint64](seededConfig(t))
		for label := 'p'; label <= 'y'; label++ {
			for i := uint64(100); i < 300; i++ {
				s3.Insert(label, i)
				record(label, i)
			}
		}
		require.NoError(t, s1.Merge(s3))

		assert.LessOrEqual(t, s1.NumCounters(), testMaxCounters)
		label := 'p'
		assert.Less(t,
			relativeError(s1.Cardinality(label), uint64(len(exact[label]))),
			0.1)
	})

	t.Run("identical streams are unchanged", func(t *testing.T) {
		s1 := New[rune, uint64](seededConfig(t))
		s2 := New[rune, uint64](seededConfig(t))
		for label := 'a'; label <= 'j'; label++ {
			for i := uint64(0); i < 100; i++ {
				s1.Insert(label, i)
				s2.Insert(label, i)
			}
		}
		before := s1.Cardinality('a')
		require.NoError(t, s1.Merge(s2))
		assert.Equal(t, before, s1.Cardinality('a'))
	})

	t.Run("truncates back to the counter budget", func(t *testing.T) {
		s1 := New[int, uint64](seededConfig(t))
		s2 := New[int, uint64](seededConfig(t))
		var item uint64
		for label := 0; label < testMaxCounters; label++ {
			for i := 0; i < 100; i++ {
				s1.Insert(label, item)
				item++
			}
		}
		for label := 100; label < 100+testMaxCounters; label++ {
			for i := 0; i < 1000; i++ {
				s2.Insert(label, item)
				item++
			}
		}
		require.NoError(t, s1.Merge(s2))
		require.Equal(t, testMaxCounters, s1.NumCounters())

		// The larger labels from s2 win every slot.
		for _, e := range s1.Top(testMaxCounters) {
			assert.GreaterOrEqual(t, e.Label, 100)
		}
	})

	t.Run("merges iff configs match", func(t *testing.T) {
		cfg := seededConfig(t)
		assert.NoError(t, New[int, uint64](cfg).Merge(New[int, uint64](cfg)))

		counter, err := hll.NewConfig(testCounterSize, testHLLSeeds)
		require.NoError(t, err)
		reseeded, err := NewConfig(testMaxCounters, counter, []uint64{4, 5, 6, 7})
		require.NoError(t, err)
		assert.ErrorIs(t,
			New[int, uint64](cfg).Merge(New[int, uint64](reseeded)),
			ErrConfigMismatch)
	})
}
