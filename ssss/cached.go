package ssss

import "github.com/probkit/distinct/sketch"

// cached wraps a cardinality sketch and caches its estimate, refreshing the
// cache on every mutation. The space-saving loop reads every tracked label's
// cardinality whenever it has to find the minimum counter, so paying the
// estimation cost once per write instead of once per read is a clear win.
type cached[T any] struct {
	sketch      sketch.CardinalitySketch[T]
	cardinality uint64
}

func newCached[T any](s sketch.CardinalitySketch[T]) *cached[T] {
	return &cached[T]{sketch: s}
}

func (c *cached[T]) insert(item T) {
	c.sketch.Insert(item)
	c.cardinality = c.sketch.Cardinality()
}

func (c *cached[T]) merge(other *cached[T]) error {
	if err := c.sketch.Merge(other.sketch); err != nil {
		return err
	}
	c.cardinality = c.sketch.Cardinality()
	return nil
}

func (c *cached[T]) clear() {
	c.sketch.Clear()
	c.cardinality = 0
}
