package main

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/probkit/distinct/sketch"
)

// GroundTruth tracks exact per-label item sets. It satisfies the same sketch
// interface as the estimators under test, so accuracy runs can treat it as
// just another sketch while using it as the reference.
type GroundTruth[L comparable, T comparable] struct {
	sets map[L]map[T]struct{}
}

var _ sketch.HeavyDistinctHitterSketch[string, string] = (*GroundTruth[string, string])(nil)

func NewGroundTruth[L comparable, T comparable]() *GroundTruth[L, T] {
	return &GroundTruth[L, T]{
		sets: make(map[L]map[T]struct{}),
	}
}

func (g *GroundTruth[L, T]) Insert(label L, item T) {
	set, ok := g.sets[label]
	if !ok {
		set = make(map[T]struct{})
		g.sets[label] = set
	}
	set[item] = struct{}{}
}

func (g *GroundTruth[L, T]) Merge(other sketch.HeavyDistinctHitterSketch[L, T]) error {
	o, ok := other.(*GroundTruth[L, T])
	if !ok {
		return errors.New("can only merge ground truth with ground truth")
	}
	for label, items := range o.sets {
		for item := range items {
			g.Insert(label, item)
		}
	}
	return nil
}

func (g *GroundTruth[L, T]) Clear() {
	clear(g.sets)
}

func (g *GroundTruth[L, T]) Cardinality(label L) uint64 {
	return uint64(len(g.sets[label]))
}

func (g *GroundTruth[L, T]) NumLabels() int {
	return len(g.sets)
}

// Top returns every label sorted by exact cardinality, truncated to k.
func (g *GroundTruth[L, T]) Top(k int) []sketch.LabelCount[L] {
	all := make([]sketch.LabelCount[L], 0, len(g.sets))
	for label, items := range g.sets {
		all = append(all, sketch.LabelCount[L]{Label: label, Count: uint64(len(items))})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Count > all[j].Count })
	if k < len(all) {
		all = all[:k]
	}
	return all
}

// relErrors returns the relative error of the estimator for each of the true
// top k labels, heaviest first.
func (g *GroundTruth[L, T]) relErrors(est sketch.HeavyDistinctHitterSketch[L, T], k int) []float64 {
	top := g.Top(k)
	errs := make([]float64, len(top))
	for i, e := range top {
		got := float64(est.Cardinality(e.Label))
		errs[i] = math.Abs(got-float64(e.Count)) / float64(e.Count)
	}
	return errs
}

// RMAE is the relative mean absolute error of the estimator over the true
// top k labels.
func (g *GroundTruth[L, T]) RMAE(est sketch.HeavyDistinctHitterSketch[L, T], k int) float64 {
	errs := g.relErrors(est, k)
	if len(errs) == 0 {
		return 0
	}
	var sum float64
	for _, e := range errs {
		sum += e
	}
	return sum / float64(len(errs))
}

// RRMSE is the relative root mean square error of the estimator over the
// true top k labels. It punishes outliers harder than RMAE.
func (g *GroundTruth[L, T]) RRMSE(est sketch.HeavyDistinctHitterSketch[L, T], k int) float64 {
	errs := g.relErrors(est, k)
	if len(errs) == 0 {
		return 0
	}
	var sum float64
	for _, e := range errs {
		sum += e * e
	}
	return math.Sqrt(sum / float64(len(errs)))
}
