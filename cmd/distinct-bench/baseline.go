package main

import (
	"sort"

	"github.com/axiomhq/hyperloglog"
	"github.com/pkg/errors"

	"github.com/probkit/distinct/sketch"
)

// perLabelHLL is the naive contender: one full HyperLogLog per label, with
// no label budget at all. It is the accuracy ceiling the bounded sketches
// are measured against, and its memory use grows linearly with the number
// of labels, which is exactly what they exist to avoid.
type perLabelHLL struct {
	sketches map[string]*hyperloglog.Sketch
}

var _ sketch.HeavyDistinctHitterSketch[string, string] = (*perLabelHLL)(nil)

func newPerLabelHLL() *perLabelHLL {
	return &perLabelHLL{
		sketches: make(map[string]*hyperloglog.Sketch),
	}
}

func (p *perLabelHLL) Insert(label, item string) {
	sk, ok := p.sketches[label]
	if !ok {
		sk = hyperloglog.New()
		p.sketches[label] = sk
	}
	sk.Insert([]byte(item))
}

func (p *perLabelHLL) Merge(other sketch.HeavyDistinctHitterSketch[string, string]) error {
	o, ok := other.(*perLabelHLL)
	if !ok {
		return errors.New("can only merge per-label baselines together")
	}
	for label, osk := range o.sketches {
		sk, exists := p.sketches[label]
		if !exists {
			sk = hyperloglog.New()
			p.sketches[label] = sk
		}
		if err := sk.Merge(osk); err != nil {
			return errors.Wrapf(err, "merging label %q", label)
		}
	}
	return nil
}

func (p *perLabelHLL) Clear() {
	clear(p.sketches)
}

func (p *perLabelHLL) Cardinality(label string) uint64 {
	sk, ok := p.sketches[label]
	if !ok {
		return 0
	}
	return sk.Estimate()
}

func (p *perLabelHLL) Top(k int) []sketch.LabelCount[string] {
	all := make([]sketch.LabelCount[string], 0, len(p.sketches))
	for label, sk := range p.sketches {
		all = append(all, sketch.LabelCount[string]{Label: label, Count: sk.Estimate()})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Count > all[j].Count })
	if k < len(all) {
		all = all[:k]
	}
	return all
}
