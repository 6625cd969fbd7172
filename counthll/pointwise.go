// Package counthll implements CountHLL, an invertible cardinality estimator
// for streams of (label, item) pairs.
//
// Layout
// ======
//
// The estimator is a depth x width plane of byte registers. Each label is
// assigned one column per row (a seeded hash of the row number and the
// label), so a label's "signal" is a set of depth registers scattered across
// the plane, while every other register forms its "background". Inserting an
// item updates exactly one of the label's signal registers, chosen by a
// seeded hash of the (item, label) pair, with the item's rank (trailing
// zeros of a second hash, plus one). Cardinality per label is then the usual
// alpha-corrected harmonic estimate over that label's signal registers,
// exactly as HyperLogLog computes it over its register array.
//
// Inversion
// =========
//
// The plane alone cannot answer "which labels are heavy" because register
// indices are not reversible into labels. That is the job of the label
// keeper (package labels): the sketch forwards every (label, register index)
// pair it derives to its keeper, and Top replays the keeper's recorded
// labels through the per-label estimator. The keeper strategy — exact set or
// bounded slot array — is chosen at construction and decides the memory/
// fidelity trade-off of inversion, not of estimation.
package counthll

import (
	"errors"
	"math"
	"math/bits"

	"github.com/probkit/distinct/internal/hashx"
)

// ErrConfigMismatch is returned when merging planes whose dimensions or
// seeds differ; combining such registers is not well-defined.
var ErrConfigMismatch = errors.New("counthll: sketch configs do not match")

// Pointwise is the bare register plane: it can estimate the cardinality of
// any single label's set but keeps no record of which labels it has seen.
type Pointwise[L comparable, T any] struct {
	config    *Config
	registers []uint8
}

// NewPointwise creates an empty register plane.
func NewPointwise[L comparable, T any](config *Config) *Pointwise[L, T] {
	return &Pointwise[L, T]{
		config:    config,
		registers: make([]uint8, config.Size()),
	}
}

// Config returns the plane's configuration.
func (p *Pointwise[L, T]) Config() *Config {
	return p.config
}

// Index returns the register index the (label, item) pair maps to: row from
// a hash of the pair, column from a hash of (row, label).
func (p *Pointwise[L, T]) Index(label L, item T) int {
	r := int(hashx.Sum64Pair(p.config.Seeds[0], item, label)) & (p.config.Depth - 1)
	b := int(hashx.Sum64Pair(p.config.Seeds[2], r, label) % uint64(p.config.Width))
	return r + b<<p.config.depthLog2
}

// rank returns the item's register value: trailing zeros of a seeded hash,
// plus one.
func (p *Pointwise[L, T]) rank(label L, item T) uint8 {
	return uint8(bits.TrailingZeros64(hashx.Sum64Pair(p.config.Seeds[1], item, label))) + 1
}

// Insert adds an item to the label's set.
func (p *Pointwise[L, T]) Insert(label L, item T) {
	z := p.rank(label, item)
	index := p.Index(label, item)
	if z > p.registers[index] {
		p.registers[index] = z
	}
}

// Merge combines another plane into this one by register-wise maximum. The
// other plane is not modified.
func (p *Pointwise[L, T]) Merge(other *Pointwise[L, T]) error {
	if !p.config.equal(other.config) {
		return ErrConfigMismatch
	}
	for i, o := range other.registers {
		if o > p.registers[i] {
			p.registers[i] = o
		}
	}
	return nil
}

// Clear resets every register.
func (p *Pointwise[L, T]) Clear() {
	for i := range p.registers {
		p.registers[i] = 0
	}
}

// Cardinality estimates the number of distinct items inserted under the
// given label, from the alpha-corrected harmonic mean of the label's signal
// registers. Estimates for labels with small sets are dominated by the
// estimator's intrinsic bias; the plane applies no small-range correction,
// so its useful range starts around the depth.
func (p *Pointwise[L, T]) Cardinality(label L) uint64 {
	d := p.config.Depth
	zInv := 0.0
	for r := 0; r < d; r++ {
		b := int(hashx.Sum64Pair(p.config.Seeds[2], r, label) % uint64(p.config.Width))
		zInv += math.Pow(2, -float64(p.registers[r+b<<p.config.depthLog2]))
	}
	return uint64(float64(d*d) * p.config.alpha / zInv)
}
