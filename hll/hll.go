// Package hll implements a seeded, mergeable HyperLogLog sketch for
// cardinality estimation.
//
// The Algorithm
// =============
//
// HyperLogLog exploits a statistical property of uniformly distributed hash
// values: the probability of a hash having k trailing zeros is 2^-k, so the
// largest zero-run observed across a stream hints at how many distinct
// values went by. To reduce variance the hash space is partitioned into m
// registers; each register stores the maximum rank (trailing zeros + 1) of
// the items routed to it, and the final estimate is an alpha-corrected
// harmonic mean of 2^-register across all registers. For small cardinalities
// the harmonic estimate is biased, so the sketch falls back to linear
// counting over the number of still-zero registers.
//
// Incremental State
// =================
//
// Recomputing the harmonic sum on every Cardinality call would cost O(m).
// Instead the sketch maintains zInv (the running sum of 2^-register) and the
// count of zero registers incrementally on every register update, making
// Cardinality O(1). Merge recomputes both from scratch since every register
// may change.
//
// Seeding
// =======
//
// Register selection and rank derivation use two independently seeded
// xxHash64 functions. Seeds are part of the Config: two sketches hash an
// item identically if and only if their seeds match, which is why Merge
// insists on config equality.
package hll

import (
	"errors"
	"math"
	"math/bits"

	"github.com/probkit/distinct/internal/hashx"
	"github.com/probkit/distinct/sketch"
)

// ErrSketchMismatch is returned when merging sketches of different concrete
// types.
var ErrSketchMismatch = errors.New("hll: can only merge with another hll sketch")

// ErrConfigMismatch is returned when merging sketches whose registers or
// seeds differ; combining such registers is not well-defined.
var ErrConfigMismatch = errors.New("hll: sketch configs do not match")

// Sketch is a HyperLogLog cardinality estimator over items of type T.
type Sketch[T any] struct {
	config           *Config
	registers        []uint8
	numZeroRegisters int
	zInv             float64
}

var _ sketch.CardinalitySketch[string] = (*Sketch[string])(nil)

// New creates an empty sketch with the given config.
func New[T any](config *Config) *Sketch[T] {
	return &Sketch[T]{
		config:           config,
		registers:        make([]uint8, config.NumRegisters),
		numZeroRegisters: config.NumRegisters,
		zInv:             float64(config.NumRegisters),
	}
}

// Config returns the sketch's configuration.
func (h *Sketch[T]) Config() *Config {
	return h.config
}

// Insert adds an item to the sketch.
func (h *Sketch[T]) Insert(item T) {
	rank := uint8(bits.TrailingZeros64(hashx.Sum64(h.config.Seeds[1], item))) + 1
	index := int(hashx.Sum64(h.config.Seeds[0], item)) & (h.config.NumRegisters - 1)
	h.observe(index, rank)
}

// observe raises the register at index to rank if rank is larger, keeping
// the incremental state in sync.
func (h *Sketch[T]) observe(index int, rank uint8) {
	r := h.registers[index]
	if rank <= r {
		return
	}
	if r == 0 {
		h.numZeroRegisters--
	}
	h.zInv -= math.Pow(2, -float64(r))
	h.zInv += math.Pow(2, -float64(rank))
	h.registers[index] = rank
}

// Merge combines another sketch into this one by taking the register-wise
// maximum, which makes the result equivalent to a sketch built from the
// union of both input streams. The other sketch is not modified.
func (h *Sketch[T]) Merge(other sketch.CardinalitySketch[T]) error {
	o, ok := other.(*Sketch[T])
	if !ok {
		return ErrSketchMismatch
	}
	if !h.config.Equal(o.config) {
		return ErrConfigMismatch
	}

	h.numZeroRegisters = 0
	h.zInv = 0
	for i := range h.registers {
		if o.registers[i] > h.registers[i] {
			h.registers[i] = o.registers[i]
		}
		if h.registers[i] == 0 {
			h.numZeroRegisters++
		}
		h.zInv += math.Pow(2, -float64(h.registers[i]))
	}
	return nil
}

// Clear resets the sketch to its initial empty state.
func (h *Sketch[T]) Clear() {
	for i := range h.registers {
		h.registers[i] = 0
	}
	h.numZeroRegisters = h.config.NumRegisters
	h.zInv = float64(h.config.NumRegisters)
}

// Cardinality returns the estimated number of distinct items inserted.
func (h *Sketch[T]) Cardinality() uint64 {
	m := h.config.NumRegisters
	estimate := uint64(float64(m*m) * h.config.Alpha / h.zInv)

	// Small range correction: below (5/2)m the raw estimate is biased and
	// linear counting over the empty registers is more accurate.
	if estimate <= uint64(5*m/2) && h.numZeroRegisters > 0 {
		estimate = uint64(linearCounting(m, h.numZeroRegisters))
	}

	return estimate
}

// linearCounting estimates cardinality from the fraction of registers still
// unset: m * ln(m / zeroes).
func linearCounting(numRegisters, numZeroRegisters int) float64 {
	return float64(numRegisters) * math.Log(float64(numRegisters)/float64(numZeroRegisters))
}
