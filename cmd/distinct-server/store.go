// store.go implements the sharded in-memory store of named sketches.
//
// Sharding Strategy
// =================
//
// Sketch mutation is not safe for concurrent use, so the store serializes
// access per sketch by holding the owning shard's mutex for the duration of
// each operation. Names are partitioned across 16 independent shards by
// xxhash, so operations on unrelated sketches rarely contend. 16 is plenty:
// unlike a key-value workload, a sketch server typically hosts tens of
// sketches, not millions of keys.
//
// Cross-Shard Merges
// ==================
//
// DH.MERGE touches two sketches at once. To stay deadlock-free the store
// always acquires shard locks in ascending shard-index order, and takes the
// lock only once when both names land in the same shard.

package main

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/probkit/distinct/ssss"
)

const shardCount = 16

// sketchValue is the concrete sketch type the server stores. Labels and
// items arrive as protocol strings, so the generic parameters are fixed
// here at the network boundary.
type sketchValue = ssss.Sketch[string, string]

type storeShard struct {
	mu       sync.Mutex
	sketches map[string]*sketchValue
}

// Store holds the array of shards.
type Store struct {
	shards [shardCount]*storeShard
}

func NewStore() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i] = &storeShard{
			sketches: make(map[string]*sketchValue),
		}
	}
	return s
}

func (s *Store) shardIndex(name string) int {
	return int(xxhash.Sum64String(name) % shardCount)
}

// Create registers a new sketch under name. It reports false when the name
// is already taken, leaving the existing sketch untouched.
func (s *Store) Create(name string, sk *sketchValue) bool {
	shard := s.shards[s.shardIndex(name)]
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if _, exists := shard.sketches[name]; exists {
		return false
	}
	shard.sketches[name] = sk
	return true
}

// Do runs fn against the named sketch while holding its shard lock. It
// reports false, without calling fn, when the sketch does not exist.
func (s *Store) Do(name string, fn func(sk *sketchValue)) bool {
	shard := s.shards[s.shardIndex(name)]
	shard.mu.Lock()
	defer shard.mu.Unlock()

	sk, exists := shard.sketches[name]
	if !exists {
		return false
	}
	fn(sk)
	return true
}

// DoPair runs fn with both named sketches locked. Either boolean being
// false means the corresponding sketch does not exist and fn was not called.
func (s *Store) DoPair(first, second string, fn func(a, b *sketchValue)) (bool, bool) {
	i, j := s.shardIndex(first), s.shardIndex(second)

	if i == j {
		shard := s.shards[i]
		shard.mu.Lock()
		defer shard.mu.Unlock()

		a, okA := shard.sketches[first]
		b, okB := shard.sketches[second]
		if okA && okB {
			fn(a, b)
		}
		return okA, okB
	}

	// Lock in ascending shard order regardless of argument order.
	lo, hi := i, j
	if lo > hi {
		lo, hi = hi, lo
	}
	s.shards[lo].mu.Lock()
	defer s.shards[lo].mu.Unlock()
	s.shards[hi].mu.Lock()
	defer s.shards[hi].mu.Unlock()

	a, okA := s.shards[i].sketches[first]
	b, okB := s.shards[j].sketches[second]
	if okA && okB {
		fn(a, b)
	}
	return okA, okB
}
