// Package hashx provides the seeded hashing used by every sketch in this
// module.
//
// xxHash64 has no native seed parameter in the v2 API, so seeding is done by
// feeding the seed into the digest ahead of the value bytes. Two digests with
// different seeds therefore behave as independent hash functions over the
// same input, which is all the sketches need: they never require
// cryptographic strength, only speed and good dispersion.
//
// Values of arbitrary type are fed to the digest through their fmt "%v"
// rendering. That costs a formatting pass per hash but keeps every sketch
// generic over labels and items without forcing callers to pre-serialize.
// Callers on a hot path with []byte or string data can hash those directly;
// the Sum64 fast paths below avoid the fmt machinery for them.
package hashx

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// RandomSeeds returns n seeds drawn from the system CSPRNG. Sketches that are
// never merged across processes can use random seeds; sketches that must
// merge need identical seeds on both sides.
func RandomSeeds(n int) []uint64 {
	buf := make([]byte, 8*n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = binary.LittleEndian.Uint64(buf[8*i:])
	}
	return seeds
}

// Sum64 returns the seeded xxHash64 digest of v.
func Sum64[T any](seed uint64, v T) uint64 {
	d := seeded(seed)
	writeValue(d, v)
	return d.Sum64()
}

// Sum64Pair returns the seeded xxHash64 digest of the pair (a, b). The two
// values are length-separated so that ("ab", "c") and ("a", "bc") produce
// different digests.
func Sum64Pair[A, B any](seed uint64, a A, b B) uint64 {
	d := seeded(seed)
	n := writeValue(d, a)
	var sep [8]byte
	binary.LittleEndian.PutUint64(sep[:], uint64(n))
	_, _ = d.Write(sep[:])
	writeValue(d, b)
	return d.Sum64()
}

func seeded(seed uint64) *xxhash.Digest {
	d := xxhash.New()
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], seed)
	_, _ = d.Write(b[:])
	return d
}

func writeValue(d *xxhash.Digest, v any) int {
	switch x := v.(type) {
	case []byte:
		n, _ := d.Write(x)
		return n
	case string:
		n, _ := d.WriteString(x)
		return n
	default:
		n, _ := fmt.Fprintf(d, "%v", v)
		return n
	}
}
