package store

import (
	"hash/crc32"

	"github.com/cespare/xxhash/v2"
)

// HashFunc computes a 32-bit hash over the full byte content of a key.
// Implementations must be deterministic; distribution quality only affects
// chain lengths, never correctness.
type HashFunc func([]byte) uint32

// CRC32Hash is the default bucket hash, using the IEEE polynomial.
func CRC32Hash(b []byte) uint32 {
	return crc32.ChecksumIEEE(b)
}

// XXHash is an alternative bucket hash built on xxhash64, truncated to
// 32 bits.
func XXHash(b []byte) uint32 {
	return uint32(xxhash.Sum64(b))
}
