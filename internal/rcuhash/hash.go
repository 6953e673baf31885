package rcuhash

import (
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// HashFunc maps a key to a 64-bit hash. Keys are hashed by the bytes of
// the key word itself, not by dereferencing through data: the table never
// looks at payload contents, and every key is a single uintptr, so there
// is no variable-length key path to hash differently.
type HashFunc func(key uintptr, seed uint64) uint64

// xxhashKey is the default HashFunc. It treats key as the address-sized
// word it is and feeds its raw bytes to xxhash, folding in seed so two
// tables built with different seeds do not bucket identical key sets
// identically.
func xxhashKey(key uintptr, seed uint64) uint64 {
	var buf [16]byte
	*(*uintptr)(unsafe.Pointer(&buf[0])) = key
	*(*uint64)(unsafe.Pointer(&buf[8])) = seed
	return xxhash.Sum64(buf[:])
}

// JenkinsOneAtATime is an alternate HashFunc implementing the classic
// Jenkins one-at-a-time hash over the key's raw bytes. It is provided for
// callers that want that exact hash distribution rather than xxhash's;
// New defaults to xxhashKey.
func JenkinsOneAtATime(key uintptr, seed uint64) uint64 {
	var buf [8]byte
	*(*uintptr)(unsafe.Pointer(&buf[0])) = key
	h := uint32(seed)
	for _, b := range buf {
		h += uint32(b)
		h += h << 10
		h ^= h >> 6
	}
	h += h << 3
	h ^= h >> 11
	h += h << 15
	return uint64(h)
}
