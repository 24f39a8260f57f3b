// Package hashfunc provides key hash functions for incremental.HashTable.
//
// All functions are deterministic for the lifetime of the returned value, which is what the table requires: a key
// must land on the same probe sequence on every call.
package hashfunc

import (
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
	"github.com/dchest/siphash"
)

const polynomialBase = 31

// Polynomial is the classic string hash: sum of key[i] * 31^i with wrapping arithmetic. Keys made of the same
// letters in another order hash differently, but the distribution is poor for long keys.
func Polynomial(key string) uint64 {
	var h uint64
	p := uint64(1)
	for i := 0; i < len(key); i++ {
		h += uint64(key[i]) * p
		p *= polynomialBase
	}
	return h
}

// XXHash hashes the key with 64-bit xxHash.
func XXHash(key string) uint64 {
	return xxhash.Sum64String(key)
}

// SipHash returns a SipHash-2-4 function keyed with k0 and k1. Use it when keys come from untrusted input.
func SipHash(k0, k1 uint64) func(key string) uint64 {
	return func(key string) uint64 {
		return siphash.Hash(k0, k1, []byte(key))
	}
}

// Maphash returns a function hashing with runtime's maphash and the given seed. Seed is random per process if made
// by maphash.MakeSeed, so hashes are not stable across runs.
func Maphash(seed maphash.Seed) func(key string) uint64 {
	return func(key string) uint64 {
		return maphash.String(seed, key)
	}
}
