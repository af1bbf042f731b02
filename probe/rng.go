// Package probe - RNG utilities shared by all distributions.
//
// This file centralizes deterministic random generation.
//
// Goals:
//   - Determinism: same seed ⇒ identical probes across platforms.
//   - Encapsulation: a single RNG factory; no time-based sources hidden anywhere.
//   - Independence: every probe owns a stream derived from (seed, index).
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Streams are created per probe and
//     never shared.
package probe

import "math/rand"

// DefaultSeed is the fixed seed used when callers pass seed==0.
// The value is arbitrary but stable to keep reproducible defaults.
const DefaultSeed int64 = 1

// resolveSeed applies the seed==0 policy.
func resolveSeed(seed int64) int64 {
	if seed == 0 {
		return DefaultSeed
	}

	return seed
}

// deriveSeed mixes a parent seed and a stream identifier into a new 64-bit seed.
// SplitMix64 finalizer; small changes in inputs produce well-distributed outputs,
// so neighbouring probe indices give uncorrelated streams.
//
// Complexity: O(1).
func deriveSeed(parent int64, stream uint64) int64 {
	var x uint64
	x = uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// streamRNG returns the deterministic generator of probe index under seed.
//
// Complexity: O(1) (plus math/rand source seeding).
func streamRNG(seed int64, index int) *rand.Rand {
	return rand.New(rand.NewSource(deriveSeed(resolveSeed(seed), uint64(index))))
}
