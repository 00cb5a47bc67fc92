package rpsttesting

import (
	"math/rand"
)

// KeyGenerator produces the x key for the next insert.
type KeyGenerator func(rng *rand.Rand) uint64

// UniformKeys draws x uniformly from [0, maxX].
func UniformKeys(maxX uint64) KeyGenerator {
	return func(rng *rand.Rand) uint64 {
		if maxX == ^uint64(0) {
			return rng.Uint64()
		}
		return rng.Uint64() % (maxX + 1)
	}
}

// ScaledKeys draws x with a random bit length, so small and large keys (and
// therefore repeated height growth) are both common.
func ScaledKeys() KeyGenerator {
	return func(rng *rand.Rand) uint64 {
		return rng.Uint64() >> uint(rng.Intn(64))
	}
}

// ClusteredKeys draws x from a fixed set, forcing chains of nodes that share
// an x below the trie depth.
func ClusteredKeys(xs ...uint64) KeyGenerator {
	if len(xs) == 0 {
		xs = []uint64{0}
	}
	return func(rng *rand.Rand) uint64 {
		return xs[rng.Intn(len(xs))]
	}
}

const (
	// SnowflakeTimeBits is the millisecond field width of a snowflake id. The
	// remaining low bits hold the worker id and sequence.
	SnowflakeTimeBits  = 40
	SnowflakeTimeShift = 64 - SnowflakeTimeBits
	snowflakeSeqMask   = uint64(1)<<SnowflakeTimeShift - 1
)

// SnowflakeKeys produces time ordered 64 bit ids (millisecond time in the top
// 40 bits, a sequence in the low 24) starting from startMS milliseconds since
// the epoch. Ids are strictly increasing, so they exercise the high bits and
// the full height of the tree.
func SnowflakeKeys(startMS uint64) KeyGenerator {
	ms := startMS & (uint64(1)<<SnowflakeTimeBits - 1)
	var seq uint64
	return func(rng *rand.Rand) uint64 {
		if step := uint64(rng.Intn(3)); step > 0 || seq == snowflakeSeqMask {
			if step == 0 {
				step = 1
			}
			ms += step
			seq = 0
		} else {
			seq++
		}
		return ms<<SnowflakeTimeShift | seq
	}
}

// SnowflakeSplit splits an id into its millisecond and sequence fields.
func SnowflakeSplit(id uint64) (ms uint64, seq uint32) {
	return id >> SnowflakeTimeShift, uint32(id & snowflakeSeqMask)
}
