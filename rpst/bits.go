package rpst

import "math/bits"

// HeightToMaxX returns the largest x addressable by a tree of the given height.
func HeightToMaxX(height uint8) uint64 {
	if height >= MaxHeight {
		return ^uint64(0)
	}
	return (uint64(1) << (height + 1)) - 1
}

// HeightForX returns the smallest height whose range covers x.
func HeightForX(x uint64) uint8 {
	if x <= 1 {
		return 0
	}
	return uint8(bits.Len64(x) - 1)
}

// levelMask returns the bit tested at level for a tree of the given height.
// Levels below the trie depth test no bit at all.
func levelMask(height uint8, level int) uint64 {
	if level < 0 || level > int(height) {
		return 0
	}
	return uint64(1) << (int(height) - level)
}

// prefixMask returns the bits of x fixed by the path to a node whose level
// tests mask. For mask == 0 every addressable bit is fixed.
func prefixMask(height uint8, mask uint64) uint64 {
	domain := HeightToMaxX(height)
	if mask == 0 {
		return domain
	}
	return domain &^ ((mask << 1) - 1)
}

// bitIndex is the child index x descends into at mask.
func bitIndex(x, mask uint64) int {
	if x&mask != 0 {
		return 1
	}
	return 0
}
