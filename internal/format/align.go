package format

// Alignment utilities for run sizes and offsets. Every run in a region
// starts on an alignment boundary and occupies a multiple of the alignment,
// so the payload following the 4-byte tag is aligned to at least MinAlign.

// AlignUp returns n aligned up to the next multiple of align.
// align must be a power of two.
//
// Example:
//
//	AlignUp(1, 8)  = 8
//	AlignUp(8, 8)  = 8
//	AlignUp(9, 8)  = 16
func AlignUp(n, align int) int {
	mask := align - 1
	return (n + mask) & ^mask
}

// AlignDown returns n aligned down to the previous multiple of align.
// align must be a power of two.
func AlignDown(n, align int) int {
	return n & ^(align - 1)
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
