//go:build !unix

package sysalloc

// Map falls back to Go-heap allocation where anonymous mappings are not
// available.
type Map struct{}

// Alloc returns a zeroed n-byte slice.
func (Map) Alloc(n int) ([]byte, error) {
	if n <= 0 {
		return nil, ErrBadSize
	}
	return make([]byte, n), nil
}

// Free is a no-op on this platform.
func (Map) Free([]byte) error { return nil }

// Default returns the platform's preferred allocator.
func Default() Allocator { return Heap{} }
