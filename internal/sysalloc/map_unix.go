//go:build unix

package sysalloc

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Map allocates blocks via anonymous private mappings.
type Map struct{}

// Alloc maps a zeroed anonymous region of n bytes. The kernel rounds the
// mapping up to page granularity internally; the returned slice is exactly
// n bytes long so Free can unmap it with the same length.
func (Map) Alloc(n int) ([]byte, error) {
	if n <= 0 {
		return nil, ErrBadSize
	}
	b, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("sysalloc: mmap %d bytes: %w", n, err)
	}
	return b, nil
}

// Free unmaps a block obtained from Alloc.
func (Map) Free(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	err := unix.Munmap(b)
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}

// Default returns the platform's preferred allocator.
func Default() Allocator { return Map{} }
