// Package sysalloc abstracts the process-level allocator behind an
// interface so the arena can be tested against bounded or failure-injecting
// substitutes instead of the real platform allocator.
//
// Two implementations are provided:
//
//   - Map: anonymous memory mappings on unix platforms, a plain Go
//     allocation elsewhere. Storage obtained here is invisible to the Go
//     garbage collector's heap accounting, which is what an engine
//     embedding the arena usually wants.
//   - Heap: Go-heap backed. Free is a no-op; the garbage collector
//     reclaims the block once nothing references it.
package sysalloc

import "errors"

// ErrBadSize indicates a non-positive block size was requested.
var ErrBadSize = errors.New("sysalloc: block size must be positive")

// Allocator hands out raw storage blocks. Alloc returns a zeroed block of
// exactly n bytes or an error; Free returns a block obtained from the same
// allocator. Implementations are safe for use from a single goroutine at a
// time, matching the arena's own discipline.
type Allocator interface {
	Alloc(n int) ([]byte, error)
	Free(b []byte) error
}

// Heap allocates from the Go heap.
type Heap struct{}

// Alloc returns a zeroed n-byte slice.
func (Heap) Alloc(n int) ([]byte, error) {
	if n <= 0 {
		return nil, ErrBadSize
	}
	return make([]byte, n), nil
}

// Free is a no-op; the garbage collector owns the block.
func (Heap) Free([]byte) error { return nil }
