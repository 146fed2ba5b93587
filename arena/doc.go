// Package arena provides a segmented fixed-region memory allocator for
// engines that allocate and free many small, short-lived objects with
// predictable latency.
//
// # Overview
//
// An Arena owns an ordered, growable collection of segments. Each segment
// is one fixed-size storage block obtained from an injected system
// allocator, managed by a region allocator (see arena/region). Requests at
// or below the large-object threshold are placed inside segments; larger
// requests go straight to the system allocator so they cannot shred
// segment space.
//
// # Placement policy
//
// Segment probing is round-robin with a sticky cursor: a search starts at
// the segment that satisfied the previous request (or the one that most
// recently had something freed into it) and wraps past the end at most
// once. When every segment is full, exactly one new segment is created.
// This is an approximation of best-fit-by-recency: O(1) amortized
// placement without rescanning long-full early segments on every call,
// while still revisiting segments as they regain space.
//
// Segments are never destroyed while the Arena is alive, even when they
// become entirely free - retained segments preserve locality for the
// allocations that follow. Close releases every segment and any
// outstanding fallback blocks back to the system allocator.
//
// # Handles
//
//	h, err := a.Allocate(64)
//	if err != nil {
//	    return err
//	}
//	buf := a.Bytes(h) // 64 usable bytes
//	...
//	err = a.Free(h)
//
// A Handle is an opaque capability: it routes a Free back to the owning
// segment (or the fallback path) without the caller tracking which. It
// carries no ownership; present it back to Free exactly once.
//
// # Errors
//
// ErrOutOfMemory is the only failure surfaced for resource exhaustion,
// and only when the system allocator itself fails. A full segment is an
// internal negotiation signal, resolved by probing or growth, and never
// reaches the caller.
//
// An Arena is not goroutine-safe. Serialize access externally, or give
// each worker its own instance.
package arena
