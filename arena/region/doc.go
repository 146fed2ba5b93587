// Package region provides free-space management inside a single fixed-size
// storage block.
//
// # Overview
//
// An Allocator is a non-owning view over one caller-supplied byte buffer.
// The buffer is carved into runs. Each run starts with a boundary tag
// holding the run's size as a little-endian int32: positive while free,
// negative while allocated. The tag occupies the run's first alignment
// unit, so payloads start on an alignment boundary of their own. Runs tile
// the buffer exactly, so the allocator can always walk from run to run and
// the tag of the right-hand neighbor is one addition away.
//
// # Free-space index
//
// Free runs are indexed three ways, following a segregated-fit design:
//
//   - Per-size-class min-heaps give best-fit allocation in O(log n).
//     Class boundaries grow linearly for small sizes and geometrically
//     above that (see ClassConfig).
//   - Runs at or above the large threshold live on a simple linked list.
//   - Offset maps (byOff, endIdx) make both coalescing directions O(1)
//     on free.
//
// # Contract
//
// Alloc reports failure by returning ok=false, never by an error: a full
// region is a normal negotiation signal for the caller, not a fault.
// Free returns an error only for detectable contract violations (offset
// out of range, misaligned, run not currently allocated). Zero-size
// allocations succeed and return a distinct offset whose payload is empty.
//
// The package is not goroutine-safe. Concurrent access to one Allocator
// must be serialized by the caller.
package region
