package arena

import (
	"fmt"
	"os"

	"github.com/joshuapare/arenakit/arena/region"
	"github.com/joshuapare/arenakit/internal/format"
	"github.com/joshuapare/arenakit/internal/sysalloc"
)

// Debug flag - set to true to enable verbose logging (compile-time toggle).
const debugAlloc = false

// Runtime debug flag for growth logging - controlled by ARENA_LOG_ALLOC env var.
var logAlloc = os.Getenv("ARENA_LOG_ALLOC") != ""

// maxRequest caps a single allocation. Handles store the requested length
// as an int32, so anything larger cannot be represented and must be
// rejected before a block is obtained.
const maxRequest = format.MaxRegionSize

// Arena is a segmented heap. It hands out fixed-size segments from the
// system allocator and places small allocations inside them; allocations
// over the large-object threshold bypass the segments entirely and get
// their own system block.
//
// An Arena is not safe for concurrent use.
type Arena struct {
	cfg  Config
	sys  sysalloc.Allocator
	rcfg *region.Config

	segments []*segment

	// cursor is the index of the segment that last satisfied an
	// allocation or absorbed a free. Probing starts here.
	cursor int

	fallbacks    map[int32][]byte
	nextFallback int32

	closed bool
	stats  Stats
}

// New builds an arena from cfg. A nil cfg means all defaults: 1 MiB
// segments, threshold at a quarter segment, 8-byte alignment, and the
// platform system allocator. No segment is created until the first
// small allocation arrives.
func New(cfg *Config) (*Arena, error) {
	full := cfg.withDefaults()
	if err := full.validate(); err != nil {
		return nil, err
	}
	return &Arena{
		cfg:          full,
		sys:          full.Sys,
		rcfg:         full.regionConfig(),
		fallbacks:    make(map[int32][]byte),
		nextFallback: 1,
	}, nil
}

// Allocate reserves n bytes and returns a handle for them. Requests over
// the large-object threshold go straight to the system allocator; the
// rest are placed inside a segment, creating one more segment if every
// existing segment refuses. The only failure surfaced for a well-formed
// request is ErrOutOfMemory.
func (a *Arena) Allocate(n int) (Handle, error) {
	if a.closed {
		return Handle{}, ErrClosed
	}
	if n < 0 || n > maxRequest {
		return Handle{}, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	a.stats.AllocCalls++

	if n > a.cfg.LargeThreshold {
		return a.allocFallback(n)
	}

	// Sticky cursor: the segment that worked last time is tried first,
	// then the rest in round-robin order.
	for i := range a.segments {
		idx := (a.cursor + i) % len(a.segments)
		a.stats.ProbeSteps++
		if off, ok := a.segments[idx].ra.Alloc(n); ok {
			a.cursor = idx
			a.stats.SegmentAllocs++
			a.stats.BytesAllocated += int64(n)
			return segmentHandle(idx, off, n), nil
		}
	}

	// Every segment refused: grow by exactly one segment and place
	// there. A fresh segment always fits a below-threshold request, so
	// a second failure means the system allocator itself is exhausted.
	seg, err := a.grow()
	if err != nil {
		return Handle{}, ErrOutOfMemory
	}
	idx := len(a.segments) - 1
	a.stats.ProbeSteps++
	off, ok := seg.ra.Alloc(n)
	if !ok {
		return Handle{}, ErrOutOfMemory
	}
	a.cursor = idx
	a.stats.SegmentAllocs++
	a.stats.BytesAllocated += int64(n)
	return segmentHandle(idx, off, n), nil
}

// Free releases the allocation behind h. Freeing inside a segment moves
// the cursor there, so the space just opened is the first place the next
// allocation looks.
func (a *Arena) Free(h Handle) error {
	if a.closed {
		return ErrClosed
	}
	if h.slot == 0 {
		return fmt.Errorf("%w: zero handle", ErrBadHandle)
	}

	if h.isFallback() {
		id := h.fallbackID()
		buf, ok := a.fallbacks[id]
		if !ok {
			return fmt.Errorf("%w: unknown fallback block %d", ErrBadHandle, id)
		}
		delete(a.fallbacks, id)
		if err := a.sys.Free(buf); err != nil {
			return err
		}
		a.stats.FreeCalls++
		a.stats.BytesFreed += int64(h.n)
		return nil
	}

	idx := h.segmentIndex()
	if idx >= len(a.segments) {
		return fmt.Errorf("%w: segment %d of %d", ErrBadHandle, idx, len(a.segments))
	}
	if err := a.segments[idx].ra.Free(int(h.off)); err != nil {
		return fmt.Errorf("%w: %v", ErrBadHandle, err)
	}
	a.cursor = idx
	a.stats.FreeCalls++
	a.stats.BytesFreed += int64(h.n)
	return nil
}

// Bytes returns the payload behind h, sized exactly as requested. It
// returns nil for handles the arena does not currently recognize. The
// slice aliases arena memory and dies with the allocation.
func (a *Arena) Bytes(h Handle) []byte {
	if a.closed || h.slot == 0 {
		return nil
	}
	if h.isFallback() {
		buf, ok := a.fallbacks[h.fallbackID()]
		if !ok {
			return nil
		}
		return buf[:h.n:h.n]
	}
	idx := h.segmentIndex()
	if idx >= len(a.segments) {
		return nil
	}
	p := a.segments[idx].ra.Payload(int(h.off))
	if p == nil {
		return nil
	}
	return p[:h.n:h.n]
}

// Close returns every segment and outstanding fallback block to the
// system allocator. All handles are dead afterwards. Close is
// idempotent; the first error encountered is returned but teardown
// continues past it.
func (a *Arena) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	var firstErr error
	for _, seg := range a.segments {
		if err := seg.release(a.sys); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.segments = nil
	for id, buf := range a.fallbacks {
		if err := a.sys.Free(buf); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(a.fallbacks, id)
	}
	return firstErr
}

// NumSegments returns how many segments the arena currently owns. The
// count never shrinks while the arena is open.
func (a *Arena) NumSegments() int { return len(a.segments) }

// Stats returns a copy of the cumulative counters.
func (a *Arena) Stats() Stats { return a.stats }

// Cursor returns the index of the segment probing starts at, for
// tooling. Meaningless until the first segment exists.
func (a *Arena) Cursor() int { return a.cursor }

// SegmentInfo snapshots every segment, in creation order.
func (a *Arena) SegmentInfo() []SegmentInfo {
	out := make([]SegmentInfo, len(a.segments))
	for i, seg := range a.segments {
		out[i] = SegmentInfo{
			Capacity:    seg.ra.Capacity(),
			FreeBytes:   seg.ra.FreeBytes(),
			LargestFree: seg.ra.LargestFree(),
			Region:      seg.ra.Stats(),
		}
	}
	return out
}

func (a *Arena) allocFallback(n int) (Handle, error) {
	buf, err := a.sys.Alloc(n)
	if err != nil {
		if debugAlloc {
			debugLogf("Allocate(%d): fallback denied: %v", n, err)
		}
		return Handle{}, ErrOutOfMemory
	}
	id := a.nextFallback
	a.nextFallback++
	a.fallbacks[id] = buf
	a.stats.FallbackAllocs++
	a.stats.BytesAllocated += int64(n)
	return fallbackHandle(id, n), nil
}

func (a *Arena) grow() (*segment, error) {
	if logAlloc {
		free := 0
		for _, seg := range a.segments {
			free += seg.ra.FreeBytes()
		}
		fmt.Fprintf(os.Stderr,
			"[ARENA] grow: segments=%d size=%d totalFree=%d\n",
			len(a.segments), a.cfg.SegmentSize, free)
	}
	seg, err := newSegment(a.sys, a.cfg.SegmentSize, a.rcfg)
	if err != nil {
		if debugAlloc {
			debugLogf("grow: segment %d denied: %v", len(a.segments), err)
		}
		return nil, err
	}
	a.segments = append(a.segments, seg)
	if len(a.segments) > 1 {
		a.stats.SegmentsGrown++
	}
	return seg, nil
}

// debugLogf prints debug messages if debugAlloc is enabled.
func debugLogf(format string, args ...any) {
	if debugAlloc {
		fmt.Fprintf(os.Stderr, "[ARENA] "+format+"\n", args...)
	}
}
