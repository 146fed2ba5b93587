package region

import (
	"container/heap"
	"fmt"
	"sync"

	"github.com/joshuapare/arenakit/internal/format"
)

// Config controls one Allocator. The zero value (or a nil pointer) selects
// the defaults.
type Config struct {
	// Align is the run alignment. Must be a power of two, at least
	// format.MinAlign. 0 selects format.DefaultAlign.
	Align int

	// Classes selects the size class strategy. nil selects DefaultClasses.
	Classes *ClassConfig
}

// Stats holds internal allocator counters.
type Stats struct {
	AllocCalls       int   // total Alloc calls
	FreeCalls        int   // total Free calls
	Splits           int   // run splits on allocation
	CoalesceForward  int   // forward merges on free
	CoalesceBackward int   // backward merges on free
	HeapPushes       int   // heap.Push calls
	HeapRemoves      int   // heap.Pop/Remove calls
	BytesAllocated   int64 // total run bytes handed out (including tags)
	BytesFreed       int64 // total run bytes returned
}

// Allocator manages free space inside a single fixed-size storage block.
// It does not own the block; the caller supplies it at construction and
// keeps it alive for the Allocator's lifetime.
type Allocator struct {
	buf    []byte
	usable int // managed prefix of buf, multiple of align
	align  int
	minRun int // smallest representable run (tag + padding)

	table     *classTable
	lists     []runList
	largeFree *largeRun
	byOff     map[int]*freeRun // free run offset -> heap entry
	endIdx    map[int]int      // free run end offset -> start offset

	runPool   sync.Pool
	freeBytes int
	stats     Stats
}

// New builds an Allocator over buf and marks the whole region free.
func New(buf []byte, cfg *Config) (*Allocator, error) {
	align := format.DefaultAlign
	classes := DefaultClasses
	if cfg != nil {
		if cfg.Align != 0 {
			align = cfg.Align
		}
		if cfg.Classes != nil {
			classes = *cfg.Classes
		}
	}
	if !format.IsPowerOfTwo(align) || align < format.MinAlign {
		return nil, fmt.Errorf("region: alignment %d is not a power of two >= %d", align, format.MinAlign)
	}
	if len(buf) > format.MaxRegionSize {
		return nil, fmt.Errorf("region: buffer of %d bytes exceeds the %d limit", len(buf), format.MaxRegionSize)
	}

	minRun := format.AlignUp(format.RunHeaderSize, align)
	usable := format.AlignDown(len(buf), align)
	if usable < minRun {
		return nil, fmt.Errorf("region: buffer of %d bytes cannot hold a single %d-byte run", len(buf), minRun)
	}

	a := &Allocator{
		buf:    buf,
		usable: usable,
		align:  align,
		minRun: minRun,
		table:  newClassTable(classes),
		runPool: sync.Pool{
			New: func() any { return &freeRun{} },
		},
	}
	a.lists = make([]runList, a.table.numClasses())
	a.Reset()
	return a, nil
}

// Reset returns every byte of the region to a single free run. Must not be
// called while allocations are outstanding; any offsets previously handed
// out become invalid.
func (a *Allocator) Reset() {
	for i := range a.lists {
		a.lists[i] = runList{}
	}
	a.largeFree = nil
	a.byOff = make(map[int]*freeRun, 64)
	a.endIdx = make(map[int]int, 64)
	a.freeBytes = a.usable

	format.PutI32(a.buf, 0, int32(a.usable))
	a.indexFree(0, a.usable)
}

// Alloc reserves a run with at least n payload bytes and returns its
// offset. ok=false means no free run of sufficient size exists; the region
// is full for this size, which the caller resolves by trying elsewhere.
// A zero-size request succeeds and returns a distinct, valid offset.
func (a *Allocator) Alloc(n int) (off int, ok bool) {
	a.stats.AllocCalls++
	if n < 0 {
		return 0, false
	}
	// The tag occupies the first alignment unit of the run, so payloads
	// start on an alignment boundary of their own.
	need := format.AlignUp(n+a.align, a.align)
	if need > a.usable {
		return 0, false
	}

	var run *freeRun
	for c := a.table.classFor(need); c < len(a.lists); c++ {
		if run = a.allocFromClass(c, need); run != nil {
			break
		}
	}
	if run == nil {
		run = a.allocFromLarge(need)
	}
	if run == nil {
		return 0, false
	}

	off, size := run.off, run.size
	a.putRun(run)

	if rem := size - need; rem >= a.minRun {
		// Split: hand out the head, index the tail as free.
		a.stats.Splits++
		format.PutI32(a.buf, off, int32(-need))
		format.PutI32(a.buf, off+need, int32(rem))
		a.indexFree(off+need, rem)
	} else {
		// Absorb the remainder rather than leave an unusable sliver.
		format.PutI32(a.buf, off, int32(-size))
		need = size
	}

	a.freeBytes -= need
	a.stats.BytesAllocated += int64(need)
	return off, true
}

// Free marks the run at off free again and merges it with free neighbors
// in both directions.
func (a *Allocator) Free(off int) error {
	a.stats.FreeCalls++
	if off < 0 || off%a.align != 0 || off+format.RunHeaderSize > a.usable {
		return ErrBadOffset
	}
	size := int(format.ReadI32(a.buf, off))
	if size >= 0 {
		return ErrNotAllocated
	}
	size = -size
	if size < a.minRun || size%a.align != 0 || off+size > a.usable {
		return ErrBadOffset
	}

	format.PutI32(a.buf, off, int32(size))
	a.freeBytes += size
	a.stats.BytesFreed += int64(size)

	// Merge with the right-hand neighbor.
	if next := off + size; next < a.usable {
		if nextSize := int(format.ReadI32(a.buf, next)); nextSize > 0 {
			a.stats.CoalesceForward++
			a.removeFree(next, nextSize)
			size += nextSize
			format.PutI32(a.buf, off, int32(size))
		}
	}

	// Merge with the left-hand neighbor, found in O(1) via the end index.
	if prev, exists := a.endIdx[off]; exists {
		if prevSize := int(format.ReadI32(a.buf, prev)); prevSize > 0 && prev+prevSize == off {
			a.stats.CoalesceBackward++
			a.removeFree(prev, prevSize)
			size += prevSize
			off = prev
			format.PutI32(a.buf, off, int32(size))
		}
	}

	a.indexFree(off, size)
	return nil
}

// Payload returns the usable bytes of the allocated run at off, or nil if
// the offset does not name an allocated run.
func (a *Allocator) Payload(off int) []byte {
	if off < 0 || off%a.align != 0 || off+format.RunHeaderSize > a.usable {
		return nil
	}
	size := int(format.ReadI32(a.buf, off))
	if size >= 0 {
		return nil
	}
	size = -size
	if off+size > a.usable {
		return nil
	}
	end := off + size
	return a.buf[off+a.align : end : end]
}

// Capacity returns the number of managed bytes in the region.
func (a *Allocator) Capacity() int { return a.usable }

// FreeBytes returns the total size of all free runs, tags included.
func (a *Allocator) FreeBytes() int { return a.freeBytes }

// LargestFree returns the size of the largest free run. O(free runs).
func (a *Allocator) LargestFree() int {
	largest := 0
	for i := range a.lists {
		for _, run := range a.lists[i].heap {
			if run.size > largest {
				largest = run.size
			}
		}
	}
	for cur := a.largeFree; cur != nil; cur = cur.next {
		if cur.size > largest {
			largest = cur.size
		}
	}
	return largest
}

// Stats returns a snapshot of the allocator counters.
func (a *Allocator) Stats() Stats { return a.stats }

// Validate walks the run structure and checks that runs tile the region,
// that no two free runs are adjacent, and that the free-byte accounting
// and offset indexes agree with the tags. Intended for tests and
// diagnostics; cost is linear in the number of runs.
func (a *Allocator) Validate() error {
	off, freeTotal := 0, 0
	prevFree := false
	for off < a.usable {
		size := int(format.ReadI32(a.buf, off))
		isFree := size > 0
		if size < 0 {
			size = -size
		}
		if size < a.minRun || size%a.align != 0 || off+size > a.usable {
			return fmt.Errorf("%w: run at %d has size %d", ErrCorrupt, off, size)
		}
		if isFree {
			if prevFree {
				return fmt.Errorf("%w: adjacent free runs at %d", ErrCorrupt, off)
			}
			if start, exists := a.endIdx[off+size]; !exists || start != off {
				return fmt.Errorf("%w: free run at %d missing from end index", ErrCorrupt, off)
			}
			freeTotal += size
		}
		prevFree = isFree
		off += size
	}
	if off != a.usable {
		return fmt.Errorf("%w: runs cover %d of %d bytes", ErrCorrupt, off, a.usable)
	}
	if freeTotal != a.freeBytes {
		return fmt.Errorf("%w: tagged free bytes %d, tracked %d", ErrCorrupt, freeTotal, a.freeBytes)
	}
	return nil
}

// ============================================================================
// Internal helpers
// ============================================================================

// allocFromClass takes a run of at least need bytes from one size class.
//
// Fast path: the min-heap guarantees heap[0] is the smallest run in the
// class, so if it fits it is the best fit. Slow path: heap[0] is too small
// but larger runs in the class may fit; a bounded good-enough scan keeps
// the operation O(1) amortized at the cost of a little fragmentation.
func (a *Allocator) allocFromClass(class, need int) *freeRun {
	list := &a.lists[class]
	if list.heap.Len() == 0 {
		return nil
	}

	if list.heap[0].size >= need {
		a.stats.HeapRemoves++
		run := heap.Pop(&list.heap).(*freeRun) //nolint:errcheck // heap contains only *freeRun
		list.count--
		a.unindexFree(run.off, run.size)
		return run
	}

	const (
		maxScan      = 32 // never scan more than this many runs
		fitTolerance = 64 // accept runs within this many bytes of optimal
	)

	bestIdx := -1
	bestSize := int(^uint(0) >> 1)
	limit := min(list.heap.Len(), maxScan)
	for i := 1; i < limit; i++ {
		size := list.heap[i].size
		if size < need {
			continue
		}
		if size <= need+fitTolerance {
			bestIdx = i
			break
		}
		if size < bestSize {
			bestIdx, bestSize = i, size
		}
	}
	if bestIdx == -1 {
		return nil
	}

	a.stats.HeapRemoves++
	run := heap.Remove(&list.heap, bestIdx).(*freeRun) //nolint:errcheck // heap contains only *freeRun
	list.count--
	a.unindexFree(run.off, run.size)
	return run
}

// allocFromLarge takes the first large run that fits.
func (a *Allocator) allocFromLarge(need int) *freeRun {
	var prev *largeRun
	for cur := a.largeFree; cur != nil; cur = cur.next {
		if cur.size >= need {
			if prev == nil {
				a.largeFree = cur.next
			} else {
				prev.next = cur.next
			}
			delete(a.endIdx, cur.off+cur.size)
			run := a.getRun()
			run.off, run.size = cur.off, cur.size
			return run
		}
		prev = cur
	}
	return nil
}

// indexFree records a free run in the class heap (or large list) and the
// coalescing index.
func (a *Allocator) indexFree(off, size int) {
	if class := a.table.classFor(size); class < len(a.lists) {
		run := a.getRun()
		run.off, run.size, run.class = off, size, class
		a.stats.HeapPushes++
		heap.Push(&a.lists[class].heap, run)
		a.lists[class].count++
		a.byOff[off] = run
	} else {
		a.largeFree = &largeRun{off: off, size: size, next: a.largeFree}
	}
	a.endIdx[off+size] = off
}

// removeFree drops a free run from whichever structure holds it.
func (a *Allocator) removeFree(off, size int) {
	if class := a.table.classFor(size); class < len(a.lists) {
		run := a.byOff[off]
		if run == nil {
			return
		}
		a.stats.HeapRemoves++
		heap.Remove(&a.lists[class].heap, run.heapIndex)
		a.lists[class].count--
		a.unindexFree(off, size)
		a.putRun(run)
		return
	}

	delete(a.endIdx, off+size)
	var prev *largeRun
	for cur := a.largeFree; cur != nil; cur = cur.next {
		if cur.off == off {
			if prev == nil {
				a.largeFree = cur.next
			} else {
				prev.next = cur.next
			}
			return
		}
		prev = cur
	}
}

// unindexFree removes a run from the offset maps.
func (a *Allocator) unindexFree(off, size int) {
	delete(a.byOff, off)
	delete(a.endIdx, off+size)
}

func (a *Allocator) getRun() *freeRun {
	return a.runPool.Get().(*freeRun) //nolint:errcheck // pool contains only *freeRun
}

func (a *Allocator) putRun(run *freeRun) {
	run.off, run.size, run.class, run.heapIndex = 0, 0, 0, -1
	a.runPool.Put(run)
}
