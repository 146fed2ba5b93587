package region

// freeRun represents one free run in the segregated index.
// Used in min-heaps for O(log n) allocation and removal.
type freeRun struct {
	off       int // run offset (tag position)
	size      int // run size including tag
	class     int // size class (which heap this belongs to)
	heapIndex int // position in heap (for heap.Remove)
}

// runHeap implements heap.Interface as a min-heap keyed on run size.
// The smallest run sits at the top, giving best-fit allocation.
type runHeap []*freeRun

func (h *runHeap) Len() int { return len(*h) }

func (h *runHeap) Less(i, j int) bool {
	return (*h)[i].size < (*h)[j].size
}

func (h *runHeap) Swap(i, j int) {
	(*h)[i], (*h)[j] = (*h)[j], (*h)[i]
	(*h)[i].heapIndex = i
	(*h)[j].heapIndex = j
}

func (h *runHeap) Push(x any) {
	run := x.(*freeRun) //nolint:errcheck // heap.Interface contract guarantees type
	run.heapIndex = len(*h)
	*h = append(*h, run)
}

func (h *runHeap) Pop() any {
	old := *h
	n := len(old)
	run := old[n-1]
	run.heapIndex = -1
	*h = old[0 : n-1]
	return run
}

// runList is a size-class-specific free list backed by a min-heap.
type runList struct {
	heap  runHeap
	count int
}

// largeRun holds a free run at or above the large threshold. Large runs
// are rare (a fresh region is one), so a linked list walk is fine.
type largeRun struct {
	off  int
	size int
	next *largeRun
}
