package arena

import (
	"errors"

	"github.com/joshuapare/arenakit/internal/sysalloc"
)

// trackingAllocator wraps a real system allocator and records every block
// it hands out, so tests can assert that Close returns all of them.
type trackingAllocator struct {
	inner sysalloc.Allocator

	allocs int
	frees  int

	// live maps the first byte of each outstanding block to its size.
	live map[*byte]int
}

func newTrackingAllocator() *trackingAllocator {
	return &trackingAllocator{
		inner: sysalloc.Heap{},
		live:  make(map[*byte]int),
	}
}

func (ta *trackingAllocator) Alloc(n int) ([]byte, error) {
	buf, err := ta.inner.Alloc(n)
	if err != nil {
		return nil, err
	}
	ta.allocs++
	ta.live[&buf[0]] = n
	return buf, nil
}

func (ta *trackingAllocator) Free(b []byte) error {
	if len(b) == 0 {
		return errors.New("tracking: free of empty block")
	}
	if _, ok := ta.live[&b[0]]; !ok {
		return errors.New("tracking: free of unknown block")
	}
	delete(ta.live, &b[0])
	ta.frees++
	return ta.inner.Free(b)
}

func (ta *trackingAllocator) outstanding() int { return len(ta.live) }

// failingAllocator succeeds for the first failAfter blocks and then
// refuses everything, for driving the arena out of memory on demand.
type failingAllocator struct {
	inner     sysalloc.Allocator
	failAfter int
	allocs    int
}

var errInjected = errors.New("injected allocation failure")

func (fa *failingAllocator) Alloc(n int) ([]byte, error) {
	if fa.allocs >= fa.failAfter {
		return nil, errInjected
	}
	fa.allocs++
	return fa.inner.Alloc(n)
}

func (fa *failingAllocator) Free(b []byte) error { return fa.inner.Free(b) }

// shortAllocator honors Free but returns blocks far smaller than
// requested, so segment construction fails after storage was obtained.
type shortAllocator struct {
	inner *trackingAllocator
}

func (sa *shortAllocator) Alloc(int) ([]byte, error) { return sa.inner.Alloc(2) }

func (sa *shortAllocator) Free(b []byte) error { return sa.inner.Free(b) }

// smallConfig is the geometry most tests use so segment growth happens
// after a handful of allocations.
func smallConfig(sys sysalloc.Allocator) *Config {
	return &Config{
		SegmentSize:    1024,
		LargeThreshold: 256,
		Sys:            sys,
	}
}
