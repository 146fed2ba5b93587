package arena

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/arenakit/internal/format"
	"github.com/joshuapare/arenakit/internal/sysalloc"
)

func Test_New_DefaultsApplied(t *testing.T) {
	a, err := New(nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, DefaultSegmentSize, a.cfg.SegmentSize)
	assert.Equal(t, DefaultSegmentSize/4, a.cfg.LargeThreshold)
	assert.Equal(t, format.DefaultAlign, a.cfg.Align)
	assert.NotNil(t, a.sys)

	// Construction is lazy: no segment until a small allocation needs one.
	assert.Equal(t, 0, a.NumSegments())
}

func Test_New_RejectsBadGeometry(t *testing.T) {
	// Threshold so close to the segment size that no run can hold it.
	_, err := New(&Config{SegmentSize: 1024, LargeThreshold: 1024})
	require.Error(t, err)

	_, err = New(&Config{SegmentSize: 1024, Align: 3})
	require.Error(t, err)

	_, err = New(&Config{SegmentSize: 1024, Align: 2})
	require.Error(t, err)

	// Segments beyond the region limit must fail at construction, not as
	// a misleading out-of-memory on the first small allocation.
	tooBig := format.MaxRegionSize
	tooBig++
	_, err = New(&Config{SegmentSize: tooBig})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrOutOfMemory)
}

func Test_Allocate_SmallGoesToSegment(t *testing.T) {
	ta := newTrackingAllocator()
	a, err := New(smallConfig(ta))
	require.NoError(t, err)
	defer a.Close()

	h, err := a.Allocate(64)
	require.NoError(t, err)
	require.True(t, h.Valid())
	assert.False(t, h.isFallback())

	assert.Equal(t, 1, a.NumSegments())
	assert.Equal(t, 1, ta.allocs, "one segment block from the system allocator")

	st := a.Stats()
	assert.Equal(t, 1, st.SegmentAllocs)
	assert.Equal(t, 0, st.FallbackAllocs)
}

func Test_Allocate_LargeGoesToFallback(t *testing.T) {
	ta := newTrackingAllocator()
	a, err := New(smallConfig(ta))
	require.NoError(t, err)
	defer a.Close()

	// Just over the threshold routes around the segments.
	h, err := a.Allocate(257)
	require.NoError(t, err)
	require.True(t, h.isFallback())
	assert.Equal(t, 0, a.NumSegments())

	// Exactly at the threshold still uses a segment.
	h2, err := a.Allocate(256)
	require.NoError(t, err)
	assert.False(t, h2.isFallback())
	assert.Equal(t, 1, a.NumSegments())

	st := a.Stats()
	assert.Equal(t, 1, st.FallbackAllocs)
	assert.Equal(t, 1, st.SegmentAllocs)
}

func Test_Allocate_NegativeSizeRejected(t *testing.T) {
	a, err := New(smallConfig(sysalloc.Heap{}))
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Allocate(-1)
	require.ErrorIs(t, err, ErrBadSize)
}

func Test_Allocate_UnrepresentableSizeRejected(t *testing.T) {
	ta := newTrackingAllocator()
	a, err := New(smallConfig(ta))
	require.NoError(t, err)
	defer a.Close()

	// Handles record the requested length as an int32; a request beyond
	// that must be refused before any storage is obtained, not issued as
	// a handle that blows up on dereference.
	huge := math.MaxInt32
	huge++
	h, err := a.Allocate(huge)
	require.ErrorIs(t, err, ErrBadSize)
	assert.False(t, h.Valid())
	assert.Nil(t, a.Bytes(h))
	assert.Equal(t, 0, ta.allocs, "no block requested from the system allocator")
	assert.Equal(t, 0, a.Stats().FallbackAllocs)
}

func Test_Allocate_ZeroSize(t *testing.T) {
	a, err := New(smallConfig(sysalloc.Heap{}))
	require.NoError(t, err)
	defer a.Close()

	h1, err := a.Allocate(0)
	require.NoError(t, err)
	h2, err := a.Allocate(0)
	require.NoError(t, err)

	require.True(t, h1.Valid())
	require.True(t, h2.Valid())
	assert.NotEqual(t, h1, h2, "zero-size allocations are distinct")

	require.NoError(t, a.Free(h1))
	require.NoError(t, a.Free(h2))
}

func Test_Bytes_ExactRequestedLength(t *testing.T) {
	a, err := New(smallConfig(sysalloc.Heap{}))
	require.NoError(t, err)
	defer a.Close()

	h, err := a.Allocate(50)
	require.NoError(t, err)
	b := a.Bytes(h)
	require.NotNil(t, b)
	assert.Len(t, b, 50)
	assert.Equal(t, 50, cap(b), "no spare capacity beyond the request")

	big, err := a.Allocate(300)
	require.NoError(t, err)
	assert.Len(t, a.Bytes(big), 300)
}

func Test_Bytes_DeadHandleReturnsNil(t *testing.T) {
	a, err := New(smallConfig(sysalloc.Heap{}))
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Bytes(Handle{}))

	h, err := a.Allocate(32)
	require.NoError(t, err)
	require.NoError(t, a.Free(h))
	assert.Nil(t, a.Bytes(h))

	fb, err := a.Allocate(300)
	require.NoError(t, err)
	require.NoError(t, a.Free(fb))
	assert.Nil(t, a.Bytes(fb))
}

func Test_Free_RejectsBadHandles(t *testing.T) {
	a, err := New(smallConfig(sysalloc.Heap{}))
	require.NoError(t, err)
	defer a.Close()

	require.ErrorIs(t, a.Free(Handle{}), ErrBadHandle)

	// Segment index the arena has never created.
	require.ErrorIs(t, a.Free(Handle{slot: 5, off: 0, n: 8}), ErrBadHandle)

	// Plausible segment but an offset that is not an allocated run.
	h, err := a.Allocate(32)
	require.NoError(t, err)
	require.ErrorIs(t, a.Free(Handle{slot: 1, off: h.off + 4, n: 8}), ErrBadHandle)

	// Double free of a fallback block.
	fb, err := a.Allocate(300)
	require.NoError(t, err)
	require.NoError(t, a.Free(fb))
	require.ErrorIs(t, a.Free(fb), ErrBadHandle)

	// Double free inside a segment.
	require.NoError(t, a.Free(h))
	require.ErrorIs(t, a.Free(h), ErrBadHandle)
}

func Test_Allocate_GrowsOneSegmentAtATime(t *testing.T) {
	ta := newTrackingAllocator()
	a, err := New(smallConfig(ta))
	require.NoError(t, err)
	defer a.Close()

	// 200-byte requests occupy one 208-byte run each, so four fit per
	// 1024-byte segment.
	for i := 0; i < 4; i++ {
		_, err := a.Allocate(200)
		require.NoError(t, err)
	}
	require.Equal(t, 1, a.NumSegments())

	_, err = a.Allocate(200)
	require.NoError(t, err)
	require.Equal(t, 2, a.NumSegments())

	for i := 0; i < 3; i++ {
		_, err := a.Allocate(200)
		require.NoError(t, err)
	}
	require.Equal(t, 2, a.NumSegments())

	_, err = a.Allocate(200)
	require.NoError(t, err)
	require.Equal(t, 3, a.NumSegments())

	assert.Equal(t, 2, a.Stats().SegmentsGrown)
}

func Test_Allocate_OutOfMemorySurfaced(t *testing.T) {
	fa := &failingAllocator{inner: sysalloc.Heap{}, failAfter: 1}
	a, err := New(smallConfig(fa))
	require.NoError(t, err)
	defer a.Close()

	// First segment comes from the one permitted block.
	for i := 0; i < 4; i++ {
		_, err := a.Allocate(200)
		require.NoError(t, err)
	}

	// Growth needs a second block and the allocator refuses.
	_, err = a.Allocate(200)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, 1, a.NumSegments())

	// Fallback requests hit the same wall.
	_, err = a.Allocate(300)
	require.ErrorIs(t, err, ErrOutOfMemory)
}

func Test_Allocate_ShortSegmentStorageReleased(t *testing.T) {
	sa := &shortAllocator{inner: newTrackingAllocator()}
	a, err := New(smallConfig(sa))
	require.NoError(t, err)
	defer a.Close()

	// Segment construction gets a block too small to hold a single run;
	// the block must go back to the system allocator, not leak.
	_, err = a.Allocate(64)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, 0, a.NumSegments())
	assert.Equal(t, 1, sa.inner.allocs)
	assert.Equal(t, 0, sa.inner.outstanding(), "short block returned on the error path")
}

func Test_Free_ReopensSegmentSpace(t *testing.T) {
	a, err := New(smallConfig(sysalloc.Heap{}))
	require.NoError(t, err)
	defer a.Close()

	handles := make([]Handle, 0, 4)
	for i := 0; i < 4; i++ {
		h, err := a.Allocate(200)
		require.NoError(t, err)
		handles = append(handles, h)
	}
	require.Equal(t, 1, a.NumSegments())

	require.NoError(t, a.Free(handles[2]))

	// The freed run is reused instead of growing a second segment.
	_, err = a.Allocate(200)
	require.NoError(t, err)
	assert.Equal(t, 1, a.NumSegments())
}

func Test_SegmentCount_NeverShrinks(t *testing.T) {
	a, err := New(smallConfig(sysalloc.Heap{}))
	require.NoError(t, err)
	defer a.Close()

	handles := make([]Handle, 0, 8)
	for i := 0; i < 8; i++ {
		h, err := a.Allocate(200)
		require.NoError(t, err)
		handles = append(handles, h)
	}
	require.Equal(t, 2, a.NumSegments())

	for _, h := range handles {
		require.NoError(t, a.Free(h))
	}
	assert.Equal(t, 2, a.NumSegments(), "idle segments are retained")
}

func Test_Cursor_SticksToLastSuccess(t *testing.T) {
	a, err := New(smallConfig(sysalloc.Heap{}))
	require.NoError(t, err)
	defer a.Close()

	// Force two segments, cursor on the second.
	for i := 0; i < 5; i++ {
		_, err := a.Allocate(200)
		require.NoError(t, err)
	}
	require.Equal(t, 2, a.NumSegments())
	require.Equal(t, 1, a.cursor)

	before := a.Stats().ProbeSteps
	_, err = a.Allocate(200)
	require.NoError(t, err)
	assert.Equal(t, before+1, a.Stats().ProbeSteps, "sticky cursor hits on the first probe")
	assert.Equal(t, 1, a.cursor)
}

func Test_Cursor_MovesToFreedSegment(t *testing.T) {
	a, err := New(smallConfig(sysalloc.Heap{}))
	require.NoError(t, err)
	defer a.Close()

	var first Handle
	for i := 0; i < 5; i++ {
		h, err := a.Allocate(200)
		require.NoError(t, err)
		if i == 0 {
			first = h
		}
	}
	require.Equal(t, 1, a.cursor)

	// Freeing into segment 0 points the cursor back at it, so the next
	// allocation lands in the space just opened.
	require.NoError(t, a.Free(first))
	assert.Equal(t, 0, a.cursor)

	h, err := a.Allocate(200)
	require.NoError(t, err)
	assert.Equal(t, 0, h.segmentIndex())
}

func Test_Close_Idempotent(t *testing.T) {
	ta := newTrackingAllocator()
	a, err := New(smallConfig(ta))
	require.NoError(t, err)

	_, err = a.Allocate(64)
	require.NoError(t, err)

	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
	assert.Equal(t, 0, ta.outstanding())
}

func Test_Close_KillsOperations(t *testing.T) {
	a, err := New(smallConfig(sysalloc.Heap{}))
	require.NoError(t, err)

	h, err := a.Allocate(64)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	_, err = a.Allocate(64)
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, a.Free(h), ErrClosed)
	assert.Nil(t, a.Bytes(h))
}

func Test_SegmentInfo_TracksUtilization(t *testing.T) {
	a, err := New(smallConfig(sysalloc.Heap{}))
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Allocate(200)
	require.NoError(t, err)

	infos := a.SegmentInfo()
	require.Len(t, infos, 1)
	assert.Equal(t, 1024, infos[0].Capacity)
	assert.Equal(t, 1024-208, infos[0].FreeBytes)
	assert.InDelta(t, 208.0/1024.0, infos[0].Utilization(), 1e-9)
	assert.Equal(t, 1, infos[0].Region.AllocCalls)
}
