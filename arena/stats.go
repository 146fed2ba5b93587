package arena

import "github.com/joshuapare/arenakit/arena/region"

// Stats carries cumulative counters for one arena. Counters only ever
// grow; sample twice and subtract to rate-limit.
type Stats struct {
	// AllocCalls counts Allocate calls, successful or not.
	AllocCalls int

	// FreeCalls counts Free calls that consumed a valid handle.
	FreeCalls int

	// SegmentAllocs counts allocations satisfied inside a segment.
	SegmentAllocs int

	// FallbackAllocs counts allocations routed straight to the system
	// allocator because they exceeded the large-object threshold.
	FallbackAllocs int

	// SegmentsGrown counts segments created after the first.
	SegmentsGrown int

	// ProbeSteps counts segments inspected across all Allocate calls.
	// ProbeSteps/SegmentAllocs near 1.0 means the cursor is sticking.
	ProbeSteps int

	// BytesAllocated and BytesFreed total the requested payload sizes.
	BytesAllocated int64
	BytesFreed     int64
}

// SegmentInfo is a point-in-time snapshot of one segment, for tooling.
type SegmentInfo struct {
	Capacity    int
	FreeBytes   int
	LargestFree int
	Region      region.Stats
}

// Utilization returns the allocated fraction of the segment, in [0, 1].
func (si SegmentInfo) Utilization() float64 {
	if si.Capacity == 0 {
		return 0
	}
	return float64(si.Capacity-si.FreeBytes) / float64(si.Capacity)
}
