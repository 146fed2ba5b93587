package region

import "math"

// ClassConfig defines the size class strategy for the segregated free
// lists. Different configurations trade heap count against internal
// fragmentation; the presets below cover the useful range.
type ClassConfig struct {
	// Name for this configuration (for benchmarking).
	Name string

	// Small run settings (linear increments).
	SmallMin int // smallest class boundary, run sizes include the tag
	SmallMax int // upper bound of the linear phase
	Step     int // boundary increment during the linear phase

	// Above SmallMax boundaries grow geometrically by Growth until
	// LargeMin; runs of LargeMin bytes or more go to the large list.
	LargeMin int
	Growth   float64
}

// Predefined configurations.
var (
	// ClassesFineGrained: many small buckets, good for varied workloads.
	ClassesFineGrained = ClassConfig{
		Name:     "FineGrained",
		SmallMin: 16,
		SmallMax: 256,
		Step:     8,
		LargeMin: 16384,
		Growth:   1.5,
	}

	// ClassesBalanced: reasonable bucket count for most callers.
	ClassesBalanced = ClassConfig{
		Name:     "Balanced",
		SmallMin: 16,
		SmallMax: 512,
		Step:     16,
		LargeMin: 16384,
		Growth:   1.5,
	}

	// ClassesCoarse: few buckets, fastest operations, more internal
	// fragmentation.
	ClassesCoarse = ClassConfig{
		Name:     "Coarse",
		SmallMin: 16,
		SmallMax: 512,
		Step:     32,
		LargeMin: 16384,
		Growth:   2.0,
	}

	// DefaultClasses is used when no configuration is supplied.
	DefaultClasses = ClassesBalanced
)

// classTable holds the computed size class boundaries.
type classTable struct {
	config     ClassConfig
	boundaries []int // upper bound for each size class
}

// newClassTable computes class boundaries from config.
func newClassTable(config ClassConfig) *classTable {
	t := &classTable{
		config:     config,
		boundaries: make([]int, 0, 64),
	}

	// Phase 1: linear increments.
	for size := config.SmallMin; size < config.SmallMax; size += config.Step {
		t.boundaries = append(t.boundaries, size+config.Step-1)
	}

	// Phase 2: geometric growth up to the large threshold.
	if config.SmallMax < config.LargeMin {
		size := config.SmallMax
		for size < config.LargeMin {
			next := int(math.Ceil(float64(size) * config.Growth))
			if next <= size {
				next = size + 1 // ensure progress
			}
			if next > config.LargeMin {
				next = config.LargeMin // clamp so LargeMin starts the large list
			}
			t.boundaries = append(t.boundaries, next-1)
			size = next
		}
	}

	return t
}

// classFor returns the size class index for a run size, or numClasses()
// for sizes that belong on the large list.
func (t *classTable) classFor(size int) int {
	lo, hi := 0, len(t.boundaries)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		if size <= t.boundaries[mid] {
			if mid == 0 || size > t.boundaries[mid-1] {
				return mid
			}
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}
	return len(t.boundaries)
}

// numClasses returns the number of size classes (excluding the large list).
func (t *classTable) numClasses() int {
	return len(t.boundaries)
}
