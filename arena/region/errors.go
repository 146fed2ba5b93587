package region

import "errors"

var (
	// ErrBadOffset indicates an offset that cannot name a run in this
	// region: out of bounds or not on an alignment boundary.
	ErrBadOffset = errors.New("region: bad run offset")

	// ErrNotAllocated indicates a free of a run that is not currently
	// allocated, which includes double frees.
	ErrNotAllocated = errors.New("region: run not allocated")

	// ErrCorrupt indicates the run structure no longer tiles the region.
	// Returned by Validate; seeing it means a caller wrote outside its
	// allocation or the bookkeeping has a bug.
	ErrCorrupt = errors.New("region: run structure corrupt")
)
