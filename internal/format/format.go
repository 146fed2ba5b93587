// Package format defines the on-storage run layout shared by the region
// allocator and its tests. The goal is to keep the byte-level encoding
// focused and allocation-free so higher-level packages can orchestrate the
// bookkeeping in a more ergonomic form.
package format

const (
	// RunHeaderSize is the size of the boundary tag preceding every run.
	// The tag holds the run size as a little-endian int32: positive for a
	// free run, negative for an allocated run. The size includes the tag.
	RunHeaderSize = 4

	// MinAlign is the smallest supported run alignment. Allocations
	// returned by the region allocator are aligned to at least this.
	MinAlign = 4

	// DefaultAlign is the run alignment used when none is configured.
	DefaultAlign = 8

	// MaxRegionSize caps a single region. Run offsets and sizes are int32,
	// so a region must stay addressable within 2GB.
	MaxRegionSize = 0x7FFFFFFF
)
