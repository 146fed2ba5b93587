package arena

import (
	"fmt"

	"github.com/joshuapare/arenakit/arena/region"
	"github.com/joshuapare/arenakit/internal/format"
	"github.com/joshuapare/arenakit/internal/sysalloc"
)

// DefaultSegmentSize is the segment capacity used when none is configured.
const DefaultSegmentSize = 1 << 20 // 1 MiB

// Config controls one Arena. The zero value (or a nil pointer) selects the
// defaults.
type Config struct {
	// SegmentSize is the fixed capacity of every segment, in bytes.
	// 0 selects DefaultSegmentSize.
	SegmentSize int

	// LargeThreshold routes requests above this many bytes directly to
	// the system allocator. 0 selects SegmentSize/4. Oversized objects
	// placed inside segments would shred them; a quarter of a segment is
	// the classic cut-off.
	LargeThreshold int

	// Align is the payload alignment inside segments. Must be a power of
	// two, at least format.MinAlign. 0 selects format.DefaultAlign.
	Align int

	// Classes selects the region allocator's size class strategy.
	// nil selects region.DefaultClasses.
	Classes *region.ClassConfig

	// Sys supplies segment storage and serves the fallback path.
	// nil selects sysalloc.Default().
	Sys sysalloc.Allocator
}

// withDefaults returns a copy of cfg with zero fields filled in.
func (cfg *Config) withDefaults() Config {
	out := Config{}
	if cfg != nil {
		out = *cfg
	}
	if out.SegmentSize == 0 {
		out.SegmentSize = DefaultSegmentSize
	}
	if out.LargeThreshold == 0 {
		out.LargeThreshold = out.SegmentSize / 4
	}
	if out.Align == 0 {
		out.Align = format.DefaultAlign
	}
	if out.Sys == nil {
		out.Sys = sysalloc.Default()
	}
	return out
}

// validate checks that a threshold-sized request can always be served by a
// fresh segment, so segment growth never produces a segment that is
// already too small.
func (cfg *Config) validate() error {
	if !format.IsPowerOfTwo(cfg.Align) || cfg.Align < format.MinAlign {
		return fmt.Errorf("arena: alignment %d is not a power of two >= %d", cfg.Align, format.MinAlign)
	}
	if cfg.SegmentSize < 0 || cfg.LargeThreshold < 0 {
		return fmt.Errorf("arena: negative segment size or threshold")
	}
	if cfg.SegmentSize > format.MaxRegionSize {
		return fmt.Errorf("arena: segment size %d exceeds the %d region limit",
			cfg.SegmentSize, format.MaxRegionSize)
	}
	usable := format.AlignDown(cfg.SegmentSize, cfg.Align)
	maxRun := format.AlignUp(cfg.LargeThreshold+cfg.Align, cfg.Align)
	if maxRun > usable {
		return fmt.Errorf(
			"arena: threshold %d does not fit a %d-byte segment (largest run %d, usable %d)",
			cfg.LargeThreshold, cfg.SegmentSize, maxRun, usable)
	}
	return nil
}

// regionConfig returns the region-level view of this configuration.
func (cfg *Config) regionConfig() *region.Config {
	return &region.Config{
		Align:   cfg.Align,
		Classes: cfg.Classes,
	}
}
