package arena

import (
	"fmt"

	"github.com/joshuapare/arenakit/arena/region"
	"github.com/joshuapare/arenakit/internal/sysalloc"
)

// segment pairs a system-allocated block with the region allocator that
// parcels it out. Segments are created on demand and live until the
// arena is closed.
type segment struct {
	storage []byte
	ra      *region.Allocator
}

func newSegment(sys sysalloc.Allocator, size int, cfg *region.Config) (*segment, error) {
	buf, err := sys.Alloc(size)
	if err != nil {
		return nil, fmt.Errorf("arena: segment storage: %w", err)
	}
	ra, err := region.New(buf, cfg)
	if err != nil {
		// Config is validated up front, so this only fires if the system
		// allocator returned a short buffer.
		if ferr := sys.Free(buf); ferr != nil {
			return nil, fmt.Errorf("arena: segment region: %w (storage release: %v)", err, ferr)
		}
		return nil, fmt.Errorf("arena: segment region: %w", err)
	}
	return &segment{storage: buf, ra: ra}, nil
}

func (s *segment) release(sys sysalloc.Allocator) error {
	if s.storage == nil {
		return nil
	}
	err := sys.Free(s.storage)
	s.storage = nil
	s.ra = nil
	return err
}
