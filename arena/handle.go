package arena

// Handle is the opaque capability returned by Allocate. It records where
// the allocation lives - which segment, or the fallback path - so Free can
// route it without the caller knowing. The zero Handle is invalid.
//
// A Handle is valid from the moment Allocate returns it until it is
// consumed by exactly one Free. It carries no ownership of memory.
type Handle struct {
	// slot routes the handle: 0 is invalid, positive is a segment index
	// + 1, negative is a fallback block id.
	slot int32

	// off is the run offset inside the owning segment's region.
	off int32

	// n is the requested payload length, so Bytes can return exactly the
	// size the caller asked for.
	n int32
}

// Valid reports whether h was issued by an Allocate call and not yet
// consumed as far as its shape can tell. Free performs the full check.
func (h Handle) Valid() bool { return h.slot != 0 }

func segmentHandle(index, off, n int) Handle {
	return Handle{slot: int32(index) + 1, off: int32(off), n: int32(n)}
}

func fallbackHandle(id int32, n int) Handle {
	return Handle{slot: -id, n: int32(n)}
}

func (h Handle) isFallback() bool { return h.slot < 0 }

func (h Handle) segmentIndex() int { return int(h.slot) - 1 }

func (h Handle) fallbackID() int32 { return -h.slot }
