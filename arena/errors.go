package arena

import "errors"

var (
	// ErrOutOfMemory indicates the system allocator failed while creating
	// a segment or serving a large-object fallback request.
	ErrOutOfMemory = errors.New("arena: out of memory")

	// ErrBadHandle indicates a handle this arena did not issue, or one
	// that was already consumed by Free.
	ErrBadHandle = errors.New("arena: bad handle")

	// ErrBadSize indicates an allocation size that is negative or too
	// large to represent in a handle.
	ErrBadSize = errors.New("arena: bad allocation size")

	// ErrClosed indicates use of an arena after Close.
	ErrClosed = errors.New("arena: closed")
)
