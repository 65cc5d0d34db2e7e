package subst

import "errors"

// Sentinel error kinds at the engine boundary (§7). Callers test against
// these with errors.Is; the driver package wraps them with path context.
var (
	// ErrInconsistentEol is returned when repair is disabled and a chunk
	// observes a line terminator that differs from the one first seen in
	// this stream direction.
	ErrInconsistentEol = errors.New("subst: inconsistent line endings")

	// ErrUnknownEol is returned when a caller requests EOL normalization
	// with a style string the resolver does not recognize.
	ErrUnknownEol = errors.New("subst: unknown eol style")

	// ErrClosedStream is returned by any operation on a Stream (§4.5)
	// after Close has already run.
	ErrClosedStream = errors.New("subst: operation on closed stream")

	// ErrUnsupported is returned when a special-file node cannot be
	// represented on the host filesystem, or names an unrecognized
	// sidecar kind tag.
	ErrUnsupported = errors.New("subst: unsupported special file")
)
