// Package iostream adapts file handles and callback pairs to the single
// byte-stream interface (§6) the rest of the engine is written against:
// io.ReadWriteCloser. This replaces the source engine's duck-typed,
// tied-magic stream abstraction with one interface and two constructors,
// per the "Duck-typed stream" design note.
package iostream

import "io"

// Stream is the engine's byte-stream collaborator. A plain *os.File
// already satisfies it; FromFile and FromCallbacks exist for the cases
// that don't.
type Stream = io.ReadWriteCloser

// FromFile adapts a file handle that is missing one side of
// io.ReadWriteCloser (e.g. an os.File opened read-only) into a Stream
// whose unsupported side reports an error instead of panicking.
func FromFile(r io.Reader, w io.Writer, c io.Closer) Stream {
	return &fileStream{r: r, w: w, c: c}
}

type fileStream struct {
	r io.Reader
	w io.Writer
	c io.Closer
}

func (f *fileStream) Read(p []byte) (int, error) {
	if f.r == nil {
		return 0, errUnsupported("read")
	}
	return f.r.Read(p)
}

func (f *fileStream) Write(p []byte) (int, error) {
	if f.w == nil {
		return 0, errUnsupported("write")
	}
	return f.w.Write(p)
}

func (f *fileStream) Close() error {
	if f.c == nil {
		return nil
	}
	return f.c.Close()
}

// CallbackFuncs is a user-supplied read/write/close triple, the second
// Stream implementation named in the "Duck-typed stream" design note: a
// wrapper delegating to callbacks instead of an open file handle.
type CallbackFuncs struct {
	Read  func(p []byte) (int, error)
	Write func(p []byte) (int, error)
	Close func() error
}

// FromCallbacks adapts a CallbackFuncs triple into a Stream.
func FromCallbacks(fn CallbackFuncs) Stream {
	return &callbackStream{fn: fn}
}

type callbackStream struct {
	fn CallbackFuncs
}

func (c *callbackStream) Read(p []byte) (int, error) {
	if c.fn.Read == nil {
		return 0, errUnsupported("read")
	}
	return c.fn.Read(p)
}

func (c *callbackStream) Write(p []byte) (int, error) {
	if c.fn.Write == nil {
		return 0, errUnsupported("write")
	}
	return c.fn.Write(p)
}

func (c *callbackStream) Close() error {
	if c.fn.Close == nil {
		return nil
	}
	return c.fn.Close()
}

type unsupportedOpError string

func (e unsupportedOpError) Error() string {
	return "iostream: " + string(e) + " not supported by this stream"
}

func errUnsupported(op string) error {
	return unsupportedOpError(op)
}
