package subst

import (
	"bytes"
	"io"

	"github.com/wzunique/subversion/keyword"
)

// ChunkSize is the I/O granularity CHUNK referenced by §3 and §4.5: an
// implementation-chosen constant, not part of the wire contract. It is
// exported so other callers driving a Transducer directly over chunked
// input (e.g. the copy-and-translate driver) use the same granularity.
const ChunkSize = 16 * 1024

// Policy bundles the settings needed to build one direction's Transducer.
type Policy struct {
	EOLTarget []byte
	Repair    bool
	Expand    bool
	Keywords  keyword.Set
}

func (p Policy) transducer(out io.Writer) *Transducer {
	return New(out, p.EOLTarget, p.Repair, p.Expand, p.Keywords)
}

// Stream wraps an underlying io.ReadWriteCloser with one Transducer per
// direction (§4.5). The two directions share no state: a Stream opened for
// read-then-write translation use can apply different EOL/keyword policies
// on each side, e.g. expand on read (checkout), contract on write (commit).
type Stream struct {
	rw io.ReadWriteCloser

	readT   *Transducer
	readBuf bytes.Buffer
	rawBuf  []byte
	eof     bool

	writeT  *Transducer
	written bool

	closed bool
}

// NewStream constructs a translated stream over rw. Either policy may be
// the zero Policy (EOLTarget nil, Keywords nil), meaning that direction is
// an identity pass-through.
func NewStream(rw io.ReadWriteCloser, readPolicy, writePolicy Policy) *Stream {
	s := &Stream{
		rw:     rw,
		rawBuf: make([]byte, ChunkSize),
	}
	s.readT = readPolicy.transducer(&s.readBuf)
	s.writeT = writePolicy.transducer(rw)
	return s
}

// Read consumes up to len(p) translated bytes, reading and translating
// further raw chunks from the underlying stream as needed. EOF on the
// underlying stream triggers exactly one flush of the read transducer;
// once the translated buffer has drained after that, Read returns
// (0, io.EOF).
func (s *Stream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosedStream
	}

	for s.readBuf.Len() == 0 && !s.eof {
		n, err := s.rw.Read(s.rawBuf)
		if n > 0 {
			if _, werr := s.readT.Write(s.rawBuf[:n]); werr != nil {
				return 0, werr
			}
		}
		if err != nil {
			if err != io.EOF {
				return 0, err
			}
			if ferr := s.readT.Flush(); ferr != nil {
				return 0, ferr
			}
			s.eof = true
		}
	}

	if s.readBuf.Len() == 0 {
		return 0, io.EOF
	}
	return s.readBuf.Read(p)
}

// Write pushes raw bytes through the write transducer and into the
// underlying stream.
func (s *Stream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosedStream
	}
	if len(p) > 0 {
		s.written = true
	}
	return s.writeT.Write(p)
}

// Close flushes the write transducer (if anything was written), closes the
// underlying stream, and marks the wrapper closed. Close is idempotent in
// the sense that it never panics on a second call, but every call after
// the first fails with ErrClosedStream, matching every other operation.
func (s *Stream) Close() error {
	if s.closed {
		return ErrClosedStream
	}
	s.closed = true

	var flushErr error
	if s.written {
		flushErr = s.writeT.Flush()
	}
	closeErr := s.rw.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
