// Package subst implements the chunked EOL/keyword translation engine
// (§4.4) and the stream wrapper built on top of it (§4.5). It is the
// stateful core of the translation engine: everything else in this module
// either feeds it a policy or drives it over a stream.
package subst

import (
	"io"

	"github.com/wzunique/subversion/keyword"
)

// Transducer carries one direction's worth of translation state across an
// arbitrary sequence of Write calls. It must not be used from more than one
// goroutine at a time, and it is not safe to reuse after an error: the
// caller should discard it and, if retrying, build a fresh one.
type Transducer struct {
	out io.Writer

	eolTarget []byte // nil means eol style "none": newlines pass through verbatim
	repair    bool
	expand    bool
	keywords  keyword.Set

	interesting [256]bool

	newlineBuf [2]byte
	newlineOff int

	keywordBuf [keyword.KWMax]byte
	keywordOff int

	srcEOL    [2]byte
	srcEOLLen int
}

// New builds a Transducer that writes translated output to out.
//
//   - eolTarget is the terminator to rewrite newlines to, or nil for no EOL
//     translation (style "none").
//   - repair relaxes the line-ending-consistency check into a silent
//     rewrite instead of ErrInconsistentEol.
//   - expand selects keyword expansion (true) or contraction (false).
//   - keywords may be nil or empty, meaning no keyword substitution.
func New(out io.Writer, eolTarget []byte, repair, expand bool, keywords keyword.Set) *Transducer {
	t := &Transducer{
		out:       out,
		eolTarget: eolTarget,
		repair:    repair,
		expand:    expand,
		keywords:  keywords,
	}
	hasEOL := eolTarget != nil
	hasKW := len(keywords) > 0
	switch {
	case hasEOL && hasKW:
		t.interesting['$'] = true
		t.interesting['\r'] = true
		t.interesting['\n'] = true
	case hasEOL:
		t.interesting['\r'] = true
		t.interesting['\n'] = true
	case hasKW:
		t.interesting['$'] = true
	}
	return t
}

// Write implements io.Writer: it pushes p through the transducer,
// translating as it goes, and returns the number of input bytes consumed.
// On a nil error that is always len(p); held partial state (a dangling CR
// or an incomplete keyword run) is carried across calls and must be
// released with Flush at end of stream.
func (t *Transducer) Write(p []byte) (int, error) {
	i := 0
	n := len(p)

	for i < n {
		// Phase 1: drain held state.
		if t.newlineOff > 0 {
			if p[i] == '\n' {
				t.newlineBuf[t.newlineOff] = '\n'
				t.newlineOff++
				i++
				if err := t.emitNewline(); err != nil {
					return i, err
				}
				t.newlineOff = 0
				continue
			}
			if err := t.emitNewline(); err != nil {
				return i, err
			}
			t.newlineOff = 0
			continue // re-process p[i]; it was not consumed
		}

		if t.keywordOff > 0 && p[i] == '$' {
			t.keywordBuf[t.keywordOff] = '$'
			t.keywordOff++
			i++
			run := t.keywordBuf[:t.keywordOff]
			if rewritten, ok := keyword.Substitute(run, t.keywords, t.expand); ok {
				if _, err := t.out.Write(rewritten); err != nil {
					return i, err
				}
				t.keywordOff = 0
				continue
			}
			// Decline: emit everything but the trailing '$', and let
			// that '$' start a fresh run on the next iteration.
			if _, err := t.out.Write(run[:len(run)-1]); err != nil {
				return i, err
			}
			t.keywordOff = 0
			i--
			continue
		}

		if t.keywordOff == keyword.KWMax-1 ||
			(t.keywordOff > 0 && (p[i] == '\r' || p[i] == '\n')) {
			if _, err := t.out.Write(t.keywordBuf[:t.keywordOff]); err != nil {
				return i, err
			}
			t.keywordOff = 0
			continue
		}

		if t.keywordOff > 0 {
			t.keywordBuf[t.keywordOff] = p[i]
			t.keywordOff++
			i++
			continue
		}

		// Phase 2: fast run of boring bytes.
		start := i
		for i < n && !t.interesting[p[i]] {
			i++
		}
		if i > start {
			if _, err := t.out.Write(p[start:i]); err != nil {
				return i, err
			}
		}
		if i >= n {
			break
		}

		switch p[i] {
		case '$':
			t.keywordBuf[0] = '$'
			t.keywordOff = 1
			i++
		case '\r':
			t.newlineBuf[0] = '\r'
			t.newlineOff = 1
			i++
		case '\n':
			t.newlineBuf[0] = '\n'
			t.newlineOff = 1
			i++
			if err := t.emitNewline(); err != nil {
				return i, err
			}
			t.newlineOff = 0
		}
	}

	return i, nil
}

// Flush releases any partial state held across the last Write call: a
// dangling bare CR is emitted as one terminator, and an incomplete keyword
// run is flushed verbatim. Call this exactly once at end of stream.
func (t *Transducer) Flush() error {
	if t.newlineOff > 0 {
		if err := t.emitNewline(); err != nil {
			return err
		}
		t.newlineOff = 0
	}
	if t.keywordOff > 0 {
		if _, err := t.out.Write(t.keywordBuf[:t.keywordOff]); err != nil {
			return err
		}
		t.keywordOff = 0
	}
	return nil
}

// emitNewline implements §4.4a: record or validate the observed line
// ending, then emit the resolved terminator (or the observed bytes
// verbatim when no EOL translation is in effect).
func (t *Transducer) emitNewline() error {
	observed := t.newlineBuf[:t.newlineOff]

	if t.eolTarget == nil {
		_, err := t.out.Write(observed)
		return err
	}

	if t.srcEOLLen == 0 {
		copy(t.srcEOL[:], observed)
		t.srcEOLLen = len(observed)
	} else if !bytesEqual(t.srcEOL[:t.srcEOLLen], observed) && !t.repair {
		return ErrInconsistentEol
	}

	_, err := t.out.Write(t.eolTarget)
	return err
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
