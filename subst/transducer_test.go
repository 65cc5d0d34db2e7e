package subst

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wzunique/subversion/keyword"
)

func runAll(t *Transducer, chunks ...[]byte) error {
	for _, c := range chunks {
		if _, err := t.Write(c); err != nil {
			return err
		}
	}
	return t.Flush()
}

func TestTransducerIdentityWhenNoPolicy(t *testing.T) {
	var out bytes.Buffer
	tr := New(&out, nil, false, true, nil)
	require.NoError(t, runAll(tr, []byte("hello\r\nworld\n$Rev$")))
	assert.Equal(t, "hello\r\nworld\n$Rev$", out.String())
}

func TestTransducerEOLNormalizesLF(t *testing.T) {
	var out bytes.Buffer
	tr := New(&out, []byte("\r\n"), false, true, nil)
	require.NoError(t, runAll(tr, []byte("a\nb\nc")))
	assert.Equal(t, "a\r\nb\r\nc", out.String())
}

func TestTransducerEOLChunkBoundarySplitCRLF(t *testing.T) {
	var out bytes.Buffer
	tr := New(&out, []byte("\n"), false, true, nil)
	require.NoError(t, runAll(tr, []byte("a\r"), []byte("\nb")))
	assert.Equal(t, "a\nb", out.String())
}

func TestTransducerInconsistentEolErrors(t *testing.T) {
	var out bytes.Buffer
	tr := New(&out, []byte("\n"), false, true, nil)
	_, err := tr.Write([]byte("a\r\nb\rc"))
	require.True(t, errors.Is(err, ErrInconsistentEol))
}

func TestTransducerRepairSilentlyRewrites(t *testing.T) {
	var out bytes.Buffer
	tr := New(&out, []byte("\n"), true, true, nil)
	require.NoError(t, runAll(tr, []byte("a\r\nb\rc\n")))
	assert.Equal(t, "a\nb\nc\n", out.String())
}

func TestTransducerLoneTrailingCRFlushedAsTerminator(t *testing.T) {
	var out bytes.Buffer
	tr := New(&out, []byte("\n"), false, true, nil)
	require.NoError(t, runAll(tr, []byte("a\r")))
	assert.Equal(t, "a\n", out.String())
}

func TestTransducerKeywordExpandAcrossChunks(t *testing.T) {
	var out bytes.Buffer
	set := keyword.Set{"Rev": "42"}
	tr := New(&out, nil, false, true, set)
	require.NoError(t, runAll(tr, []byte("a $Re"), []byte("v$ b")))
	assert.Equal(t, "a $Rev: 42 $ b", out.String())
}

func TestTransducerKeywordDeclineEmitsVerbatim(t *testing.T) {
	var out bytes.Buffer
	set := keyword.Set{"Rev": "42"}
	tr := New(&out, nil, false, true, set)
	require.NoError(t, runAll(tr, []byte("x $NotAKeyword$ y")))
	assert.Equal(t, "x $NotAKeyword$ y", out.String())
}

func TestTransducerKeywordRunOverflowFlushesVerbatim(t *testing.T) {
	var out bytes.Buffer
	set := keyword.Set{"Rev": "42"}
	tr := New(&out, nil, false, true, set)
	run := "$" + string(bytes.Repeat([]byte("x"), 400))
	require.NoError(t, runAll(tr, []byte(run)))
	assert.Equal(t, run, out.String())
}

func TestTransducerKeywordRunEndsAtNewline(t *testing.T) {
	var out bytes.Buffer
	set := keyword.Set{"Rev": "42"}
	tr := New(&out, nil, false, true, set)
	require.NoError(t, runAll(tr, []byte("$Rev\nafter")))
	assert.Equal(t, "$Rev\nafter", out.String())
}

func TestTransducerContractIsIdempotent(t *testing.T) {
	var out bytes.Buffer
	set := keyword.Set{"Rev": "42"}
	tr := New(&out, nil, false, false, set)
	require.NoError(t, runAll(tr, []byte("$Rev$ plain")))
	assert.Equal(t, "$Rev$ plain", out.String())
}
