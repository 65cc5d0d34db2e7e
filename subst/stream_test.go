package subst

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wzunique/subversion/keyword"
)

// fakeRWC adapts a bytes.Buffer pair into an io.ReadWriteCloser for
// testing Stream without touching the filesystem.
type fakeRWC struct {
	r      *bytes.Reader
	w      bytes.Buffer
	closed bool
}

func (f *fakeRWC) Read(p []byte) (int, error)  { return f.r.Read(p) }
func (f *fakeRWC) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *fakeRWC) Close() error                { f.closed = true; return nil }

func TestStreamReadExpandsKeywords(t *testing.T) {
	rwc := &fakeRWC{r: bytes.NewReader([]byte("hello $Rev$ world"))}
	s := NewStream(rwc, Policy{Keywords: keyword.Set{"Rev": "7"}, Expand: true}, Policy{})

	out, err := io.ReadAll(s)
	require.NoError(t, err)
	assert.Equal(t, "hello $Rev: 7 $ world", string(out))
}

func TestStreamWriteContractsKeywords(t *testing.T) {
	rwc := &fakeRWC{r: bytes.NewReader(nil)}
	s := NewStream(rwc, Policy{}, Policy{Keywords: keyword.Set{"Rev": "7"}, Expand: false})

	_, err := s.Write([]byte("hello $Rev: 7 $ world"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.Equal(t, "hello $Rev$ world", rwc.w.String())
}

func TestStreamClosedReturnsError(t *testing.T) {
	rwc := &fakeRWC{r: bytes.NewReader(nil)}
	s := NewStream(rwc, Policy{}, Policy{})
	require.NoError(t, s.Close())

	_, err := s.Read(make([]byte, 1))
	assert.ErrorIs(t, err, ErrClosedStream)

	_, err = s.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrClosedStream)

	assert.ErrorIs(t, s.Close(), ErrClosedStream)
	assert.True(t, rwc.closed)
}

func TestStreamReadAcrossSmallChunks(t *testing.T) {
	rwc := &fakeRWC{r: bytes.NewReader([]byte("abc\ndef\n"))}
	s := NewStream(rwc, Policy{EOLTarget: []byte("\r\n")}, Policy{})

	buf := make([]byte, 3)
	var got bytes.Buffer
	for {
		n, err := s.Read(buf)
		got.Write(buf[:n])
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, "abc\r\ndef\r\n", got.String())
}
