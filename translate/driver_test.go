package translate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wzunique/subversion/fsys"
	"github.com/wzunique/subversion/keyword"
)

func TestCopyAndTranslatePlainCopyWhenNoPolicy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("unchanged\r\ncontent"), 0644))

	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, CopyAndTranslate(fsys.OS, src, dst, Options{}))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "unchanged\r\ncontent", string(got))
}

func TestCopyAndTranslateExpandsKeywordsAndEOL(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("rev $Rev$\nline2\n"), 0644))

	dst := filepath.Join(dir, "dst.txt")
	opts := Options{
		EOLTarget: []byte("\r\n"),
		Keywords:  keyword.Set{"Rev": "9"},
		Expand:    true,
	}
	require.NoError(t, CopyAndTranslate(fsys.OS, src, dst, opts))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "rev $Rev: 9 $\r\nline2\r\n", string(got))
}

func TestCopyAndTranslateSymlinkDetranslates(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink("target-path", link))

	dst := filepath.Join(dir, "sidecar")
	require.NoError(t, CopyAndTranslate(fsys.OS, link, dst, Options{Expand: false}))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "link target-path", string(got))
}

func TestCopyAndTranslateInconsistentEolFails(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("a\r\nb\rc"), 0644))

	dst := filepath.Join(dir, "dst.txt")
	opts := Options{EOLTarget: []byte("\n")}
	err := CopyAndTranslate(fsys.OS, src, dst, opts)
	assert.Error(t, err)
	assert.NoFileExists(t, dst)
}
