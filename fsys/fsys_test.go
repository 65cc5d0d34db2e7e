package fsys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSStatKindsRegularAndSymlink(t *testing.T) {
	dir := t.TempDir()
	regular := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(regular, []byte("data"), 0644))

	info, err := OS.Stat(regular, false)
	require.NoError(t, err)
	assert.Equal(t, KindRegular, info.Kind)
	assert.Equal(t, int64(4), info.Size)

	link := filepath.Join(dir, "link.txt")
	require.NoError(t, os.Symlink(regular, link))

	info, err = OS.Stat(link, false)
	require.NoError(t, err)
	assert.Equal(t, KindSymlink, info.Kind)

	info, err = OS.Stat(link, true)
	require.NoError(t, err)
	assert.Equal(t, KindRegular, info.Kind)
}

func TestOSUniqueTempCreatesDistinctSiblings(t *testing.T) {
	dir := t.TempDir()
	hint := filepath.Join(dir, "target.txt")

	f1, p1, err := OS.UniqueTemp(hint, ".tmp")
	require.NoError(t, err)
	defer f1.Close()
	f2, p2, err := OS.UniqueTemp(hint, ".tmp")
	require.NoError(t, err)
	defer f2.Close()

	assert.NotEqual(t, p1, p2)
	assert.Equal(t, dir, filepath.Dir(p1))
	assert.FileExists(t, p1)
	assert.FileExists(t, p2)
}

func TestOSTempPathDoesNotCreateFile(t *testing.T) {
	dir := t.TempDir()
	hint := filepath.Join(dir, "target.txt")

	p := OS.TempPath(hint, ".tmp")
	assert.Equal(t, dir, filepath.Dir(p))
	assert.NoFileExists(t, p)
}

func TestOSCopyFilePreservesPerms(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("content"), 0600))

	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, OS.CopyFile(src, dst, true))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "content", string(got))

	fi, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fi.Mode().Perm())
}

func TestOSRenameAndRemove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	require.NoError(t, OS.Rename(src, dst))
	assert.NoFileExists(t, src)
	assert.FileExists(t, dst)

	require.NoError(t, OS.Remove(dst))
	assert.NoFileExists(t, dst)
}

func TestOSSymlinkRoundTrip(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(dir, "link")

	require.NoError(t, OS.CreateSymlink("target-value", link))
	target, err := OS.ReadSymlink(link)
	require.NoError(t, err)
	assert.Equal(t, "target-value", target)
}
