// Package special implements the special-file sidecar codec (§4.6):
// encoding a symlink as a short textual blob on detranslate, and
// reconstructing one on materialize.
package special

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/wzunique/subversion/fsys"
	"github.com/wzunique/subversion/subst"
)

// linkPrefix is the sidecar's kind tag for a symlink, the only special
// kind currently defined.
const linkPrefix = "link "

// Detranslate converts the filesystem object at srcPath into its
// repository-form sidecar at dstPath: a regular file is copied unchanged,
// a symlink becomes "link <target>" with no trailing terminator. Any
// other kind of node is a fatal Unsupported error.
func Detranslate(fs fsys.Filesystem, srcPath, dstPath string) error {
	info, err := fs.Stat(srcPath, false)
	if err != nil {
		return fmt.Errorf("detranslate: stat %s: %w", srcPath, err)
	}

	switch info.Kind {
	case fsys.KindSymlink:
		target, err := fs.ReadSymlink(srcPath)
		if err != nil {
			return fmt.Errorf("detranslate: readlink %s: %w", srcPath, err)
		}
		return writeAtomic(fs, dstPath, []byte(linkPrefix+target))

	case fsys.KindRegular:
		return copyAtomic(fs, srcPath, dstPath)

	default:
		return fmt.Errorf("%w: %s is neither a regular file nor a symlink", subst.ErrUnsupported, srcPath)
	}
}

// Materialize reconstructs a filesystem object at dstPath from the
// repository-form sidecar at srcPath. If srcPath is itself a symlink, it
// is first detranslated to a scratch file so the sidecar bytes can be
// read uniformly.
func Materialize(fs fsys.Filesystem, srcPath, dstPath string) error {
	data, err := readSidecar(fs, srcPath)
	if err != nil {
		return err
	}

	sp := bytes.IndexByte(data, ' ')
	var kind string
	var rest []byte
	if sp < 0 {
		kind = string(data)
	} else {
		kind = string(data[:sp])
		rest = data[sp+1:]
	}

	switch kind {
	case "link":
		target := string(rest)
		if err := createSymlinkAtomic(fs, target, dstPath); err != nil {
			if errors.Is(err, subst.ErrUnsupported) {
				return writeAtomic(fs, dstPath, data)
			}
			return err
		}
		return nil

	default:
		return fmt.Errorf("%w: %s", subst.ErrUnsupported, kind)
	}
}

func readSidecar(fs fsys.Filesystem, srcPath string) ([]byte, error) {
	info, err := fs.Stat(srcPath, false)
	if err != nil {
		return nil, fmt.Errorf("materialize: stat %s: %w", srcPath, err)
	}

	if info.Kind != fsys.KindSymlink {
		f, err := fs.Open(srcPath)
		if err != nil {
			return nil, fmt.Errorf("materialize: open %s: %w", srcPath, err)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("materialize: read %s: %w", srcPath, err)
		}
		return data, nil
	}

	scratch := fs.TempPath(srcPath, ".scratch")
	if err := Detranslate(fs, srcPath, scratch); err != nil {
		return nil, err
	}
	defer fs.Remove(scratch)

	f, err := fs.Open(scratch)
	if err != nil {
		return nil, fmt.Errorf("materialize: open scratch for %s: %w", srcPath, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func createSymlinkAtomic(fs fsys.Filesystem, target, dstPath string) error {
	tmp := fs.TempPath(dstPath, ".tmp")
	if err := fs.CreateSymlink(target, tmp); err != nil {
		return fmt.Errorf("%w: %v", subst.ErrUnsupported, err)
	}
	if err := fs.Rename(tmp, dstPath); err != nil {
		fs.Remove(tmp)
		return fmt.Errorf("materialize: rename %s: %w", dstPath, err)
	}
	return nil
}

func writeAtomic(fs fsys.Filesystem, dstPath string, data []byte) error {
	f, tmp, err := fs.UniqueTemp(dstPath, ".tmp")
	if err != nil {
		return fmt.Errorf("detranslate: create temp for %s: %w", dstPath, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		fs.Remove(tmp)
		return fmt.Errorf("detranslate: write %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		fs.Remove(tmp)
		return fmt.Errorf("detranslate: close %s: %w", tmp, err)
	}
	if err := fs.Rename(tmp, dstPath); err != nil {
		fs.Remove(tmp)
		return fmt.Errorf("detranslate: rename %s: %w", dstPath, err)
	}
	return nil
}

func copyAtomic(fs fsys.Filesystem, srcPath, dstPath string) error {
	f, tmp, err := fs.UniqueTemp(dstPath, ".tmp")
	if err != nil {
		return fmt.Errorf("detranslate: create temp for %s: %w", dstPath, err)
	}
	f.Close()
	if err := fs.CopyFile(srcPath, tmp, true); err != nil {
		fs.Remove(tmp)
		return fmt.Errorf("detranslate: copy %s: %w", srcPath, err)
	}
	if err := fs.Rename(tmp, dstPath); err != nil {
		fs.Remove(tmp)
		return fmt.Errorf("detranslate: rename %s: %w", dstPath, err)
	}
	return nil
}
