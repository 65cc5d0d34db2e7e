// Package translate implements the copy-and-translate driver (§4.7): the
// file-to-file pipeline that stats the source, dispatches to the
// special-file codec when needed, and otherwise streams the source
// through the chunk transducer into a unique temp file before an atomic
// rename over the destination.
package translate

import (
	"errors"
	"fmt"
	"io"

	"github.com/wzunique/subversion/fsys"
	"github.com/wzunique/subversion/keyword"
	"github.com/wzunique/subversion/special"
	"github.com/wzunique/subversion/subst"
)

// Options bundles the per-file translation policy consumed by
// CopyAndTranslate.
type Options struct {
	EOLTarget []byte       // nil means no EOL translation
	Repair    bool         // relax InconsistentEol into a silent rewrite
	Keywords  keyword.Set  // nil/empty means no keyword substitution
	Expand    bool         // true to expand keywords, false to contract
	Special   bool         // true if the path's stored policy is svn:special
}

func (o Options) needsTranslation() bool {
	return o.EOLTarget != nil || len(o.Keywords) > 0
}

// CopyAndTranslate runs the full §4.7 pipeline from srcPath to dstPath.
func CopyAndTranslate(fs fsys.Filesystem, srcPath, dstPath string, opts Options) error {
	info, err := fs.Stat(srcPath, false)
	if err != nil {
		return fmt.Errorf("translate: stat %s: %w", srcPath, err)
	}

	if opts.Special || info.Kind == fsys.KindSymlink {
		if opts.Expand {
			return special.Materialize(fs, srcPath, dstPath)
		}
		return special.Detranslate(fs, srcPath, dstPath)
	}

	if !opts.needsTranslation() {
		return plainCopy(fs, srcPath, dstPath)
	}

	return translateRegular(fs, srcPath, dstPath, opts)
}

func plainCopy(fs fsys.Filesystem, srcPath, dstPath string) error {
	f, tmp, err := fs.UniqueTemp(dstPath, ".tmp")
	if err != nil {
		return fmt.Errorf("translate: create temp for %s: %w", dstPath, err)
	}
	f.Close()

	if err := fs.CopyFile(srcPath, tmp, true); err != nil {
		fs.Remove(tmp)
		return fmt.Errorf("translate: copy %s: %w", srcPath, err)
	}
	if err := fs.Rename(tmp, dstPath); err != nil {
		fs.Remove(tmp)
		return fmt.Errorf("translate: rename %s: %w", dstPath, err)
	}
	return nil
}

func translateRegular(fs fsys.Filesystem, srcPath, dstPath string, opts Options) error {
	src, err := fs.Open(srcPath)
	if err != nil {
		return fmt.Errorf("translate: open %s: %w", srcPath, err)
	}
	defer src.Close()

	tmpFile, tmpPath, err := fs.UniqueTemp(dstPath, ".tmp")
	if err != nil {
		return fmt.Errorf("translate: create temp for %s: %w", dstPath, err)
	}

	if err := runTransducer(src, tmpFile, opts); err != nil {
		tmpFile.Close()
		fs.Remove(tmpPath)
		if errors.Is(err, subst.ErrInconsistentEol) {
			return fmt.Errorf("%w: %s", subst.ErrInconsistentEol, srcPath)
		}
		return fmt.Errorf("translate: %s: %w", srcPath, err)
	}

	if err := tmpFile.Close(); err != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("translate: close %s: %w", tmpPath, err)
	}

	if err := fs.Rename(tmpPath, dstPath); err != nil {
		fs.Remove(tmpPath)
		return fmt.Errorf("translate: rename %s: %w", dstPath, err)
	}
	return nil
}

func runTransducer(src io.Reader, out io.Writer, opts Options) error {
	t := subst.New(out, opts.EOLTarget, opts.Repair, opts.Expand, opts.Keywords)
	buf := make([]byte, subst.ChunkSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := t.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			if err == io.EOF {
				return t.Flush()
			}
			return err
		}
	}
}
