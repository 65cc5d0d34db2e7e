// Package fsys is the filesystem collaborator named in §6: stat, open,
// unique-tempfile creation, symlink read/create, rename, and file copy.
// The engine consumes it through the Filesystem interface so tests can
// substitute a fake; OS is the real, default implementation.
package fsys

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Kind tags what stat found at a path.
type Kind int

const (
	KindRegular Kind = iota
	KindSymlink
	KindOther
)

// Info is the subset of file metadata the engine needs.
type Info struct {
	Kind Kind
	Mode os.FileMode
	Size int64
}

// Filesystem is the narrow interface every filesystem-touching component
// in this module is written against.
type Filesystem interface {
	// Stat inspects path. When follow is false, a symlink is reported as
	// KindSymlink rather than being followed.
	Stat(path string, follow bool) (Info, error)
	Open(path string) (*os.File, error)
	Create(path string) (*os.File, error)
	// UniqueTemp creates a new, exclusively-owned temp file as a sibling
	// of dirHint, in filepath.Dir(dirHint), with suffix appended to its
	// name, returning the open handle and its path. A dirHint that is a
	// directory is treated like any other path: the file goes in its
	// parent.
	UniqueTemp(dirHint, suffix string) (*os.File, string, error)
	// TempPath returns a unique path, sibling to dirHint, that does not
	// yet exist. Unlike UniqueTemp it creates nothing: it exists for
	// callers (symlink creation) that must not pre-create the file.
	TempPath(dirHint, suffix string) string
	ReadSymlink(path string) (string, error)
	CreateSymlink(target, linkPath string) error
	// Rename atomically replaces dst with src within one filesystem.
	Rename(src, dst string) error
	CopyFile(src, dst string, preservePerms bool) error
	Remove(path string) error
}

// OS is the default Filesystem, backed directly by the os package.
var OS Filesystem = osFilesystem{}

type osFilesystem struct{}

func (osFilesystem) Stat(path string, follow bool) (Info, error) {
	var (
		fi  os.FileInfo
		err error
	)
	if follow {
		fi, err = os.Stat(path)
	} else {
		fi, err = os.Lstat(path)
	}
	if err != nil {
		return Info{}, err
	}
	info := Info{Mode: fi.Mode(), Size: fi.Size()}
	switch {
	case fi.Mode()&os.ModeSymlink != 0:
		info.Kind = KindSymlink
	case fi.Mode().IsRegular():
		info.Kind = KindRegular
	default:
		info.Kind = KindOther
	}
	return info, nil
}

func (osFilesystem) Open(path string) (*os.File, error) {
	return os.Open(path)
}

func (osFilesystem) Create(path string) (*os.File, error) {
	return os.Create(path)
}

func (osFilesystem) UniqueTemp(dirHint, suffix string) (*os.File, string, error) {
	dir := filepath.Dir(dirHint)
	pattern := fmt.Sprintf("svnsubst-%s-*%s", uuid.NewString(), suffix)
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, "", err
	}
	return f, f.Name(), nil
}

func (osFilesystem) TempPath(dirHint, suffix string) string {
	dir := filepath.Dir(dirHint)
	return filepath.Join(dir, fmt.Sprintf("svnsubst-%s%s", uuid.NewString(), suffix))
}

func (osFilesystem) ReadSymlink(path string) (string, error) {
	return os.Readlink(path)
}

func (osFilesystem) CreateSymlink(target, linkPath string) error {
	return os.Symlink(target, linkPath)
}

func (osFilesystem) Rename(src, dst string) error {
	return os.Rename(src, dst)
}

func (osFilesystem) Remove(path string) error {
	return os.Remove(path)
}

func (osFilesystem) CopyFile(src, dst string, preservePerms bool) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	perm := os.FileMode(0644)
	if preservePerms {
		fi, err := in.Stat()
		if err != nil {
			return err
		}
		perm = fi.Mode().Perm()
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
