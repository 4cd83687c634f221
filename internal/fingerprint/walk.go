package fingerprint

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileEntry identifies one regular file found under a root. RelPath always
// uses forward slashes regardless of platform.
type FileEntry struct {
	RelPath string
	AbsPath string
}

// ValidateRoot checks that root exists and is a directory.
func ValidateRoot(fsys afero.Fs, root string) error {
	info, err := fsys.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrPathNotFound, root)
		}
		return &UnexpectedError{Op: "stat root", Path: root, Err: err}
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, root)
	}
	return nil
}

// Walk yields every regular file below root in the order the filesystem
// lists directory entries. Each range over the returned sequence walks the
// tree again from scratch.
//
// Symlinks are resolved: a link to a regular file is yielded, a link to a
// directory is neither yielded nor descended into, and dangling links are
// ignored. A directory that cannot be listed ends the walk with an
// *UnexpectedError.
func Walk(fsys afero.Fs, root string) iter.Seq2[FileEntry, error] {
	return func(yield func(FileEntry, error) bool) {
		walkDir(fsys, root, "", yield)
	}
}

func walkDir(fsys afero.Fs, root, rel string, yield func(FileEntry, error) bool) bool {
	dir := root
	if rel != "" {
		dir = filepath.Join(root, filepath.FromSlash(rel))
	}
	infos, err := readDir(fsys, dir)
	if err != nil {
		display := rel
		if display == "" {
			display = root
		}
		yield(FileEntry{}, &UnexpectedError{Op: "read directory", Path: display, Err: err})
		return false
	}

	for _, info := range infos {
		childRel := path.Join(rel, info.Name())
		abs := filepath.Join(root, filepath.FromSlash(childRel))

		mode := info.Mode()
		if mode&os.ModeSymlink != 0 {
			target, err := fsys.Stat(abs)
			if err != nil || target.IsDir() {
				continue
			}
			mode = target.Mode()
		}

		switch {
		case mode.IsDir():
			if !walkDir(fsys, root, childRel, yield) {
				return false
			}
		case mode.IsRegular():
			if !yield(FileEntry{RelPath: childRel, AbsPath: abs}, nil) {
				return false
			}
		}
	}
	return true
}

// readDir lists dir without sorting so callers observe native order.
func readDir(fsys afero.Fs, dir string) ([]os.FileInfo, error) {
	f, err := fsys.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Readdir(-1)
}
