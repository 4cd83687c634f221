package fingerprint

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

var errInjected = errors.New("injected read failure")

// faultyFs fails Open for paths in denied and truncates reads for paths in
// brokenAfter after the given number of successful Read calls.
type faultyFs struct {
	afero.Fs
	denied      map[string]bool
	brokenAfter map[string]int
}

func (f *faultyFs) Open(name string) (afero.File, error) {
	clean := filepath.Clean(name)
	if f.denied[clean] {
		return nil, &os.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}
	file, err := f.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	if limit, ok := f.brokenAfter[clean]; ok {
		return &brokenFile{File: file, remaining: limit}, nil
	}
	return file, nil
}

type brokenFile struct {
	afero.File
	remaining int
}

func (b *brokenFile) Read(p []byte) (int, error) {
	if b.remaining <= 0 {
		return 0, errInjected
	}
	b.remaining--
	return b.File.Read(p)
}

func newMemTree(t *testing.T, root string, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", root, err)
	}
	for rel, content := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		if err := fsys.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := afero.WriteFile(fsys, abs, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return fsys
}
