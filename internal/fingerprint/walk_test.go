package fingerprint

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/afero"
)

func writeOSFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWalkYieldsRegularFilesWithSlashPaths(t *testing.T) {
	root := t.TempDir()
	writeOSFile(t, filepath.Join(root, "top.txt"), "top")
	writeOSFile(t, filepath.Join(root, "nested", "deeper", "leaf.txt"), "leaf")
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatalf("mkdir empty: %v", err)
	}

	sorted, err := Sorted(Walk(afero.NewOsFs(), root))
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	var got []string
	for _, entry := range sorted {
		got = append(got, entry.RelPath)
		if entry.AbsPath != filepath.Join(root, filepath.FromSlash(entry.RelPath)) {
			t.Fatalf("abs path mismatch for %s: %s", entry.RelPath, entry.AbsPath)
		}
	}
	want := []string{"nested/deeper/leaf.txt", "top.txt"}
	if !slices.Equal(got, want) {
		t.Fatalf("walk = %v, want %v", got, want)
	}
}

func TestWalkSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeOSFile(t, filepath.Join(root, "real.txt"), "real")
	writeOSFile(t, filepath.Join(outside, "linked-dir", "hidden.txt"), "hidden")
	writeOSFile(t, filepath.Join(outside, "target.txt"), "target")

	if err := os.Symlink(filepath.Join(outside, "linked-dir"), filepath.Join(root, "dirlink")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(outside, "target.txt"), filepath.Join(root, "filelink.txt")); err != nil {
		t.Fatalf("symlink file: %v", err)
	}
	if err := os.Symlink(filepath.Join(outside, "missing"), filepath.Join(root, "dangling")); err != nil {
		t.Fatalf("symlink dangling: %v", err)
	}

	sorted, err := Sorted(Walk(afero.NewOsFs(), root))
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	var got []string
	for _, entry := range sorted {
		got = append(got, entry.RelPath)
	}
	want := []string{"filelink.txt", "real.txt"}
	if !slices.Equal(got, want) {
		t.Fatalf("walk = %v, want %v", got, want)
	}
}

func TestWalkIsRestartable(t *testing.T) {
	fsys := newMemTree(t, "/tree", map[string]string{"a.txt": "a", "sub/b.txt": "b"})
	seq := Walk(fsys, "/tree")

	first, err := Sorted(seq)
	if err != nil {
		t.Fatalf("first walk: %v", err)
	}
	second, err := Sorted(seq)
	if err != nil {
		t.Fatalf("second walk: %v", err)
	}
	if !slices.Equal(first, second) || len(first) != 2 {
		t.Fatalf("walks differ: %v vs %v", first, second)
	}
}

func TestWalkStopsWhenConsumerBreaks(t *testing.T) {
	fsys := newMemTree(t, "/tree", map[string]string{"a": "1", "b": "2", "c": "3"})
	var seen int
	for _, err := range Walk(fsys, "/tree") {
		if err != nil {
			t.Fatalf("walk: %v", err)
		}
		seen++
		break
	}
	if seen != 1 {
		t.Fatalf("expected a single entry before break, got %d", seen)
	}
}

func TestWalkUnreadableDirectory(t *testing.T) {
	base := newMemTree(t, "/tree", map[string]string{"ok.txt": "1", "locked/secret.txt": "2"})
	fsys := &faultyFs{Fs: base, denied: map[string]bool{"/tree/locked": true}}

	var gotErr error
	for _, err := range Walk(fsys, "/tree") {
		if err != nil {
			gotErr = err
		}
	}
	var unexpected *UnexpectedError
	if !errors.As(gotErr, &unexpected) {
		t.Fatalf("expected UnexpectedError, got %v", gotErr)
	}
	if unexpected.Path != "locked" {
		t.Fatalf("unexpected error path: %q", unexpected.Path)
	}
}

func TestValidateRoot(t *testing.T) {
	fsys := newMemTree(t, "/tree", map[string]string{"file.txt": "x"})

	if err := ValidateRoot(fsys, "/tree"); err != nil {
		t.Fatalf("valid root: %v", err)
	}
	if err := ValidateRoot(fsys, "/missing"); !errors.Is(err, ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
	if err := ValidateRoot(fsys, "/tree/file.txt"); !errors.Is(err, ErrNotADirectory) {
		t.Fatalf("expected ErrNotADirectory, got %v", err)
	}
}
