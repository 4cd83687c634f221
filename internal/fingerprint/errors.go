package fingerprint

import (
	"errors"
	"fmt"
)

var (
	// ErrPathNotFound reports a root that does not exist.
	ErrPathNotFound = errors.New("path not found")
	// ErrNotADirectory reports a root that exists but is not a directory.
	ErrNotADirectory = errors.New("not a directory")
)

// FileReadError describes a file whose content could not be hashed. The run
// continues past it; the file still counts towards Result.FileCount.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// UnexpectedError wraps a setup or traversal failure that ends the run
// without a digest.
type UnexpectedError struct {
	Op   string
	Path string
	Err  error
}

func (e *UnexpectedError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }
