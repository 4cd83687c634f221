package report

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"dirprint/internal/fileutil"
	"dirprint/internal/fingerprint"
)

const lockRetryDelay = 50 * time.Millisecond

// ReportWriteError reports a failure to persist a report. The computed
// digest is unaffected.
type ReportWriteError struct {
	Path string
	Err  error
}

func (e *ReportWriteError) Error() string {
	return fmt.Sprintf("write report %s: %v", e.Path, e.Err)
}

func (e *ReportWriteError) Unwrap() error { return e.Err }

// Save writes the report for res into dir and returns its path. Concurrent
// saves of the same report are serialized; the file is replaced atomically.
func Save(ctx context.Context, res *fingerprint.Result, dir string) (string, error) {
	if res == nil {
		return "", errors.New("save report: nil result")
	}
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, FileName(res.DirectoryName, res.Algorithm))

	lock := flock.New(lockPath(path))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return "", &ReportWriteError{Path: path, Err: fmt.Errorf("acquire lock: %w", err)}
	}
	if !locked {
		return "", &ReportWriteError{Path: path, Err: errors.New("report is locked by another process")}
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if err := fileutil.WriteFileAtomic(path, []byte(Render(res)), 0o644); err != nil {
		return "", &ReportWriteError{Path: path, Err: err}
	}
	return path, nil
}

// lockPath places the lock under the temp dir so report directories stay
// clean. Distinct report paths map to distinct locks.
func lockPath(reportPath string) string {
	abs, err := filepath.Abs(reportPath)
	if err != nil {
		abs = reportPath
	}
	sum := sha1.Sum([]byte(abs))
	return filepath.Join(os.TempDir(), "dirprint-"+hex.EncodeToString(sum[:8])+".lock")
}
