package fingerprint

import (
	"context"
	"encoding/hex"
	"errors"
	"hash"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"
)

// ChunkSize is the read size used when streaming file content into the hash.
const ChunkSize = 8192

// Options controls a computation run.
type Options struct {
	Algorithm Algorithm
	// IncludeFilenames feeds each file's relative path into the hash before
	// its content.
	IncludeFilenames bool
	// SortFiles imposes byte-wise path order. Without it the digest depends
	// on the filesystem's listing order.
	SortFiles bool
	// NormalizeUnicode hashes relative paths in NFC form.
	NormalizeUnicode bool

	Fs       afero.Fs
	Logger   *slog.Logger
	Observer Observer
	Now      func() time.Time
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Algorithm:        DefaultAlgorithm,
		IncludeFilenames: true,
		SortFiles:        true,
	}
}

// Compute fingerprints the directory tree at root.
//
// Root validation failures return ErrPathNotFound or ErrNotADirectory (wrapped
// with the path). Files that cannot be read are skipped, counted, and listed
// in Result.Warnings. A cancelled ctx aborts the run with ctx.Err().
func Compute(ctx context.Context, root string, opts Options) (*Result, error) {
	r, err := newRun(root, opts)
	if err != nil {
		return nil, err
	}
	return r.execute(ctx)
}

type run struct {
	root     string
	opts     Options
	fsys     afero.Fs
	logger   *slog.Logger
	observer Observer
	now      func() time.Time

	id    string
	phase Phase
	hash  hash.Hash
	buf   []byte
}

func newRun(root string, opts Options) (*run, error) {
	if opts.Algorithm == "" {
		opts.Algorithm = DefaultAlgorithm
	}
	h, err := opts.Algorithm.New()
	if err != nil {
		return nil, err
	}
	r := &run{
		root:     root,
		opts:     opts,
		fsys:     opts.Fs,
		logger:   opts.Logger,
		observer: opts.Observer,
		now:      opts.Now,
		id:       uuid.NewString(),
		phase:    PhaseNotStarted,
		hash:     h,
		buf:      make([]byte, ChunkSize),
	}
	if r.fsys == nil {
		r.fsys = afero.NewOsFs()
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	if r.now == nil {
		r.now = time.Now
	}
	r.logger = r.logger.With(
		slog.String("run_id", r.id),
		slog.String("root", root),
	)
	return r, nil
}

func (r *run) setPhase(phase Phase) {
	if r.phase == phase {
		return
	}
	r.phase = phase
	r.logger.Debug("fingerprint phase", "phase", string(phase))
	if r.observer != nil {
		r.observer.PhaseChanged(phase)
	}
}

func (r *run) fail(err error) (*Result, error) {
	r.setPhase(PhaseErrored)
	return nil, err
}

func (r *run) execute(ctx context.Context) (*Result, error) {
	started := r.now()

	r.setPhase(PhaseValidating)
	if err := ValidateRoot(r.fsys, r.root); err != nil {
		return r.fail(err)
	}
	absRoot, err := filepath.Abs(r.root)
	if err != nil {
		return r.fail(&UnexpectedError{Op: "resolve root", Path: r.root, Err: err})
	}

	r.logger.Info("fingerprint started",
		"algorithm", r.opts.Algorithm.String(),
		"include_filenames", r.opts.IncludeFilenames,
		"sort_files", r.opts.SortFiles,
	)
	if !r.opts.SortFiles {
		r.logger.Debug("using native traversal order",
			"decision_type", "ordering",
			"decision_result", "native",
			"decision_reason", "sort_files disabled; digest may differ across platforms",
		)
	}

	r.setPhase(PhaseWalking)
	var (
		count    int
		hashed   int
		warnings []*FileReadError
	)
	for entry, walkErr := range Order(Walk(r.fsys, r.root), r.opts.SortFiles) {
		if walkErr != nil {
			return r.fail(walkErr)
		}
		if err := ctx.Err(); err != nil {
			return r.fail(err)
		}
		r.setPhase(PhaseHashing)

		count++
		outcome, err := r.add(ctx, entry)
		if err != nil {
			return r.fail(err)
		}
		if outcome.OK() {
			hashed++
		} else {
			warnings = append(warnings, outcome.Err)
			r.logger.Warn("file unreadable; content skipped",
				"event_type", "file_read_failed",
				"error_hint", "check file permissions or whether the file is locked",
				"impact", "digest does not cover this file's content",
				"path", entry.RelPath,
				"bytes_hashed", outcome.BytesHashed,
				"error", outcome.Err.Err,
			)
		}
		if r.observer != nil {
			r.observer.FileHashed(count, outcome)
		}
	}

	digest := hex.EncodeToString(r.hash.Sum(nil))
	r.setPhase(PhaseFinalized)

	finished := r.now()
	result := &Result{
		RunID:            r.id,
		Digest:           digest,
		Algorithm:        r.opts.Algorithm,
		FileCount:        count,
		HashedCount:      hashed,
		Warnings:         warnings,
		DirectoryName:    filepath.Base(absRoot),
		Root:             absRoot,
		IncludeFilenames: r.opts.IncludeFilenames,
		SortFiles:        r.opts.SortFiles,
		NormalizeUnicode: r.opts.NormalizeUnicode,
		ComputedAt:       finished,
		Elapsed:          finished.Sub(started),
	}
	r.logger.Info("fingerprint complete",
		"digest", digest,
		"file_count", count,
		"unreadable", len(warnings),
	)
	return result, nil
}

// add feeds one entry into the hash state. The returned error is only set
// when ctx was cancelled; read failures are reported on the outcome.
func (r *run) add(ctx context.Context, entry FileEntry) (FileOutcome, error) {
	outcome := FileOutcome{Entry: entry}

	if r.opts.IncludeFilenames {
		_, _ = r.hash.Write([]byte(r.pathBytes(entry.RelPath)))
	}

	n, err := r.stream(ctx, entry.AbsPath)
	outcome.BytesHashed = n
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return outcome, ctxErr
		}
		outcome.Err = &FileReadError{Path: entry.RelPath, Err: err}
	}
	return outcome, nil
}

func (r *run) pathBytes(rel string) string {
	if r.opts.NormalizeUnicode {
		return norm.NFC.String(rel)
	}
	return rel
}

// stream copies the file into the hash state one chunk at a time. Bytes fed
// before a failure remain part of the digest.
func (r *run) stream(ctx context.Context, abs string) (int64, error) {
	f, err := r.fsys.Open(abs)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, readErr := f.Read(r.buf)
		if n > 0 {
			_, _ = r.hash.Write(r.buf[:n])
			total += int64(n)
		}
		if readErr == io.EOF {
			return total, nil
		}
		if readErr != nil {
			return total, readErr
		}
	}
}
