package fingerprint

import "time"

// Phase is a step of a single computation run.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseValidating Phase = "validating"
	PhaseWalking    Phase = "walking"
	PhaseHashing    Phase = "hashing"
	PhaseFinalized  Phase = "finalized"
	PhaseErrored    Phase = "errored"
)

// FileOutcome records what happened to one entry. Err is nil when the whole
// file was hashed.
type FileOutcome struct {
	Entry       FileEntry
	BytesHashed int64
	Err         *FileReadError
}

// OK reports whether the file content was hashed completely.
func (o FileOutcome) OK() bool { return o.Err == nil }

// Observer receives progress notifications from Compute. Calls happen on the
// computing goroutine.
type Observer interface {
	PhaseChanged(phase Phase)
	FileHashed(index int, outcome FileOutcome)
}

// Result is the immutable outcome of one successful run.
type Result struct {
	RunID            string
	Digest           string
	Algorithm        Algorithm
	FileCount        int
	HashedCount      int
	Warnings         []*FileReadError
	DirectoryName    string
	Root             string
	IncludeFilenames bool
	SortFiles        bool
	NormalizeUnicode bool
	ComputedAt       time.Time
	Elapsed          time.Duration
}

// Complete reports whether every counted file was fully hashed.
func (r *Result) Complete() bool {
	return r != nil && len(r.Warnings) == 0
}
