// Package fingerprint computes a single deterministic digest for the content
// of a directory tree.
//
// The engine is split into a lazy Walk over regular files, an Order policy
// that optionally imposes byte-wise path order, and Compute, which streams
// every file through one incremental hash state in fixed 8192-byte chunks.
// Unreadable files are recorded as warnings on the Result instead of failing
// the run; only root validation errors (ErrPathNotFound, ErrNotADirectory)
// and unexpected traversal failures abort a computation.
//
// Reproducible digests require SortFiles. Native order depends on the
// underlying storage and is not stable across platforms.
//
// Primary entry points:
//   - Compute: fingerprints a directory with the supplied Options
//   - Walk / Order: the traversal pipeline used by Compute
//   - ParseAlgorithm: resolves configured hash names
package fingerprint
