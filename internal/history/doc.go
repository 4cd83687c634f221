// Package history keeps a SQLite log of past fingerprint runs.
//
// Each successful computation can be recorded with its options and digest.
// The CLI uses the log to tell whether a directory changed since the last
// run with the same options, to list earlier snapshots, and to prune old
// entries. The schema is applied from embedded, versioned migrations.
package history
