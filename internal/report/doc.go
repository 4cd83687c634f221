// Package report renders fingerprint results for people and for disk.
//
// The persisted text format is fixed so reports written by earlier releases
// stay readable by `dirprint verify`: a title, a rule of 30 '=' characters,
// the directory name, the local computation time, the digest line, and three
// fixed notes. Saves are atomic and serialized with an advisory file lock.
package report
