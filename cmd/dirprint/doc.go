// Package main hosts the dirprint CLI entrypoint and command graph.
//
// Commands are thin callers around fingerprint.Compute: they resolve
// configuration and flags into engine options, render results as tables or
// JSON, persist reports, and record runs in the history store. The
// interactive command keeps the prompt-driven workflow for people who prefer
// typing paths one at a time.
package main
