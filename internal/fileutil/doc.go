// Package fileutil holds small filesystem helpers shared by the reporter and
// test fixtures.
package fileutil
