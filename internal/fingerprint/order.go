package fingerprint

import (
	"iter"
	"slices"
	"strings"
)

// Order applies the ordering policy to a walk. With sortFiles false the
// sequence is returned untouched; otherwise entries are collected and
// yielded in byte-wise lexicographic order of RelPath.
func Order(entries iter.Seq2[FileEntry, error], sortFiles bool) iter.Seq2[FileEntry, error] {
	if !sortFiles {
		return entries
	}
	return func(yield func(FileEntry, error) bool) {
		sorted, err := Sorted(entries)
		if err != nil {
			yield(FileEntry{}, err)
			return
		}
		for _, entry := range sorted {
			if !yield(entry, nil) {
				return
			}
		}
	}
}

// Sorted drains entries and returns them ordered by RelPath. The first error
// from the sequence is returned with no entries.
func Sorted(entries iter.Seq2[FileEntry, error]) ([]FileEntry, error) {
	var out []FileEntry
	for entry, err := range entries {
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	slices.SortFunc(out, func(a, b FileEntry) int {
		return strings.Compare(a.RelPath, b.RelPath)
	})
	return out, nil
}
