package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"dirprint/internal/fingerprint"
)

// ErrNoDigest is returned when a report carries no digest line.
var ErrNoDigest = errors.New("report has no digest line")

// Parsed holds the fields read back from a persisted report.
type Parsed struct {
	DirectoryName string
	Algorithm     fingerprint.Algorithm
	Digest        string
}

// Parse reads a persisted report. The algorithm is taken from the digest
// line label, so reports written with any supported algorithm round-trip.
func Parse(r io.Reader) (*Parsed, error) {
	var parsed Parsed
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if name, ok := strings.CutPrefix(line, "目錄名稱:"); ok {
			parsed.DirectoryName = strings.TrimSpace(name)
			continue
		}
		rest, ok := strings.CutPrefix(line, "目錄 ")
		if !ok {
			continue
		}
		label, digest, ok := strings.Cut(rest, ":")
		if !ok {
			continue
		}
		algo, err := fingerprint.ParseAlgorithm(label)
		if err != nil {
			return nil, fmt.Errorf("report digest label: %w", err)
		}
		parsed.Algorithm = algo
		parsed.Digest = strings.ToLower(strings.TrimSpace(digest))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	if parsed.Digest == "" {
		return nil, ErrNoDigest
	}
	return &parsed, nil
}

// ParseDigest returns only the digest of a persisted report.
func ParseDigest(r io.Reader) (string, error) {
	parsed, err := Parse(r)
	if err != nil {
		return "", err
	}
	return parsed.Digest, nil
}
