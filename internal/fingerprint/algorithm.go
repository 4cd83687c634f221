package fingerprint

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"sort"
	"strings"

	"lukechampine.com/blake3"
)

// Algorithm names a supported digest function.
type Algorithm string

const (
	MD5    Algorithm = "md5"
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
	SHA512 Algorithm = "sha512"
	BLAKE3 Algorithm = "blake3"
)

// DefaultAlgorithm keeps digests comparable with reports written by earlier
// releases, which were always MD5.
const DefaultAlgorithm = MD5

var algorithms = map[Algorithm]func() hash.Hash{
	MD5:    md5.New,
	SHA1:   sha1.New,
	SHA256: sha256.New,
	SHA512: sha512.New,
	BLAKE3: func() hash.Hash { return blake3.New(32, nil) },
}

// ParseAlgorithm resolves a configured name such as "SHA-256" or "md5".
// An empty value selects DefaultAlgorithm.
func ParseAlgorithm(value string) (Algorithm, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.ReplaceAll(normalized, "-", "")
	if normalized == "" {
		return DefaultAlgorithm, nil
	}
	algo := Algorithm(normalized)
	if _, ok := algorithms[algo]; !ok {
		return "", fmt.Errorf("unsupported hash algorithm %q (supported: %s)", value, strings.Join(SupportedAlgorithms(), ", "))
	}
	return algo, nil
}

// SupportedAlgorithms lists the accepted algorithm names in sorted order.
func SupportedAlgorithms() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

// New returns a fresh hash state for the algorithm.
func (a Algorithm) New() (hash.Hash, error) {
	ctor, ok := algorithms[a]
	if !ok {
		return nil, fmt.Errorf("unsupported hash algorithm %q", string(a))
	}
	return ctor(), nil
}

// Label is the upper-case display name used in reports ("MD5", "SHA256").
func (a Algorithm) Label() string {
	return strings.ToUpper(string(a))
}

func (a Algorithm) String() string { return string(a) }
