package testsupport

import (
	"path/filepath"
	"testing"

	"dirprint/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// History lives under the temp dir and file logging is off.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Report.Dir = filepath.Join(base, "reports")
	cfgVal.History.Path = filepath.Join(base, "history", "history.db")
	cfgVal.Logging.Dir = ""
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithAlgorithm overrides the fingerprint algorithm.
func WithAlgorithm(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Fingerprint.Algorithm = name
	}
}

// WithoutHistory disables run history.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// WithHistoryKeep sets the per-root retention count.
func WithHistoryKeep(keep int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Keep = keep
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Report.Dir)
}
