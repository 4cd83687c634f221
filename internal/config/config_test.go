package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"dirprint/internal/config"
	"dirprint/internal/fingerprint"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_DATA_HOME", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantHistory := filepath.Join(tempHome, ".local", "share", "dirprint", "history.db")
	if cfg.History.Path != wantHistory {
		t.Fatalf("unexpected history path: got %q want %q", cfg.History.Path, wantHistory)
	}
	if !filepath.IsAbs(cfg.Report.Dir) {
		t.Fatalf("expected absolute report dir, got %q", cfg.Report.Dir)
	}
	if cfg.Fingerprint.Algorithm != "md5" || !cfg.Fingerprint.IncludeFilenames || !cfg.Fingerprint.SortFiles {
		t.Fatalf("unexpected fingerprint defaults: %+v", cfg.Fingerprint)
	}

	opts := cfg.FingerprintOptions()
	if opts.Algorithm != fingerprint.MD5 || !opts.SortFiles || !opts.IncludeFilenames || opts.NormalizeUnicode {
		t.Fatalf("unexpected engine options: %+v", opts)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if info, err := os.Stat(filepath.Dir(cfg.History.Path)); err != nil || !info.IsDir() {
		t.Fatalf("expected history directory to exist: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "dirprint.toml")

	type payload struct {
		Fingerprint struct {
			Algorithm string `toml:"algorithm"`
			SortFiles bool   `toml:"sort_files"`
		} `toml:"fingerprint"`
		Report struct {
			Dir string `toml:"dir"`
		} `toml:"report"`
		History struct {
			Enabled bool `toml:"enabled"`
			Keep    int  `toml:"keep"`
		} `toml:"history"`
	}
	custom := payload{}
	custom.Fingerprint.Algorithm = "SHA-256"
	custom.Fingerprint.SortFiles = false
	custom.Report.Dir = filepath.Join(tempDir, "reports")
	custom.History.Enabled = false
	custom.History.Keep = 5
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Fingerprint.Algorithm != "sha256" {
		t.Fatalf("expected normalized algorithm, got %q", cfg.Fingerprint.Algorithm)
	}
	if cfg.Fingerprint.SortFiles {
		t.Fatal("expected sort_files override to be false")
	}
	if !cfg.Fingerprint.IncludeFilenames {
		t.Fatal("expected include_filenames default to survive partial config")
	}
	if cfg.Report.Dir != filepath.Join(tempDir, "reports") {
		t.Fatalf("unexpected report dir: %q", cfg.Report.Dir)
	}
	if cfg.History.Enabled || cfg.History.Keep != 5 {
		t.Fatalf("unexpected history section: %+v", cfg.History)
	}
}

func TestEnvOverridesAlgorithmAndLevel(t *testing.T) {
	t.Setenv("DIRPRINT_ALGORITHM", "blake3")
	t.Setenv("DIRPRINT_LOG_LEVEL", "DEBUG")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Fingerprint.Algorithm != "blake3" {
		t.Errorf("expected algorithm from env, got %q", cfg.Fingerprint.Algorithm)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level from env, got %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dirprint.toml")
	if err := os.WriteFile(path, []byte("[fingerprint]\nsort = true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "include_filenames = true") {
		t.Fatalf("sample config missing fingerprint options: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Fingerprint.Algorithm != "md5" || !cfg.Fingerprint.SortFiles {
		t.Fatalf("unexpected sample values: %+v", cfg.Fingerprint)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Fingerprint.Algorithm = "crc32"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported algorithm")
	}

	cfg = config.Default()
	cfg.History.Keep = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative keep")
	}

	cfg = config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log format")
	}

	cfg = config.Default()
	cfg.History.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when history enabled without a path")
	}
}
