package main

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dirprint/internal/config"
	"dirprint/internal/report"
	"dirprint/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[fingerprint]\nalgorithm = %q\n\n[report]\ndir = %q\n\n[history]\nenabled = %t\npath = %q\nkeep = %d\n\n[logging]\nlevel = %q\n",
		cfg.Fingerprint.Algorithm,
		cfg.Report.Dir,
		cfg.History.Enabled,
		cfg.History.Path,
		cfg.History.Keep,
		cfg.Logging.Level,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, args, configPath, nil)
}

func runCLIWithInput(t *testing.T, args []string, configPath string, stdin io.Reader) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func md5Hex(parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, "")))
	return hex.EncodeToString(sum[:])
}

func sampleTree(t *testing.T, base, name string) string {
	t.Helper()
	return testsupport.WriteTree(t, filepath.Join(base, name), map[string]string{
		"b.txt": "world",
		"a.txt": "hello",
	})
}

func TestCLIHashPrintsDigest(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := sampleTree(t, env.baseDir, "project")

	stdout, _, err := runCLI(t, []string{"hash", dir}, env.configPath)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	want := md5Hex("a.txt", "hello", "b.txt", "world")
	if !strings.Contains(stdout, want) {
		t.Fatalf("expected digest %s in output:\n%s", want, stdout)
	}
	if !strings.Contains(stdout, "first recorded run") {
		t.Fatalf("expected first-run notice:\n%s", stdout)
	}
}

func TestCLIHashJSONDetectsChanges(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := sampleTree(t, env.baseDir, "project")

	decode := func(stdout string) hashOutput {
		t.Helper()
		var outputs []hashOutput
		if err := json.Unmarshal([]byte(stdout), &outputs); err != nil {
			t.Fatalf("decode json: %v\n%s", err, stdout)
		}
		if len(outputs) != 1 {
			t.Fatalf("expected one result, got %d", len(outputs))
		}
		return outputs[0]
	}

	stdout, _, err := runCLI(t, []string{"hash", "--json", dir}, env.configPath)
	if err != nil {
		t.Fatalf("first hash: %v", err)
	}
	first := decode(stdout)
	if first.Changed != nil || first.Previous != nil {
		t.Fatalf("first run should have no previous: %+v", first)
	}

	stdout, _, err = runCLI(t, []string{"hash", "--json", dir}, env.configPath)
	if err != nil {
		t.Fatalf("second hash: %v", err)
	}
	second := decode(stdout)
	if second.Changed == nil || *second.Changed {
		t.Fatalf("expected unchanged second run: %+v", second)
	}
	if second.Previous == nil || second.Previous.ID != first.RunID {
		t.Fatalf("expected previous run %s, got %+v", first.RunID, second.Previous)
	}

	testsupport.WriteTree(t, dir, map[string]string{"c.txt": "new"})
	stdout, _, err = runCLI(t, []string{"hash", "--json", dir}, env.configPath)
	if err != nil {
		t.Fatalf("third hash: %v", err)
	}
	third := decode(stdout)
	if third.Changed == nil || !*third.Changed {
		t.Fatalf("expected change after adding a file: %+v", third)
	}
}

func TestCLIHashContinuesPastMissingDirectory(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())
	dir := sampleTree(t, env.baseDir, "project")
	missing := filepath.Join(env.baseDir, "missing")

	stdout, stderr, err := runCLI(t, []string{"hash", missing, dir}, env.configPath)
	if err == nil {
		t.Fatal("expected error when a directory is missing")
	}
	if !strings.Contains(err.Error(), "1 of 2 directories failed") {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr, "path not found") {
		t.Fatalf("expected diagnostic on stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, md5Hex("a.txt", "hello", "b.txt", "world")) {
		t.Fatalf("second directory should still be hashed:\n%s", stdout)
	}
}

func TestCLIHashOptionsFlags(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())
	dir := sampleTree(t, env.baseDir, "project")

	stdout, _, err := runCLI(t, []string{"hash", "--no-filenames", dir}, env.configPath)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.Contains(stdout, md5Hex("hello", "world")) {
		t.Fatalf("expected content-only digest:\n%s", stdout)
	}

	if _, _, err := runCLI(t, []string{"hash", "--algorithm", "crc32", dir}, env.configPath); err == nil {
		t.Fatal("expected unsupported algorithm error")
	}
}

func TestCLIHashSaveWritesReport(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())
	dir := sampleTree(t, env.baseDir, "project")

	stdout, _, err := runCLI(t, []string{"hash", "--save", dir}, env.configPath)
	if err != nil {
		t.Fatalf("hash --save: %v", err)
	}
	reportPath := filepath.Join(env.cfg.Report.Dir, "project_directory_md5.txt")
	if !strings.Contains(stdout, reportPath) {
		t.Fatalf("expected report path in output:\n%s", stdout)
	}
	file, err := os.Open(reportPath)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer file.Close()
	digest, err := report.ParseDigest(file)
	if err != nil {
		t.Fatalf("ParseDigest: %v", err)
	}
	if digest != md5Hex("a.txt", "hello", "b.txt", "world") {
		t.Fatalf("report digest = %s", digest)
	}
}

func TestCLICompare(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())
	left := sampleTree(t, env.baseDir, "left")
	right := filepath.Join(env.baseDir, "right")
	testsupport.CopyTree(t, left, right)

	stdout, _, err := runCLI(t, []string{"compare", left, right}, env.configPath)
	if err != nil {
		t.Fatalf("compare identical: %v", err)
	}
	if !strings.Contains(stdout, "directories match") {
		t.Fatalf("expected match:\n%s", stdout)
	}

	testsupport.WriteTree(t, right, map[string]string{"a.txt": "HELLO"})
	stdout, _, err = runCLI(t, []string{"compare", left, right}, env.configPath)
	if !errors.Is(err, errDigestMismatch) {
		t.Fatalf("expected errDigestMismatch, got %v", err)
	}
	if !strings.Contains(stdout, "directories differ") {
		t.Fatalf("expected differ:\n%s", stdout)
	}
}

func TestCLIVerify(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())
	dir := sampleTree(t, env.baseDir, "project")
	digest := md5Hex("a.txt", "hello", "b.txt", "world")

	if _, _, err := runCLI(t, []string{"verify", dir, strings.ToUpper(digest)}, env.configPath); err != nil {
		t.Fatalf("verify digest: %v", err)
	}

	if _, _, err := runCLI(t, []string{"hash", "--save", "--algorithm", "sha256", dir}, env.configPath); err != nil {
		t.Fatalf("hash --save: %v", err)
	}
	reportPath := filepath.Join(env.cfg.Report.Dir, "project_directory_sha256.txt")
	stdout, _, err := runCLI(t, []string{"verify", "--json", dir, reportPath}, env.configPath)
	if err != nil {
		t.Fatalf("verify report: %v", err)
	}
	var result verifyOutput
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.Match || result.Algorithm != "sha256" || result.Source != reportPath {
		t.Fatalf("unexpected verify result: %+v", result)
	}

	testsupport.WriteTree(t, dir, map[string]string{"b.txt": "changed"})
	if _, _, err := runCLI(t, []string{"verify", dir, digest}, env.configPath); !errors.Is(err, errDigestMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"verify", dir, "not-hex"}, env.configPath); err == nil {
		t.Fatal("expected error for invalid expected digest")
	}
}

func TestCLIHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := sampleTree(t, env.baseDir, "project")
	other := sampleTree(t, env.baseDir, "other")

	for _, target := range []string{dir, dir, other} {
		if _, _, err := runCLI(t, []string{"hash", target}, env.configPath); err != nil {
			t.Fatalf("hash %s: %v", target, err)
		}
	}

	stdout, _, err := runCLI(t, []string{"history", "--json", "--dir", "project"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var runs []map[string]any
	if err := json.Unmarshal([]byte(stdout), &runs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs for project, got %d", len(runs))
	}

	stdout, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history table: %v", err)
	}
	if !strings.Contains(stdout, "project") || !strings.Contains(stdout, "other") {
		t.Fatalf("expected both directories in table:\n%s", stdout)
	}
}

func TestCLIHistoryDisabled(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())
	if _, _, err := runCLI(t, []string{"history"}, env.configPath); err == nil {
		t.Fatal("expected error when history is disabled")
	}
}

func TestCLIInteractiveSession(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())
	dir := sampleTree(t, env.baseDir, "project")
	missing := filepath.Join(env.baseDir, "missing")

	input := strings.NewReader(strings.Join([]string{"", missing, dir, "y", "Q"}, "\n") + "\n")
	stdout, _, err := runCLIWithInput(t, []string{"interactive"}, env.configPath, input)
	if err != nil {
		t.Fatalf("interactive: %v", err)
	}

	for _, want := range []string{
		"請輸入有效的目錄路徑",
		"錯誤: 目錄 " + missing + " 不存在",
		"處理檔案 (1): a.txt",
		"🔐 MD5: " + md5Hex("a.txt", "hello", "b.txt", "world"),
		"結果已保存到",
		"👋 程式結束",
	} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("interactive output missing %q:\n%s", want, stdout)
		}
	}
	if _, err := os.Stat(filepath.Join(env.cfg.Report.Dir, "project_directory_md5.txt")); err != nil {
		t.Fatalf("expected saved report: %v", err)
	}
}

func TestCLIInteractiveEndsAtEOF(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithoutHistory())
	stdout, _, err := runCLIWithInput(t, []string{"interactive"}, env.configPath, strings.NewReader(""))
	if err != nil {
		t.Fatalf("interactive: %v", err)
	}
	if !strings.Contains(stdout, "👋 程式結束") {
		t.Fatalf("expected farewell at EOF:\n%s", stdout)
	}
}

func TestCLIConfigInitAndValidate(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "dirprint.toml")

	stdout, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(stdout, target) {
		t.Fatalf("expected target path in output: %s", stdout)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}

	t.Setenv("HOME", base)
	stdout, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(stdout, "Configuration valid") || !strings.Contains(stdout, "Algorithm: md5") {
		t.Fatalf("unexpected validate output: %s", stdout)
	}
}
