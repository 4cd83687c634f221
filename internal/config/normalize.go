package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeFingerprint()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeFingerprint() {
	if value, ok := os.LookupEnv("DIRPRINT_ALGORITHM"); ok && strings.TrimSpace(value) != "" {
		c.Fingerprint.Algorithm = value
	}
	c.Fingerprint.Algorithm = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(c.Fingerprint.Algorithm)), "-", "")
	if c.Fingerprint.Algorithm == "" {
		c.Fingerprint.Algorithm = defaultAlgorithm
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Report.Dir) == "" {
		c.Report.Dir = defaultReportDir
	}
	if c.Report.Dir, err = expandPath(c.Report.Dir); err != nil {
		return fmt.Errorf("report.dir: %w", err)
	}
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath()
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	if strings.TrimSpace(c.Logging.Dir) != "" {
		if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
			return fmt.Errorf("logging.dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("DIRPRINT_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
