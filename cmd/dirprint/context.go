package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"dirprint/internal/config"
	"dirprint/internal/fingerprint"
	"dirprint/internal/history"
	"dirprint/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	log        *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// logger builds the process logger once. A broken logging setup falls back
// to a no-op logger rather than failing the command.
func (c *commandContext) logger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, _ := c.ensureConfig()
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			logger = logging.NewNop()
		}
		c.log = logger
	})
	return c.log
}

// openHistory returns nil when history is disabled.
func (c *commandContext) openHistory() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, nil
	}
	return history.Open(cfg.History.Path)
}

// compute runs the engine with logging wired in and the run id attached to
// the logger for follow-up messages.
func (c *commandContext) compute(ctx context.Context, dir string, opts fingerprint.Options) (*fingerprint.Result, error) {
	opts.Logger = logging.NewComponentLogger(c.logger(), "fingerprint")
	return fingerprint.Compute(ctx, dir, opts)
}

// record stores res and returns the previous comparable run, if any.
// History problems are logged and never fail the command.
func (c *commandContext) record(ctx context.Context, store *history.Store, res *fingerprint.Result) *history.Run {
	if store == nil {
		return nil
	}
	cfg, _ := c.ensureConfig()
	logger := logging.WithContext(logging.WithRun(ctx, res.RunID, res.Root), logging.NewComponentLogger(c.logger(), "history"))

	previous, err := store.Latest(ctx, history.KeyFor(res))
	if err != nil {
		logging.WarnWithContext(logger, "history lookup failed", "history_lookup_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the history database at "+store.Path()),
			logging.String(logging.FieldImpact, "change detection unavailable for this run"),
		)
	}
	if err := store.Record(ctx, res); err != nil {
		logging.WarnWithContext(logger, "history record failed", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the history database at "+store.Path()),
			logging.String(logging.FieldImpact, "run not stored in history"),
		)
		return previous
	}
	if cfg != nil && cfg.History.Keep > 0 {
		removed, err := store.Prune(ctx, cfg.History.Keep)
		if err != nil {
			logging.WarnWithContext(logger, "history prune failed", "history_prune_failed", logging.Error(err))
		} else if removed > 0 {
			logger.Debug("history pruned", logging.Int64("removed", removed), logging.Int("keep", cfg.History.Keep))
		}
	}
	return previous
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
