package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"dirprint/internal/fingerprint"
	"dirprint/internal/history"
	"dirprint/internal/logging"
	"dirprint/internal/report"
)

type hashOutput struct {
	RunID         string       `json:"run_id"`
	Root          string       `json:"root"`
	DirectoryName string       `json:"directory_name"`
	Algorithm     string       `json:"algorithm"`
	Digest        string       `json:"digest"`
	FileCount     int          `json:"file_count"`
	HashedCount   int          `json:"hashed_count"`
	Unreadable    []string     `json:"unreadable,omitempty"`
	ComputedAt    time.Time    `json:"computed_at"`
	ElapsedMillis int64        `json:"elapsed_ms"`
	Changed       *bool        `json:"changed,omitempty"`
	Previous      *history.Run `json:"previous,omitempty"`
	ReportPath    string       `json:"report_path,omitempty"`
	Error         string       `json:"error,omitempty"`

	result   *fingerprint.Result
	recorded bool
}

func newHashCommand(ctx *commandContext) *cobra.Command {
	var (
		flags     hashFlags
		save      bool
		reportDir string
		asJSON    bool
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "hash <dir>...",
		Short: "Fingerprint one or more directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, cfg)
			if err != nil {
				return err
			}
			if verbose {
				opts.Observer = progressPrinter{out: cmd.ErrOrStderr()}
			}
			if !cmd.Flags().Changed("report-dir") {
				reportDir = cfg.Report.Dir
			}

			store, err := ctx.openHistory()
			if err != nil {
				logging.WarnWithContext(ctx.logger(), "history unavailable", "history_open_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "runs are not recorded and change detection is off"),
				)
				store = nil
			}
			if store != nil {
				defer store.Close()
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			var (
				outputs []hashOutput
				failed  int
			)
			for _, dir := range args {
				entry, err := hashOne(cmd.Context(), ctx, store, dir, opts, save, reportDir)
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				if err != nil || entry.Error != "" {
					failed++
				}
				if entry.Digest == "" {
					fmt.Fprintln(cmd.ErrOrStderr(), renderStatusLine(statusError, err.Error(), shouldColorize(cmd.ErrOrStderr())))
					if asJSON {
						outputs = append(outputs, entry)
					}
					continue
				}
				if asJSON {
					outputs = append(outputs, entry)
					continue
				}
				if err := printHashResult(out, entry, colorize); err != nil {
					return err
				}
			}

			if asJSON {
				if err := writeJSON(cmd, outputs); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d directories failed", failed, len(args))
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&save, "save", "s", false, "Write a <dir>_directory_<algo>.txt report")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "Directory for saved reports (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit results as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print each file as it is hashed")
	return cmd
}

// hashOne computes, records and optionally saves one directory. A non-nil
// error with an empty Digest means no fingerprint was produced; a report
// failure is reported through entry.Error with the digest kept.
func hashOne(ctx context.Context, cc *commandContext, store *history.Store, dir string, opts fingerprint.Options, save bool, reportDir string) (hashOutput, error) {
	res, err := cc.compute(ctx, dir, opts)
	if err != nil {
		return hashOutput{Root: dir, Error: err.Error()}, err
	}

	entry := newHashOutput(res)
	entry.recorded = store != nil
	if previous := cc.record(ctx, store, res); previous != nil {
		changed := previous.Digest != res.Digest
		entry.Changed = &changed
		entry.Previous = previous
	}

	if save {
		path, err := report.Save(ctx, res, reportDir)
		if err != nil {
			logging.WarnWithContext(logging.WithContext(logging.WithRun(ctx, res.RunID, res.Root), cc.logger()),
				"report not saved", "report_write_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check that the report directory exists and is writable"),
				logging.String(logging.FieldImpact, "digest computed but not persisted"),
			)
			entry.Error = err.Error()
			return entry, nil
		}
		entry.ReportPath = path
	}
	return entry, nil
}

func newHashOutput(res *fingerprint.Result) hashOutput {
	entry := hashOutput{
		RunID:         res.RunID,
		Root:          res.Root,
		DirectoryName: res.DirectoryName,
		Algorithm:     res.Algorithm.String(),
		Digest:        res.Digest,
		FileCount:     res.FileCount,
		HashedCount:   res.HashedCount,
		ComputedAt:    res.ComputedAt,
		ElapsedMillis: res.Elapsed.Milliseconds(),
		result:        res,
	}
	for _, warning := range res.Warnings {
		entry.Unreadable = append(entry.Unreadable, warning.Path)
	}
	return entry
}

func printHashResult(out io.Writer, entry hashOutput, colorize bool) error {
	if err := report.Summary(out, entry.result, colorize); err != nil {
		return err
	}
	switch {
	case !entry.recorded:
	case entry.Previous == nil:
		fmt.Fprintln(out, renderStatusLine(statusInfo, "first recorded run for this directory", colorize))
	case *entry.Changed:
		fmt.Fprintln(out, renderStatusLine(statusWarn, fmt.Sprintf("changed since %s (was %s)",
			entry.Previous.ComputedAt.Local().Format("2006-01-02 15:04:05"), entry.Previous.Digest), colorize))
	default:
		fmt.Fprintln(out, renderStatusLine(statusOK, fmt.Sprintf("unchanged since %s",
			entry.Previous.ComputedAt.Local().Format("2006-01-02 15:04:05")), colorize))
	}
	if entry.ReportPath != "" {
		fmt.Fprintln(out, renderStatusLine(statusOK, "report saved to "+entry.ReportPath, colorize))
	}
	if entry.Error != "" {
		fmt.Fprintln(out, renderStatusLine(statusError, strings.TrimSpace(entry.Error), colorize))
	}
	return nil
}
