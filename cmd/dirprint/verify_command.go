package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"dirprint/internal/fingerprint"
	"dirprint/internal/report"
)

type verifyOutput struct {
	Root      string `json:"root"`
	Algorithm string `json:"algorithm"`
	Expected  string `json:"expected"`
	Actual    string `json:"actual"`
	Match     bool   `json:"match"`
	Source    string `json:"source"`
}

// expectedDigest resolves the second verify argument: a persisted report
// file, or a hex digest.
func expectedDigest(value string) (digest string, algo fingerprint.Algorithm, source string, err error) {
	if info, statErr := os.Stat(value); statErr == nil && !info.IsDir() {
		file, err := os.Open(value)
		if err != nil {
			return "", "", "", fmt.Errorf("open report: %w", err)
		}
		defer file.Close()
		parsed, err := report.Parse(file)
		if err != nil {
			return "", "", "", fmt.Errorf("parse report %s: %w", value, err)
		}
		return parsed.Digest, parsed.Algorithm, value, nil
	}

	digest = strings.ToLower(strings.TrimSpace(value))
	if digest == "" {
		return "", "", "", fmt.Errorf("expected digest is empty")
	}
	if _, err := hex.DecodeString(digest); err != nil {
		return "", "", "", fmt.Errorf("%q is neither a report file nor a hex digest", value)
	}
	return digest, "", "argument", nil
}

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var (
		flags  hashFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "verify <dir> <digest|report-file>",
		Short: "Recompute a directory fingerprint and check it against a known value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, cfg)
			if err != nil {
				return err
			}

			expected, reportAlgo, source, err := expectedDigest(args[1])
			if err != nil {
				return err
			}
			if reportAlgo != "" {
				if cmd.Flags().Changed("algorithm") && reportAlgo != opts.Algorithm {
					return fmt.Errorf("report was written with %s but --algorithm is %s", reportAlgo, opts.Algorithm)
				}
				opts.Algorithm = reportAlgo
			}

			res, err := ctx.compute(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			result := verifyOutput{
				Root:      res.Root,
				Algorithm: res.Algorithm.String(),
				Expected:  expected,
				Actual:    res.Digest,
				Match:     res.Digest == expected,
				Source:    source,
			}

			if asJSON {
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				if result.Match {
					fmt.Fprintln(out, renderStatusLine(statusOK, fmt.Sprintf("%s %s matches %s", res.Algorithm.Label(), res.Digest, source), colorize))
				} else {
					fmt.Fprintln(out, renderStatusLine(statusError, fmt.Sprintf("%s mismatch: expected %s, got %s", res.Algorithm.Label(), expected, res.Digest), colorize))
				}
				for _, warning := range res.Warnings {
					fmt.Fprintln(out, renderStatusLine(statusWarn, warning.Error(), colorize))
				}
			}

			if !result.Match {
				return errDigestMismatch
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the verification result as JSON")
	return cmd
}
