package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var errDigestMismatch = errors.New("digests differ")

type compareOutput struct {
	Algorithm string       `json:"algorithm"`
	Match     bool         `json:"match"`
	Left      compareEntry `json:"left"`
	Right     compareEntry `json:"right"`
}

type compareEntry struct {
	Root       string   `json:"root"`
	Digest     string   `json:"digest"`
	FileCount  int      `json:"file_count"`
	Unreadable []string `json:"unreadable,omitempty"`
}

func newCompareCommand(ctx *commandContext) *cobra.Command {
	var (
		flags  hashFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "compare <dirA> <dirB>",
		Short: "Fingerprint two directories with identical options and compare",
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

			var entries [2]compareEntry
			for i, dir := range args {
				res, err := ctx.compute(cmd.Context(), dir, opts)
				if err != nil {
					return err
				}
				entries[i] = compareEntry{Root: res.Root, Digest: res.Digest, FileCount: res.FileCount}
				for _, warning := range res.Warnings {
					entries[i].Unreadable = append(entries[i].Unreadable, warning.Path)
				}
			}

			result := compareOutput{
				Algorithm: opts.Algorithm.String(),
				Match:     entries[0].Digest == entries[1].Digest,
				Left:      entries[0],
				Right:     entries[1],
			}

			if asJSON {
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				rows := make([][]string, 0, 2)
				for _, entry := range entries {
					rows = append(rows, []string{
						entry.Root,
						entry.Digest,
						strconv.Itoa(entry.FileCount),
						strconv.Itoa(len(entry.Unreadable)),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Directory", opts.Algorithm.Label(), "Files", "Unreadable"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
				))
				if result.Match {
					fmt.Fprintln(out, renderStatusLine(statusOK, "directories match", colorize))
				} else {
					fmt.Fprintln(out, renderStatusLine(statusError, "directories differ", colorize))
				}
			}

			if !result.Match {
				return errDigestMismatch
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the comparison as JSON")
	return cmd
}
