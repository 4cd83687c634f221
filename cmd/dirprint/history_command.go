package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dirprint/internal/config"
	"dirprint/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		filter history.Filter
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded fingerprint runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			if store == nil {
				return errors.New("history is disabled in configuration")
			}
			defer store.Close()

			if filter.Root != "" {
				root, err := config.ExpandPath(filter.Root)
				if err != nil {
					return err
				}
				filter.Root = root
			}

			runs, err := store.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if asJSON {
				if runs == nil {
					runs = []history.Run{}
				}
				return writeJSON(cmd, runs)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ComputedAt.Local().Format("2006-01-02 15:04:05"),
					run.DirectoryName,
					run.Algorithm,
					run.Digest,
					strconv.Itoa(run.FileCount),
					strconv.Itoa(run.UnreadableCount),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Computed", "Directory", "Algorithm", "Digest", "Files", "Unreadable"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.DirectoryName, "dir", "", "Only show runs for this directory name")
	cmd.Flags().StringVar(&filter.Root, "root", "", "Only show runs for this directory path")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit runs as JSON")
	return cmd
}
