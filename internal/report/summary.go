package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"dirprint/internal/fingerprint"
)

// Summary writes a console summary table of res followed by any per-file
// warnings.
func Summary(w io.Writer, res *fingerprint.Result, colorize bool) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
	})

	digest := res.Digest
	if colorize {
		digest = text.Colors{text.FgGreen, text.Bold}.Sprint(digest)
	}
	unreadable := strconv.Itoa(len(res.Warnings))
	if colorize && len(res.Warnings) > 0 {
		unreadable = text.FgYellow.Sprint(unreadable)
	}

	tw.AppendRows([]table.Row{
		{"Directory", res.Root},
		{"Algorithm", res.Algorithm.Label()},
		{"Digest", digest},
		{"Files", strconv.Itoa(res.FileCount)},
		{"Unreadable", unreadable},
		{"Options", optionSummary(res)},
		{"Elapsed", res.Elapsed.Round(time.Millisecond).String()},
	})

	if _, err := fmt.Fprintln(w, tw.Render()); err != nil {
		return err
	}
	for _, warning := range res.Warnings {
		line := "warning: " + warning.Error()
		if colorize {
			line = text.FgYellow.Sprint(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func optionSummary(res *fingerprint.Result) string {
	order := "native"
	if res.SortFiles {
		order = "sorted"
	}
	names := "content only"
	if res.IncludeFilenames {
		names = "names+content"
	}
	out := names + ", " + order
	if res.NormalizeUnicode {
		out += ", nfc"
	}
	return out
}
