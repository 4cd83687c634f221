package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"dirprint/internal/fingerprint"
	"dirprint/internal/report"
)

const bannerRule = 60

func newInteractiveCommand(ctx *commandContext) *cobra.Command {
	var flags hashFlags

	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Prompt for directories and fingerprint them one at a time",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, cfg)
			if err != nil {
				return err
			}
			store, err := ctx.openHistory()
			if err != nil {
				store = nil
			}
			if store != nil {
				defer store.Close()
			}

			runCtx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			session := &interactiveSession{
				cc:        ctx,
				out:       cmd.OutOrStdout(),
				lines:     readLines(runCtx, cmd.InOrStdin()),
				opts:      opts,
				reportDir: cfg.Report.Dir,
				record: func(runCtx context.Context, res *fingerprint.Result) {
					ctx.record(runCtx, store, res)
				},
			}
			return session.run(runCtx)
		},
	}
	flags.register(cmd)
	return cmd
}

type interactiveSession struct {
	cc        *commandContext
	out       io.Writer
	lines     <-chan string
	opts      fingerprint.Options
	reportDir string
	record    func(context.Context, *fingerprint.Result)
}

// readLines feeds stdin lines to a channel so prompts can be abandoned when
// ctx is cancelled. The channel closes at EOF.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

var errInputClosed = errors.New("input closed")

func (s *interactiveSession) prompt(ctx context.Context, question string) (string, error) {
	fmt.Fprint(s.out, question)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			return "", errInputClosed
		}
		return strings.TrimSpace(line), nil
	}
}

func (s *interactiveSession) run(ctx context.Context) error {
	label := s.opts.Algorithm.Label()
	rule := strings.Repeat("=", bannerRule)
	fmt.Fprintln(s.out, rule)
	fmt.Fprintf(s.out, "📁 目錄 %s 計算工具\n", label)
	fmt.Fprintln(s.out, rule)
	fmt.Fprintf(s.out, "此工具會計算整個目錄的單一 %s 值\n", label)
	fmt.Fprintln(s.out, "適用於目錄版本比較和完整性驗證")
	fmt.Fprintln(s.out)

	for {
		target, err := s.prompt(ctx, "請輸入目標目錄路徑 (輸入 'q' 退出): ")
		switch {
		case errors.Is(err, errInputClosed):
			fmt.Fprintln(s.out, "\n👋 程式結束")
			return nil
		case err != nil:
			fmt.Fprintln(s.out, "\n\n👋 程式被使用者中斷")
			return nil
		}

		if strings.EqualFold(target, "q") {
			fmt.Fprintln(s.out, "👋 程式結束")
			return nil
		}
		if target == "" {
			fmt.Fprintln(s.out, "⚠️  請輸入有效的目錄路徑")
			continue
		}

		res := s.computeOne(ctx, target)
		if ctx.Err() != nil {
			fmt.Fprintln(s.out, "\n\n👋 程式被使用者中斷")
			return nil
		}
		if res != nil {
			answer, err := s.prompt(ctx, "\n是否要將結果保存到檔案? (y/n): ")
			if errors.Is(err, errInputClosed) {
				fmt.Fprintln(s.out, "\n👋 程式結束")
				return nil
			}
			if err != nil {
				fmt.Fprintln(s.out, "\n\n👋 程式被使用者中斷")
				return nil
			}
			if strings.EqualFold(answer, "y") {
				s.save(ctx, res)
			}
		}
		fmt.Fprintln(s.out, "\n"+rule)
	}
}

func (s *interactiveSession) computeOne(ctx context.Context, target string) *fingerprint.Result {
	label := s.opts.Algorithm.Label()
	fmt.Fprintln(s.out, "\n🔧 計算選項:")
	fmt.Fprintf(s.out, "✅ 將檔案名稱納入 %s 計算: %s\n", label, chineseYesNo(s.opts.IncludeFilenames))
	fmt.Fprintf(s.out, "✅ 對檔案進行排序: %s\n", chineseYesNo(s.opts.SortFiles))
	fmt.Fprintln(s.out)

	opts := s.opts
	opts.Observer = &interactiveProgress{out: s.out, label: label, target: target}
	res, err := s.cc.compute(ctx, target, opts)
	if err != nil {
		switch {
		case errors.Is(err, fingerprint.ErrPathNotFound):
			fmt.Fprintf(s.out, "錯誤: 目錄 %s 不存在\n", target)
		case errors.Is(err, fingerprint.ErrNotADirectory):
			fmt.Fprintf(s.out, "錯誤: %s 不是一個目錄\n", target)
		case ctx.Err() != nil:
		default:
			fmt.Fprintf(s.out, "錯誤: 計算目錄 %s 時發生錯誤\n", label)
			fmt.Fprintf(s.out, "錯誤詳情: %v\n", err)
		}
		return nil
	}

	rule := strings.Repeat("=", 50)
	fmt.Fprintln(s.out, rule)
	fmt.Fprintf(s.out, "✅ 目錄 %s 計算完成!\n", label)
	fmt.Fprintf(s.out, "📁 目錄: %s\n", target)
	fmt.Fprintf(s.out, "🔐 %s: %s\n", label, res.Digest)
	fmt.Fprintf(s.out, "📊 檔案數量: %d\n", res.FileCount)
	if s.record != nil {
		s.record(ctx, res)
	}
	return res
}

func (s *interactiveSession) save(ctx context.Context, res *fingerprint.Result) {
	path, err := report.Save(ctx, res, s.reportDir)
	if err != nil {
		var writeErr *report.ReportWriteError
		if errors.As(err, &writeErr) {
			path = writeErr.Path
			err = writeErr.Err
		}
		fmt.Fprintf(s.out, "錯誤: 無法保存結果到 %s\n", path)
		fmt.Fprintf(s.out, "錯誤詳情: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "✅ 結果已保存到: %s\n", path)
}

// interactiveProgress prints the classic per-file progress lines.
type interactiveProgress struct {
	out    io.Writer
	label  string
	target string
}

func (p *interactiveProgress) PhaseChanged(phase fingerprint.Phase) {
	if phase == fingerprint.PhaseWalking {
		fmt.Fprintf(p.out, "正在計算目錄 %s: %s\n", p.label, p.target)
		fmt.Fprintln(p.out, strings.Repeat("=", 50))
	}
}

func (p *interactiveProgress) FileHashed(index int, outcome fingerprint.FileOutcome) {
	fmt.Fprintf(p.out, "處理檔案 (%d): %s\n", index, outcome.Entry.RelPath)
	if !outcome.OK() {
		fmt.Fprintf(p.out, "警告: 無法讀取檔案 %s: %v\n", outcome.Entry.RelPath, outcome.Err.Err)
	}
}

func chineseYesNo(value bool) string {
	if value {
		return "是"
	}
	return "否"
}
