package report

import (
	"fmt"
	"strings"

	"dirprint/internal/fingerprint"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	ruleWidth  = 30
)

// FileName returns the report file name for a directory and algorithm.
func FileName(dirName string, algo fingerprint.Algorithm) string {
	if algo == "" {
		algo = fingerprint.DefaultAlgorithm
	}
	return fmt.Sprintf("%s_directory_%s.txt", dirName, algo.String())
}

// Render produces the persisted report text for res. Times are written in
// the local zone.
func Render(res *fingerprint.Result) string {
	label := res.Algorithm.Label()
	name := res.DirectoryName

	var b strings.Builder
	fmt.Fprintf(&b, "目錄 %s 計算結果\n", label)
	b.WriteString(strings.Repeat("=", ruleWidth))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "目錄名稱: %s\n", name)
	fmt.Fprintf(&b, "計算時間: %s\n", res.ComputedAt.Local().Format(timeLayout))
	fmt.Fprintf(&b, "目錄 %s: %s\n", label, res.Digest)
	b.WriteString("\n注意事項:\n")
	fmt.Fprintf(&b, "- 此 %s 值代表整個 '%s' 目錄的內容指紋\n", label, name)
	fmt.Fprintf(&b, "- 任何檔案的新增、刪除、修改都會改變此 %s 值\n", label)
	fmt.Fprintf(&b, "- 檔案名稱和路徑也會影響 %s 計算\n", label)
	return b.String()
}
