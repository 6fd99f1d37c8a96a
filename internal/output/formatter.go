package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/selimozcann/urlrisk/internal/model"
	"github.com/selimozcann/urlrisk/internal/riskcolor"
)

var (
	errColor  = color.New(color.FgRed)
	infoColor = color.New(color.FgCyan)
)

// PrintScanHeader announces a batch scan.
func PrintScanHeader(w io.Writer, source string, total int) {
	infoColor.Fprintf(w, "[+] Scanning %d URL(s) from %s\n", total, source)
}

// PrintSummaryLine prints the one-line form of a record.
func PrintSummaryLine(w io.Writer, idx, total int, rec Record) {
	v := rec.Verdict
	if v.Failed() {
		fmt.Fprintf(w, "[%d/%d] %s | %s\n", idx+1, total, rec.InputURL, errColor.Sprint("error: "+v.ErrorMessage()))
		return
	}
	level := riskcolor.WrapByLevel(fmt.Sprintf("%-6s", v.RiskLevel), v.RiskLevel)
	fmt.Fprintf(w, "[%d/%d] %s | score=%d | %s | %s\n", idx+1, total, rec.InputURL, v.Score, level, strings.Join(v.Breakdown, ", "))
}

// PrintSummary prints the tier counters for a finished scan.
func PrintSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "\nTotal: %d | %s | %s | %s | errors: %d\n",
		s.Total,
		riskcolor.WrapByLevel(fmt.Sprintf("high: %d", s.High), model.RiskHigh),
		riskcolor.WrapByLevel(fmt.Sprintf("medium: %d", s.Medium), model.RiskMedium),
		riskcolor.WrapByLevel(fmt.Sprintf("low: %d", s.Low), model.RiskLow),
		s.Errors,
	)
}
