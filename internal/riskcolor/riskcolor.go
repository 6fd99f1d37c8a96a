package riskcolor

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/selimozcann/urlrisk/internal/model"
	"github.com/selimozcann/urlrisk/internal/util"
)

const (
	HexHigh   = "#ef4444"
	HexMedium = "#f59e0b"
	HexLow    = "#22c55e"
)

var advisories = map[model.RiskLevel]string{
	model.RiskHigh:   "This URL contains multiple phishing indicators including suspicious keywords, insecure protocol usage, and structural anomalies. It is strongly recommended to avoid interacting with this link.",
	model.RiskMedium: "This URL shows characteristics that are sometimes associated with phishing attempts. Exercise caution before entering sensitive information.",
	model.RiskLow:    "No strong phishing indicators detected. However, always verify website authenticity before sharing sensitive information.",
}

var (
	red    = color.New(color.FgRed, color.Bold)
	yellow = color.New(color.FgYellow, color.Bold)
	green  = color.New(color.FgGreen, color.Bold)
	gray   = color.New(color.FgHiBlack)
)

// Hex returns the display color for a tier. Unknown tiers render as Low.
func Hex(level model.RiskLevel) string {
	switch level {
	case model.RiskHigh:
		return HexHigh
	case model.RiskMedium:
		return HexMedium
	default:
		return HexLow
	}
}

// Advisory returns the fixed guidance text shown alongside a tier.
func Advisory(level model.RiskLevel) string {
	if msg, ok := advisories[level]; ok {
		return msg
	}
	return advisories[model.RiskLow]
}

func colorFor(level model.RiskLevel) *color.Color {
	switch level {
	case model.RiskHigh:
		return red
	case model.RiskMedium:
		return yellow
	default:
		return green
	}
}

// WrapByLevel wraps text in the console color of level.
func WrapByLevel(text string, level model.RiskLevel) string {
	return colorFor(level).Sprint(text)
}

// Gray wraps text in a muted console color.
func Gray(text string) string {
	return gray.Sprint(text)
}

// PrintVerdict writes a human-readable rendering of v. A failed verdict
// renders only its error.
func PrintVerdict(w io.Writer, input string, v model.Verdict) {
	if v.Failed() {
		fmt.Fprintf(w, "%s %s\n", red.Sprint("[x]"), v.ErrorMessage())
		return
	}

	fmt.Fprintf(w, "URL: %s\n", input)
	fmt.Fprintf(w, "Score: %d\n", v.Score)
	fmt.Fprintf(w, "Risk Level: %s\n", WrapByLevel(string(v.RiskLevel), v.RiskLevel))
	fmt.Fprintf(w, "Classification: %s\n", v.Classification)
	if len(v.Reasons) > 0 {
		fmt.Fprintln(w, "Reasons:")
		for _, r := range v.Reasons {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}

	d := v.DomainInfo
	fmt.Fprintln(w, "Domain Information:")
	fmt.Fprintf(w, "  Protocol:   %s\n", d.Protocol)
	fmt.Fprintf(w, "  Hostname:   %s %s\n", d.Hostname, Gray("("+util.RegisteredDomain(d.Hostname)+")"))
	fmt.Fprintf(w, "  Subdomains: %d\n", d.Subdomains)
	fmt.Fprintf(w, "  TLD:        %s\n", d.TLD)
	fmt.Fprintf(w, "  Length:     %d\n", d.URLLength)

	if len(v.Breakdown) > 0 {
		fmt.Fprintln(w, "Score Breakdown:")
		for _, b := range v.Breakdown {
			fmt.Fprintf(w, "  %s\n", b)
		}
	}
	fmt.Fprintf(w, "Summary: %s\n", Advisory(v.RiskLevel))
}
