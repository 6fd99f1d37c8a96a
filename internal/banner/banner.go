package banner

import (
	"io"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
)

// PrintBanner writes the CLI banner to w.
func PrintBanner(w io.Writer) {
	myFigure := figure.NewFigure("URLRISK", "doom", true)

	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)

	_, _ = red.Fprint(w, myFigure.String())
	_, _ = cyan.Fprintln(w, "════════════════════════════════════════════════")
	_, _ = green.Fprintln(w, "    Heuristic URL phishing risk scorer")
	_, _ = cyan.Fprintln(w, "════════════════════════════════════════════════")
}
