package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/selimozcann/urlrisk/internal/analyzer"
	"github.com/selimozcann/urlrisk/internal/model"
	"github.com/selimozcann/urlrisk/internal/riskcolor"
)

func newCheckCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "check <url>",
		Short: "Score a single URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := analyzer.Analyze(args[0])
			if err := writeVerdict(cmd.OutOrStdout(), format, args[0], v); err != nil {
				return err
			}
			if v.Failed() {
				return errSilent
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or yaml")
	return cmd
}

func writeVerdict(w io.Writer, format, input string, v model.Verdict) error {
	switch format {
	case "text":
		riskcolor.PrintVerdict(w, input, v)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}
