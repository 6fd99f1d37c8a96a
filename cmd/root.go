package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/selimozcann/urlrisk/internal/banner"
)

// errSilent signals a failure whose message has already been printed.
var errSilent = errors.New("silent failure")

type globalOptions struct {
	noBanner bool
	noColor  bool
	verbose  bool
}

// NewRootCmd builds the urlrisk command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:           "urlrisk",
		Short:         "Score URLs for phishing risk with fixed heuristics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
			if !opts.noBanner {
				banner.PrintBanner(cmd.ErrOrStderr())
			}
		},
	}
	rootCmd.PersistentFlags().BoolVar(&opts.noBanner, "no-banner", false, "Do not print the banner")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(
		newCheckCmd(),
		newScanCmd(opts),
		newServeCmd(),
	)
	return rootCmd
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := run(NewRootCmd(), os.Args[1:], os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(rootCmd *cobra.Command, args []string, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errSilent) {
		fmt.Fprintf(stderr, "[-] Error: %v\n", err)
	}
	return err
}

func verbosef(enabled bool, w io.Writer, format string, args ...any) {
	if enabled {
		fmt.Fprintf(w, format, args...)
	}
}
