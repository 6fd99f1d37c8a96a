package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/selimozcann/urlrisk/internal/analyzer"
	"github.com/selimozcann/urlrisk/internal/model"
	"github.com/selimozcann/urlrisk/internal/output"
	"github.com/selimozcann/urlrisk/internal/runner"
)

type scanOptions struct {
	file        string
	threads     int
	rateLimit   int
	outputJSONL string
	outputYAML  string
	outputHTML  string
	onlyRisky   bool
	silent      bool
	noProgress  bool
}

func newScanCmd(global *globalOptions) *cobra.Command {
	opts := scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Score every URL listed in a file (one per line)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runScan(ctx, opts, global.verbose, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Input file with one URL per line")
	cmd.Flags().IntVarP(&opts.threads, "threads", "t", 10, "Worker count")
	cmd.Flags().IntVar(&opts.rateLimit, "rl", 0, "Global rate limit (URLs per second, 0 = unlimited)")
	cmd.Flags().StringVarP(&opts.outputJSONL, "output", "o", "", "JSONL output file")
	cmd.Flags().StringVar(&opts.outputYAML, "yaml", "", "YAML output file")
	cmd.Flags().StringVar(&opts.outputHTML, "html", "", "HTML report output file")
	cmd.Flags().BoolVar(&opts.onlyRisky, "only-risky", false, "Only print Medium and High results")
	cmd.Flags().BoolVar(&opts.silent, "silent", false, "Suppress per-URL console output")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable the progress bar")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runScan(ctx context.Context, opts scanOptions, verbose bool, stdout, stderr io.Writer) error {
	if opts.file == "" {
		return errors.New("-f (input file) is required")
	}
	if opts.threads <= 0 {
		return fmt.Errorf("-t must be greater than zero (got %d)", opts.threads)
	}
	if opts.rateLimit < 0 {
		return fmt.Errorf("--rl must be >= 0 (got %d)", opts.rateLimit)
	}

	targets, err := loadURLs(opts.file)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("input file %q contains no URLs", opts.file)
	}
	verbosef(verbose, stderr, "[config] targets=%d threads=%d rate-limit=%d\n", len(targets), opts.threads, opts.rateLimit)

	var bar *progressbar.ProgressBar
	if !opts.noProgress && !opts.silent {
		bar = progressbar.NewOptions(len(targets),
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("scanning"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	cfg := runner.Config{Threads: opts.threads, RateLimit: opts.rateLimit}
	if bar != nil {
		cfg.OnResult = func(int, model.Verdict) { _ = bar.Add(1) }
	}
	verdicts := runner.New(cfg, func(s string) model.Verdict { return analyzer.Analyze(s) }).Run(ctx, targets)
	if bar != nil {
		_ = bar.Finish()
	}

	records := make([]output.Record, len(verdicts))
	for i, v := range verdicts {
		records[i] = output.BuildRecord(targets[i], v)
	}
	summary := output.BuildSummary(records)

	if !opts.silent {
		output.PrintScanHeader(stdout, opts.file, len(targets))
		for i, rec := range records {
			if rec.Skipped() || (opts.onlyRisky && !rec.Risky()) {
				continue
			}
			output.PrintSummaryLine(stdout, i, len(records), rec)
		}
		output.PrintSummary(stdout, summary)
	}

	if opts.outputJSONL != "" {
		if err := writeFile(opts.outputJSONL, "JSONL", verbose, stderr, func(w io.Writer) error {
			return output.WriteJSONL(w, records)
		}); err != nil {
			return err
		}
	}
	if opts.outputYAML != "" {
		if err := writeFile(opts.outputYAML, "YAML", verbose, stderr, func(w io.Writer) error {
			return output.WriteYAML(w, records)
		}); err != nil {
			return err
		}
	}
	if opts.outputHTML != "" {
		views := make([]output.ResultView, 0, len(records))
		for i, rec := range records {
			if rec.Skipped() {
				continue
			}
			views = append(views, output.BuildResultView(i, rec))
		}
		page := output.PageData{
			Title:       "urlrisk Report",
			GeneratedAt: time.Now().UTC(),
			Params:      buildParamsMap(opts, len(targets)),
			Summary:     summary,
			Results:     views,
		}
		if err := writeFile(opts.outputHTML, "HTML", verbose, stderr, func(w io.Writer) error {
			return output.RenderHTML(w, page)
		}); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("scan interrupted after %d of %d URLs: %w", len(targets)-summary.Skipped, len(targets), err)
	}
	return nil
}

func loadURLs(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file %q: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	var urls []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("input file read error: %w", err)
	}
	return urls, nil
}

func buildParamsMap(opts scanOptions, targetCount int) map[string]string {
	params := map[string]string{
		"file":       opts.file,
		"threads":    strconv.Itoa(opts.threads),
		"rate_limit": strconv.Itoa(opts.rateLimit),
		"only_risky": strconv.FormatBool(opts.onlyRisky),
		"targets":    strconv.Itoa(targetCount),
	}
	if opts.outputJSONL != "" {
		params["output_jsonl"] = opts.outputJSONL
	}
	if opts.outputYAML != "" {
		params["output_yaml"] = opts.outputYAML
	}
	if opts.outputHTML != "" {
		params["output_html"] = opts.outputHTML
	}
	return params
}

func writeFile(path, kind string, verbose bool, stderr io.Writer, write func(io.Writer) error) error {
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("create %s directory: %w", kind, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s file: %w", kind, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", kind, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s file: %w", kind, err)
	}
	verbosef(verbose, stderr, "[write] %s report -> %s\n", kind, path)
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
