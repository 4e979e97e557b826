package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"rawconvert/internal/batch"
	"rawconvert/internal/codec"
	"rawconvert/internal/config"
	"rawconvert/internal/history"
	"rawconvert/internal/scan"
	"rawconvert/internal/term"
)

const runLockName = ".rawconvert.lock"

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var formatSpec string
	var ratio float64
	var workers int
	var preview bool
	var sortMethod string

	cmd := &cobra.Command{
		Use:   "convert <file|directory>...",
		Short: "Convert NEF raw files to common image formats",
		Long: `Convert one or more Nikon NEF raw files, or every NEF file in a
directory, to the requested output formats. Conversions run concurrently
and each file reports completion with an estimate of the time remaining.`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("formats") {
				formatSpec = strings.Join(cfg.Convert.Formats, "+")
			}
			if !cmd.Flags().Changed("ratio") {
				ratio = cfg.Convert.Ratio
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Convert.Workers
			}
			if !cmd.Flags().Changed("preview") {
				preview = cfg.Convert.Preview
			}
			if !cmd.Flags().Changed("sort") {
				sortMethod = cfg.Convert.Sort
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts := convertOptions{
				outputDir:  outputDir,
				formatSpec: formatSpec,
				ratio:      ratio,
				workers:    workers,
				preview:    preview,
				sortMethod: sortMethod,
			}
			return runConvert(cmd, ctx, cfg, opts, args)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory that receives converted images")
	cmd.Flags().StringVarP(&formatSpec, "formats", "f", "", "Output formats joined with + (png+jpeg)")
	cmd.Flags().Float64VarP(&ratio, "ratio", "r", 0, "Resize area ratio in (0,1]; 1 keeps full size")
	cmd.Flags().IntVarP(&workers, "workers", "t", 0, "Concurrent conversions; 0 uses every CPU core")
	cmd.Flags().BoolVarP(&preview, "preview", "p", false, "Convert the embedded preview instead of the full raw")
	cmd.Flags().StringVar(&sortMethod, "sort", "", "Directory scan order: name, numeric, size, or mtime")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

type convertOptions struct {
	outputDir  string
	formatSpec string
	ratio      float64
	workers    int
	preview    bool
	sortMethod string
}

func runConvert(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, opts convertOptions, args []string) error {
	formats, err := codec.ParseFormats(opts.formatSpec)
	if err != nil {
		return err
	}
	if opts.ratio <= 0 || opts.ratio > 1 {
		return fmt.Errorf("ratio must be greater than 0 and at most 1, got %v", opts.ratio)
	}
	if opts.workers < 0 {
		return fmt.Errorf("workers must be at least 1, got %d", opts.workers)
	}
	if !scan.ValidMethod(opts.sortMethod) {
		return fmt.Errorf("unknown sort method %q (valid: name, numeric, size, mtime)", opts.sortMethod)
	}

	files, dirMode, err := scan.Inputs(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintf(out, "No NEF files found in %s\n", args[0])
		return nil
	}
	if opts.sortMethod != "" {
		scan.Sort(files, opts.sortMethod)
	}

	destDir, err := config.ExpandPath(opts.outputDir)
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(destDir, runLockName))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another rawconvert run is already writing to %s", destDir)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	jobs, err := buildJobs(files, destDir, dirMode, formats, opts)
	if err != nil {
		return err
	}

	logger, _ := ctx.ensureLogger()

	spin := len(jobs) == 1 && isatty.IsTerminal(os.Stdout.Fd())
	var captured bytes.Buffer
	runnerOut := io.Writer(out)
	if spin {
		runnerOut = &captured
	}

	runner := batch.NewRunner(codec.NewCLI(codec.WithBinary(cfg.Codec.Binary)), batch.Options{
		Concurrency: opts.workers,
		Out:         runnerOut,
		Logger:      logger,
		Precheck: func(job batch.Job) error {
			if !scan.IsNEF(job.SourcePath) {
				return errors.New("not NEF")
			}
			return nil
		},
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		for range sigCh {
			runner.Stop()
		}
	}()

	startedAt := time.Now().UTC()
	var summary batch.Summary
	if spin {
		summary = runWithSpinner(cmd.Context(), runner, jobs, out, &captured)
	} else {
		summary = runner.Run(cmd.Context(), jobs)
	}
	finishedAt := time.Now().UTC()

	fmt.Fprintln(out)
	switch {
	case summary.Stopped:
		fmt.Fprintf(out, "%s %d of %d conversions finished.\n",
			term.Red("Stopped early."), summary.Completed, summary.Total)
	case summary.Failed > 0:
		fmt.Fprintf(out, "%s %d of %d conversions failed.\n",
			term.Red("Completed with errors."), summary.Failed, summary.Total)
	default:
		fmt.Fprintln(out, term.Green("All conversions completed."))
	}
	fmt.Fprintf(out, "Total time: %s\n", batch.FormatDuration(summary.Elapsed))

	recordHistory(cmd.Context(), ctx, cfg, historyRun(summary, formats, opts, startedAt, finishedAt))
	return nil
}

// buildJobs pairs every input file with its destinations. Directory runs get
// one subdirectory per format; explicit file runs write into the output
// directory itself.
func buildJobs(files []string, destDir string, dirMode bool, formats []string, opts convertOptions) ([]batch.Job, error) {
	if dirMode {
		for _, format := range formats {
			if err := os.MkdirAll(filepath.Join(destDir, format), 0o755); err != nil {
				return nil, fmt.Errorf("create format directory: %w", err)
			}
		}
	}

	jobs := make([]batch.Job, 0, len(files))
	for i, file := range files {
		base := filepath.Base(file)
		stem := strings.TrimSuffix(base, filepath.Ext(base))

		outputs := make([]batch.OutputRequest, 0, len(formats))
		for _, format := range formats {
			dir := destDir
			if dirMode {
				dir = filepath.Join(destDir, format)
			}
			outputs = append(outputs, batch.OutputRequest{
				Format:   format,
				DestPath: filepath.Join(dir, stem+"."+format),
			})
		}

		jobs = append(jobs, batch.Job{
			Index:       i + 1,
			Total:       len(files),
			SourcePath:  file,
			DisplayName: base,
			Outputs:     outputs,
			ResizeRatio: opts.ratio,
			UsePreview:  opts.preview,
		})
	}
	return jobs, nil
}

// runWithSpinner shows a spinner while the one conversion runs, then prints
// the status line the runner buffered once it settles.
func runWithSpinner(ctx context.Context, runner *batch.Runner, jobs []batch.Job, out io.Writer, captured *bytes.Buffer) batch.Summary {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Converting "+jobs[0].DisplayName),
		progressbar.OptionSetWriter(out),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	summary := runner.Run(ctx, jobs)
	close(done)
	wg.Wait()
	_ = bar.Finish()

	_, _ = out.Write(captured.Bytes())
	return summary
}

func historyRun(summary batch.Summary, formats []string, opts convertOptions, startedAt, finishedAt time.Time) history.Run {
	records := make([]history.JobRecord, 0, len(summary.Results))
	for _, res := range summary.Results {
		records = append(records, history.JobRecord{
			Position:   res.Index,
			SourcePath: res.SourcePath,
			Outcome:    res.Outcome,
			Detail:     res.Detail,
			Elapsed:    res.Elapsed,
		})
	}
	return history.Run{
		ID:         uuid.NewString(),
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Formats:    formats,
		Ratio:      opts.ratio,
		Workers:    opts.workers,
		Total:      summary.Total,
		Completed:  summary.Completed,
		Failed:     summary.Failed,
		Skipped:    summary.Skipped,
		Stopped:    summary.Stopped,
		Jobs:       records,
	}
}

// recordHistory persists the run outcome. History failures never fail the
// conversion that already happened; they are logged and dropped.
func recordHistory(ctx context.Context, cmdCtx *commandContext, cfg *config.Config, run history.Run) {
	if !cfg.History.Enabled {
		return
	}
	logger, _ := cmdCtx.ensureLogger()

	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		logger.Warn("open history store", "error", err)
		return
	}
	defer store.Close()

	if err := store.RecordRun(ctx, run); err != nil {
		logger.Warn("record run history", "error", err)
		return
	}
	if cfg.History.KeepRuns > 0 {
		if err := store.Prune(ctx, cfg.History.KeepRuns); err != nil {
			logger.Warn("prune run history", "error", err)
		}
	}
}
