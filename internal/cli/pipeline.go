// internal/cli/pipeline.go
// Package: cli

// Package cli implements the commands behind cmd/spmvsweep: build the
// measured program, run the sweep and hand the dataset to the presenters.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mwiater/spmvsweep/internal/config"
	"github.com/mwiater/spmvsweep/internal/harness"
	"github.com/mwiater/spmvsweep/internal/logging"
	"github.com/mwiater/spmvsweep/internal/progress"
	"github.com/mwiater/spmvsweep/internal/report"
)

// ServiceName tags log records and names the log file.
const ServiceName = "spmvsweep"

// Streams are the console destinations of a command.
type Streams struct {
	// Out receives the result table and the list of written files.
	Out io.Writer

	// Err receives progress and console logs.
	Err io.Writer
}

// NewLogger builds the command logger. Console logging is muted while the
// live progress view owns the terminal.
func NewLogger(cfg config.Config, console io.Writer, quiet bool) *logging.Logger {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	return logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Log.Dir,
		Service: ServiceName,
		JSON:    cfg.Log.JSON,
		Quiet:   quiet,
		Console: console,
	})
}

// NewBuilder maps the build section onto a MakeBuilder.
func NewBuilder(cfg config.Config, logger *slog.Logger) *harness.MakeBuilder {
	return &harness.MakeBuilder{
		Dir:      cfg.Build.Dir,
		Clean:    cfg.Build.Clean,
		Command:  cfg.Build.Command,
		Artifact: cfg.ArtifactPath(),
		Skip:     cfg.Build.Skip,
		Logger:   logger,
	}
}

// NewExecutor maps the program section onto an MPIExecutor.
func NewExecutor(cfg config.Config, logger *slog.Logger) *harness.MPIExecutor {
	return &harness.MPIExecutor{
		Launcher:       cfg.Program.Launcher,
		ProcessFlag:    cfg.Program.ProcessFlag,
		LauncherArgs:   cfg.Program.LauncherArgs,
		Artifact:       cfg.ArtifactPath(),
		WorkDir:        cfg.ProgramDir(),
		Timeout:        cfg.Program.Timeout,
		MaxOutputBytes: cfg.Program.MaxOutputBytes,
		Logger:         logger,
	}
}

// Build runs only the build step.
func Build(ctx context.Context, cfg config.Config, streams Streams) error {
	log := NewLogger(cfg, streams.Err, false)
	defer log.Close()

	if err := NewBuilder(cfg, log.Slog()).Build(ctx); err != nil {
		return err
	}
	fmt.Fprintf(streams.Out, "Built %s\n", cfg.ArtifactPath())
	return nil
}

// Run builds the program, sweeps the grid and presents the dataset. A build
// failure or an interrupted sweep returns an error and presents nothing.
func Run(ctx context.Context, cfg config.Config, streams Streams) error {
	return run(ctx, cfg, streams, nil)
}

// run lets tests substitute the executor.
func run(ctx context.Context, cfg config.Config, streams Streams, exec harness.Executor) error {
	useTUI := cfg.UI.TUI && progress.IsTerminal(streams.Err)

	log := NewLogger(cfg, streams.Err, useTUI)
	defer log.Close()
	logger := log.Slog()

	if err := NewBuilder(cfg, logger).Build(ctx); err != nil {
		return err
	}

	if exec == nil {
		exec = NewExecutor(cfg, logger)
	}

	reporter := progress.New(streams.Err, useTUI)
	ds, err := harness.RunSweep(ctx, cfg.SweepConfig(), exec,
		harness.WithLogger(logger),
		harness.WithObserver(reporter),
	)
	if closeErr := reporter.Close(); closeErr != nil {
		logger.Warn("Progress view did not shut down cleanly", slog.Any("error", closeErr))
	}
	if err != nil {
		return err
	}

	if path := log.FilePath(); path != "" {
		fmt.Fprintf(streams.Out, "Log file: %s\n", path)
	}
	return Present(ctx, cfg.Output, ds, streams.Out, logger)
}

// Present renders the table and writes every configured chart and export.
// Output steps are independent: one failing does not stop the others, and
// all failures are returned joined.
func Present(ctx context.Context, out config.OutputConfig, ds *harness.Dataset, w io.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	var errs []error

	if out.Table {
		if err := report.RenderTable(w, ds); err != nil {
			errs = append(errs, fmt.Errorf("render table: %w", err))
		}
	}

	if out.ChartsDir != "" {
		res, err := report.RenderCharts(out.ChartsDir, ds, report.ChartOptions{Sparsity: out.ChartSparsity})
		for _, path := range res.Written {
			fmt.Fprintf(w, "Wrote %s\n", path)
		}
		for _, reason := range res.Skipped {
			fmt.Fprintf(w, "Skipped %s\n", reason)
			logger.Info("Chart skipped", slog.String("reason", reason))
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("charts: %w", err))
		}
	}

	files := []struct {
		path  string
		write func(string, *harness.Dataset) error
	}{
		{out.JSONFile, report.WriteJSON},
		{out.YAMLFile, report.WriteYAML},
		{out.MetricsFile, report.WritePrometheusTextfile},
	}
	for _, f := range files {
		if f.path == "" {
			continue
		}
		if err := f.write(f.path, ds); err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(w, "Wrote %s\n", f.path)
	}

	if out.Influx.URL != "" {
		exporter := &report.InfluxExporter{
			URL:    out.Influx.URL,
			Token:  out.Influx.Token,
			Org:    out.Influx.Org,
			Bucket: out.Influx.Bucket,
			Logger: logger,
		}
		if err := exporter.Export(ctx, ds); err != nil {
			errs = append(errs, err)
		} else {
			fmt.Fprintf(w, "Exported %d records to %s\n", len(ds.Records), out.Influx.URL)
		}
	}

	return errors.Join(errs...)
}

// Report re-presents a dataset previously written with --json.
func Report(ctx context.Context, cfg config.Config, from string, streams Streams) error {
	ds, err := report.ReadJSON(from)
	if err != nil {
		return err
	}
	log := NewLogger(cfg, streams.Err, false)
	defer log.Close()
	return Present(ctx, cfg.Output, ds, streams.Out, log.Slog())
}
