package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/defect-triage/internal/cli"
	"github.com/Veraticus/defect-triage/internal/common"
	"github.com/Veraticus/defect-triage/internal/config"
	"github.com/Veraticus/defect-triage/internal/model"
	"github.com/Veraticus/defect-triage/internal/pipeline"
	"github.com/Veraticus/defect-triage/internal/service"
	"github.com/Veraticus/defect-triage/internal/sheets"
	"github.com/Veraticus/defect-triage/internal/tabular"
	"github.com/Veraticus/defect-triage/internal/tui"
)

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize FILE...",
		Short: "Categorize defects in CSV or Excel files",
		Long: `Categorize every row of one or more defect files by the keywords in their
"Defect Summary" column, print a summary per file, and write the annotated
rows with a "Predicted Feature" column.

Examples:
  triage categorize defects.xlsx
  triage categorize q1.csv q2.csv --format csv --output-dir out/
  triage categorize defects.csv --no-write --interactive
  triage categorize defects.xlsx --sheets`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCategorize,
	}

	cmd.Flags().StringP("format", "f", "xlsx", "output format (xlsx, csv, json)")
	cmd.Flags().StringP("output-dir", "o", ".", "directory for output files")
	cmd.Flags().Bool("no-write", false, "print the summary without writing output files")
	cmd.Flags().BoolP("interactive", "i", false, "browse results in the terminal")
	cmd.Flags().String("theme", "default", "interactive theme (default, catppuccin)")
	cmd.Flags().Bool("sheets", false, "export results to Google Sheets")
	cmd.Flags().IntP("concurrency", "c", 4, "number of files processed at once")

	_ = viper.BindPFlag("export.format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("export.output_dir", cmd.Flags().Lookup("output-dir"))

	return cmd
}

type categorizeOptions struct {
	files       []string
	format      tabular.Format
	outputDir   string
	noWrite     bool
	interactive bool
	theme       string
	sheets      bool
	concurrency int
}

func runCategorize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	opts, err := categorizeFlags(cmd, cfg, args)
	if err != nil {
		return err
	}

	categorizer, err := newCategorizer(cfg.Catalog)
	if err != nil {
		return common.NewUserError("Could not load the keyword catalog: "+err.Error(), err)
	}
	p := newPipeline(cfg.Catalog, categorizer)

	ctx, stop := cli.NewInterruptHandler(cmd.ErrOrStderr()).
		HandleInterrupts(cmd.Context(), "No output files were written.")
	defer stop()

	slog.Info(cli.FormatTitle("Categorizing defects..."), "files", len(opts.files), "strategy", categorizer.Strategy())

	results, err := processFiles(ctx, p, opts.files, opts.concurrency, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	now := time.Now()
	for i, result := range results {
		fmt.Fprintln(out, cli.FormatTitle(filepath.Base(opts.files[i])))
		fmt.Fprintln(out, cli.RenderSummary(result.Summary))

		if opts.noWrite {
			continue
		}
		path, err := writeExport(opts.outputDir, opts.files[i], len(results) > 1, opts.format, result, now)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatSuccess("Wrote "+path))
	}

	if opts.sheets {
		if err := exportToSheets(ctx, results[0]); err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatSuccess("Exported results to Google Sheets"))
	}

	if opts.interactive {
		for _, result := range results {
			if err := tui.Run(ctx, result, tui.Options{Theme: tui.ThemeByName(opts.theme)}); err != nil {
				return err
			}
		}
	}

	return nil
}

func categorizeFlags(cmd *cobra.Command, cfg *config.Config, args []string) (categorizeOptions, error) {
	opts := categorizeOptions{
		files:     args,
		outputDir: cfg.Export.OutputDir,
	}

	format, err := tabular.ParseFormat(cfg.Export.Format)
	if err != nil {
		return opts, err
	}
	opts.format = format

	opts.noWrite, _ = cmd.Flags().GetBool("no-write")
	opts.interactive, _ = cmd.Flags().GetBool("interactive")
	opts.theme, _ = cmd.Flags().GetString("theme")
	opts.sheets, _ = cmd.Flags().GetBool("sheets")
	opts.concurrency, _ = cmd.Flags().GetInt("concurrency")
	if opts.concurrency < 1 {
		opts.concurrency = 1
	}

	if opts.sheets && len(args) > 1 {
		return opts, common.NewUserError("--sheets exports a single file; pass one input file", common.ErrInvalidConfig)
	}
	for _, f := range args {
		if _, err := tabular.DetectFormat(f); err != nil {
			return opts, common.NewUserError(
				fmt.Sprintf("Invalid file type for %s. Please use a CSV or Excel file.", f), err)
		}
	}
	return opts, nil
}

// processFiles reads and categorizes files with bounded concurrency. Results
// keep the order of files.
func processFiles(ctx context.Context, p *pipeline.Pipeline, files []string, limit int, progressOut io.Writer) ([]*model.Result, error) {
	results := make([]*model.Result, len(files))

	var fileBar *cli.Progress
	if len(files) > 1 {
		fileBar = cli.NewProgress(progressOut, len(files), "Files")
		defer fileBar.Finish()
	}
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			ds, err := tabular.ReadFile(path)
			if err != nil {
				return common.NewUserError(fmt.Sprintf("Error reading file %s: %v", path, readCause(err)), err)
			}

			fp := p
			if fileBar == nil {
				bar := cli.NewProgress(progressOut, ds.Len(), "Categorizing")
				defer bar.Finish()
				fp = p.WithOptions(pipeline.WithProgress(bar.Update))
			}

			result, err := fp.Process(ds)
			if err != nil {
				var missing *pipeline.MissingColumnError
				if errors.As(err, &missing) {
					return common.NewUserError(
						fmt.Sprintf("%s must contain a %q column", filepath.Base(path), missing.Column), err)
				}
				return fmt.Errorf("failed to categorize %s: %w", path, err)
			}
			results[i] = result

			if fileBar != nil {
				fileBar.Update(int(done.Add(1)), len(files))
			}
			slog.Debug("Categorized file", "file", path, "rows", result.Summary.Total, "accuracy", result.Summary.Accuracy)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// writeExport writes result into dir and returns the file path. With several
// inputs the file name is prefixed by the input's base name.
func writeExport(dir, input string, prefixed bool, format tabular.Format, result *model.Result, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := tabular.ExportFileName(now, format)
	if prefixed {
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		name = base + "_" + name
	}
	path := filepath.Join(dir, name)

	f, err := os.Create(path) // #nosec G304
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := tabular.Write(f, format, result); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

func exportToSheets(ctx context.Context, result *model.Result) error {
	sheetsCfg, err := config.LoadSheetsConfig()
	if err != nil {
		return common.NewUserError(
			"Google Sheets is not configured. Run 'triage auth' or set sheets.service_account_path.", err)
	}

	writer, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}
	return publish(ctx, writer, result)
}

// publish sends result to a report destination.
func publish(ctx context.Context, w service.ReportWriter, result *model.Result) error {
	if err := w.Write(ctx, result); err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}
	return nil
}

// readCause strips the file read sentinel so users see the underlying problem.
func readCause(err error) error {
	var fre *tabular.FileReadError
	if errors.As(err, &fre) && fre.Cause() != nil {
		return fre.Cause()
	}
	return err
}
