// Copyright Fernando Simich, 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fsimich/mppexport/internal/correct"
	"github.com/fsimich/mppexport/internal/export"
	"github.com/fsimich/mppexport/internal/flatten"
	"github.com/fsimich/mppexport/internal/history"
	"github.com/fsimich/mppexport/internal/reader"
	"github.com/fsimich/mppexport/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <project-file>",
	Short: "Convert a project plan to an Excel workbook",
	Long: `Convert reads a Microsoft Project MSPDI XML export, flattens the task
hierarchy into WBS-numbered rows, and writes a workbook with Tasks and
Resources sheets.

With --correct, raw durations are reconciled against a trusted reference
workbook (--reference): a uniform scale factor is derived from the two
exports and applied project-wide, with a per-task audit report. Without
--correct, durations pass through as the source file reports them.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := convertConfig(cmd)
	inputPath := args[0]

	outputPath := cfg.OutputPath
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".xlsx"
	}

	fmt.Fprintf(os.Stderr, "Converting: %s\n", filepath.Base(inputPath))

	project, err := reader.Read(inputPath)
	if err != nil {
		return err
	}
	if len(project.Tasks) == 0 {
		return fmt.Errorf("no tasks found in %s", inputPath)
	}

	tasks := project.Tasks
	var report *correct.Report

	if cfg.Correction.Enabled {
		corrected, rep, err := runCorrection(tasks, cfg.Correction)
		if err != nil {
			return err
		}
		tasks = corrected
		report = rep
	} else {
		fmt.Fprintln(os.Stderr, "warning: duration correction disabled, durations pass through uncorrected")
	}

	rows := flatten.Flatten(tasks)

	wb := export.Workbook{
		Rows:      rows,
		Resources: project.Resources,
		Report:    report,
	}
	if err := export.Write(outputPath, wb); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Processed %d tasks, %d resources\n", len(rows), len(project.Resources))
	if report != nil {
		printCorrectionSummary(*report, cfg.Verbose)
	}
	if cfg.Verbose {
		printProjectSummary(project, rows)
	}
	fmt.Printf("Exported to: %s\n", outputPath)

	recordRun(cmd, inputPath, outputPath, project, report)
	return nil
}

// runCorrection derives (or takes the pinned) scale factor and applies it.
// A missing reference is fatal here: correction was explicitly requested,
// so silently emitting uncorrected data is not an option.
func runCorrection(tasks []types.Task, cfg types.CorrectionConfig) ([]types.Task, *correct.Report, error) {
	var factor float64
	derived := false

	switch {
	case cfg.AssumeFactor > 0:
		factor = cfg.AssumeFactor
	case cfg.ReferencePath == "":
		return nil, nil, fmt.Errorf("correction requested but no reference workbook given: pass --reference")
	default:
		ref, err := correct.LoadReference(cfg.ReferencePath)
		if err != nil {
			return nil, nil, err
		}
		factor, err = correct.DeriveFactor(tasks, ref)
		if err != nil {
			return nil, nil, err
		}
		derived = true
	}

	corrected, report := correct.Apply(tasks, factor, derived)

	if cfg.ReportPath != "" {
		if err := correct.WriteReport(cfg.ReportPath, report); err != nil {
			return nil, nil, err
		}
		fmt.Fprintf(os.Stderr, "Correction report written to: %s\n", cfg.ReportPath)
	}
	return corrected, &report, nil
}

func printCorrectionSummary(report correct.Report, verbose bool) {
	fmt.Fprintf(os.Stderr, "Correction factor: %.2fx (corrected %d, validated %d, passed through %d)\n",
		report.Factor, report.Corrected(), report.Validated(), report.Passthrough())

	if !verbose {
		return
	}
	shown := 0
	for _, e := range report.Entries {
		if e.Status != correct.StatusCorrected {
			continue
		}
		fmt.Fprintf(os.Stderr, "  %-40.40s | %8.1fh -> %8.1fh\n", e.Name, e.OriginalHours, e.CorrectedHours)
		shown++
		if shown >= 10 {
			break
		}
	}
}

func printProjectSummary(project *types.Project, rows []flatten.Row) {
	var milestones, summaries, critical int
	var completion float64
	for _, t := range project.Tasks {
		if t.Milestone {
			milestones++
		}
		if t.Summary {
			summaries++
		}
		if t.Critical {
			critical++
		}
		completion += t.PercentComplete
	}

	fmt.Fprintln(os.Stderr, "\n=== PROJECT SUMMARY ===")
	if project.Title != "" {
		fmt.Fprintf(os.Stderr, "Title: %s\n", project.Title)
	}
	if project.Manager != "" {
		fmt.Fprintf(os.Stderr, "Manager: %s\n", project.Manager)
	}
	fmt.Fprintf(os.Stderr, "Total Tasks: %d\n", len(project.Tasks))
	fmt.Fprintf(os.Stderr, "Milestones: %d\n", milestones)
	fmt.Fprintf(os.Stderr, "Summary Tasks: %d\n", summaries)
	fmt.Fprintf(os.Stderr, "Critical Tasks: %d\n", critical)
	if len(project.Tasks) > 0 {
		fmt.Fprintf(os.Stderr, "Average Completion: %.1f%%\n", completion/float64(len(project.Tasks)))
	}

	fmt.Fprintln(os.Stderr, "\n=== TASK HIERARCHY ===")
	for i, row := range rows {
		if i >= 30 {
			fmt.Fprintf(os.Stderr, "  ... %d more\n", len(rows)-30)
			break
		}
		fmt.Fprintf(os.Stderr, "  %-10s %s%s\n", row.WBS, strings.Repeat("  ", row.Indent), row.Task.Name)
	}
}

// recordRun appends the finished conversion to the run log. Failures are
// warnings: the workbook is already on disk.
func recordRun(cmd *cobra.Command, inputPath, outputPath string, project *types.Project, report *correct.Report) {
	cfg := historyConfig(cmd)
	if cfg.Disabled {
		return
	}
	store, err := history.Open(cfg.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: run log unavailable: %v\n", err)
		return
	}
	defer store.Close()

	run := history.Run{
		SourcePath:    inputPath,
		OutputPath:    outputPath,
		TaskCount:     len(project.Tasks),
		ResourceCount: len(project.Resources),
	}
	if report != nil {
		f := report.Factor
		run.Factor = &f
	}
	if err := store.Record(context.Background(), run); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording run failed: %v\n", err)
	}
}

func convertConfig(cmd *cobra.Command) types.ConvertConfig {
	output, _ := cmd.Flags().GetString("output")
	verbose, _ := cmd.Flags().GetBool("verbose")
	correctFlag, _ := cmd.Flags().GetBool("correct")
	reference, _ := cmd.Flags().GetString("reference")
	reportPath, _ := cmd.Flags().GetString("report")

	if reference == "" {
		reference = viper.GetString("correct.reference")
	}

	cfg := types.ConvertConfig{
		OutputPath: output,
		Verbose:    verbose,
		Correction: types.CorrectionConfig{
			Enabled:       correctFlag || reference != "",
			ReferencePath: reference,
			AssumeFactor:  viper.GetFloat64("correct.assume_factor"),
			ReportPath:    reportPath,
		},
	}
	return cfg
}

// historyConfig merges run-log flags with config-file defaults. The
// "no-history" flag only exists on convert; commands without it just get
// the config-file settings.
func historyConfig(cmd *cobra.Command) types.HistoryConfig {
	noHistory, _ := cmd.Flags().GetBool("no-history")

	cfg := types.HistoryConfig{
		Path:     viper.GetString("history.path"),
		Disabled: noHistory || viper.GetBool("history.disabled"),
	}
	if cfg.Path == "" {
		cfg.Path = history.DefaultPath()
	}
	return cfg
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "output .xlsx path (default: input path with .xlsx extension)")
	convertCmd.Flags().Bool("correct", false, "reconcile durations against the reference workbook")
	convertCmd.Flags().String("reference", "", "trusted reference workbook for duration correction (implies --correct)")
	convertCmd.Flags().String("report", "", "write the per-task correction audit report as YAML")
	convertCmd.Flags().BoolP("verbose", "v", false, "show project summary and correction examples")
	convertCmd.Flags().Bool("no-history", false, "skip recording this run in the run log")

	rootCmd.AddCommand(convertCmd)
}
