// Copyright Fernando Simich, 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fsimich/mppexport/internal/chart"
	"github.com/fsimich/mppexport/pkg/types"
)

var chartCmd = &cobra.Command{
	Use:   "chart <workbook.xlsx>",
	Short: "Render an HTML Gantt chart from an exported workbook",
	Long: `Chart reads a workbook produced by convert and renders a self-contained
HTML timeline: bars colored by completion status, critical tasks outlined,
milestones as diamonds. When the workbook carries a corrected task sheet it
is picked up automatically.

With --resources a resource-cost section is added below the timeline.`,
	Args: cobra.ExactArgs(1),
	RunE: runChart,
}

func runChart(cmd *cobra.Command, args []string) error {
	workbookPath := args[0]
	cfg := chartConfig(cmd)

	fmt.Fprintf(os.Stderr, "Reading workbook: %s\n", filepath.Base(workbookPath))

	tasks, err := chart.LoadTasks(workbookPath, cfg.Sheet, os.Stderr)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return fmt.Errorf("no tasks with valid dates in %s", workbookPath)
	}
	fmt.Fprintf(os.Stderr, "Found %d tasks with valid dates\n", len(tasks))

	var resources []chart.ResourceBar
	if cfg.Resources {
		resources, err = chart.LoadResources(workbookPath)
		if err != nil {
			return err
		}
		if len(resources) == 0 {
			fmt.Fprintln(os.Stderr, "warning: no resource sheet found, skipping resource section")
		}
	}

	page := chart.BuildPage(cfg.Title, tasks, resources)
	if err := chart.WriteFile(cfg.OutputPath, page); err != nil {
		return err
	}

	fmt.Printf("Gantt chart saved to: %s\n", cfg.OutputPath)
	return nil
}

// chartConfig merges chart flags with config-file defaults. Flags win;
// config keys live under "chart.".
func chartConfig(cmd *cobra.Command) types.ChartConfig {
	output, _ := cmd.Flags().GetString("output")
	title, _ := cmd.Flags().GetString("title")
	sheet, _ := cmd.Flags().GetString("sheet")
	withResources, _ := cmd.Flags().GetBool("resources")

	if !cmd.Flags().Changed("title") {
		if t := viper.GetString("chart.title"); t != "" {
			title = t
		}
	}
	if sheet == "" {
		sheet = viper.GetString("chart.sheet")
	}

	return types.ChartConfig{
		OutputPath: output,
		Title:      title,
		Sheet:      sheet,
		Resources:  withResources || viper.GetBool("chart.resources"),
	}
}

func init() {
	chartCmd.Flags().StringP("output", "o", "gantt.html", "output HTML file")
	chartCmd.Flags().StringP("title", "t", "Project Gantt Chart", "chart title")
	chartCmd.Flags().String("sheet", "", "workbook sheet to read (default: auto-detect)")
	chartCmd.Flags().Bool("resources", false, "include resource cost section")

	rootCmd.AddCommand(chartCmd)
}
