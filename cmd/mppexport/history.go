// Copyright Fernando Simich, 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fsimich/mppexport/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded conversion runs",
	Long: `History lists past conversion runs from the local run log, newest first:
source file, output workbook, task counts, and the correction factor when
one was applied. Use --prune-days to drop old entries.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	pruneDays, _ := cmd.Flags().GetInt("prune-days")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	store, err := history.Open(historyConfig(cmd).Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if pruneDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -pruneDays)
		n, err := store.Prune(context.Background(), cutoff)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Pruned %d run(s) older than %d days\n", n, pruneDays)
	}

	runs, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-30s  %-30s  %5s  %4s  %s\n",
		"Finished", "Source", "Output", "Tasks", "Res", "Factor")
	for _, r := range runs {
		factor := "-"
		if r.Factor != nil {
			factor = fmt.Sprintf("%.2fx", *r.Factor)
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-30.30s  %-30.30s  %5d  %4d  %s\n",
			r.FinishedAt.Local().Format("2006-01-02 15:04"),
			r.SourcePath, r.OutputPath, r.TaskCount, r.ResourceCount, factor)
	}
	return nil
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum runs to list")
	historyCmd.Flags().Int("prune-days", 0, "delete runs older than this many days before listing")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(historyCmd)
}
