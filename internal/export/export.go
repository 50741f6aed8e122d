// Copyright Fernando Simich, 2026. All rights reserved.

// Package export writes the flattened plan to an Excel workbook with the
// fixed two-sheet layout (Tasks, Resources) plus a correction summary
// sheet when a correction ran. The output file is published atomically:
// the workbook is built in a temp file and renamed into place only when
// every sheet wrote cleanly.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fsimich/mppexport/internal/correct"
	"github.com/fsimich/mppexport/internal/flatten"
	"github.com/fsimich/mppexport/internal/relation"
	"github.com/fsimich/mppexport/pkg/types"
)

// Sheet names in the output workbook.
const (
	SheetTasks          = "Tasks"
	SheetTasksCorrected = "Tasks_Corrected"
	SheetResources      = "Resources"
	SheetSummary        = "Correction_Summary"
)

// taskHeaders is the fixed Tasks sheet column layout.
var taskHeaders = []string{
	"ID", "WBS", "Name", "Duration", "Duration Hours", "Start", "Finish",
	"Percent Complete", "Predecessors", "Resource Names", "Cost", "Work",
	"Critical", "Milestone", "Summary", "Notes", "Outline Level",
}

// resourceHeaders is the fixed Resources sheet column layout.
var resourceHeaders = []string{
	"ID", "Name", "Type", "Cost", "Standard Rate", "Max Units",
}

// maxColWidth caps auto-sized column widths.
const maxColWidth = 50

const dateLayout = "2006-01-02 15:04"

// Workbook bundles everything one conversion run exports.
type Workbook struct {
	Rows      []flatten.Row
	Resources []types.Resource

	// Report is non-nil when duration correction ran; it switches the
	// task sheet name and adds the summary sheet.
	Report *correct.Report
}

// TasksSheet returns the name the task sheet will carry.
func (wb Workbook) TasksSheet() string {
	if wb.Report != nil {
		return SheetTasksCorrected
	}
	return SheetTasks
}

// Write builds the workbook and publishes it at path atomically. On any
// error nothing is left at path.
func Write(path string, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := buildWorkbook(f, wb); err != nil {
		return err
	}

	return publish(f, path)
}

func buildWorkbook(f *excelize.File, wb Workbook) error {
	taskSheet := wb.TasksSheet()

	// excelize starts with "Sheet1"; rename it into the task sheet.
	if err := f.SetSheetName("Sheet1", taskSheet); err != nil {
		return fmt.Errorf("naming task sheet: %w", err)
	}

	if err := writeTaskSheet(f, taskSheet, wb.Rows); err != nil {
		return err
	}
	if err := writeResourceSheet(f, wb.Resources); err != nil {
		return err
	}
	if wb.Report != nil {
		if err := writeSummarySheet(f, *wb.Report); err != nil {
			return err
		}
	}
	return nil
}

func writeTaskSheet(f *excelize.File, sheet string, rows []flatten.Row) error {
	cells := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		t := row.Task
		cells = append(cells, []interface{}{
			t.ID,
			row.WBS,
			t.Name,
			t.Duration.String(),
			t.Duration.Hours(),
			formatDate(t.Start),
			formatDate(t.Finish),
			t.PercentComplete,
			relation.FormatList(t.Predecessors),
			joinNames(t.ResourceNames),
			t.Cost,
			t.Work.String(),
			t.Critical,
			t.Milestone,
			t.Summary,
			t.Notes,
			t.OutlineLevel,
		})
	}
	return writeSheet(f, sheet, taskHeaders, cells)
}

func writeResourceSheet(f *excelize.File, resources []types.Resource) error {
	if _, err := f.NewSheet(SheetResources); err != nil {
		return fmt.Errorf("creating resources sheet: %w", err)
	}
	cells := make([][]interface{}, 0, len(resources))
	for _, r := range resources {
		cells = append(cells, []interface{}{
			r.ID, r.Name, string(r.Type), r.Cost, r.StandardRate, r.MaxUnits,
		})
	}
	return writeSheet(f, SheetResources, resourceHeaders, cells)
}

// writeSummarySheet mirrors the correction statistics the audit report
// carries: per-status counts with percentages, then totals and the factor.
func writeSummarySheet(f *excelize.File, report correct.Report) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}

	total := len(report.Entries)
	pct := func(n int) string {
		if total == 0 {
			return ""
		}
		return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
	}

	var origHours, corrHours float64
	for _, e := range report.Entries {
		origHours += e.OriginalHours
		corrHours += e.CorrectedHours
	}

	cells := [][]interface{}{
		{"Tasks corrected", report.Corrected(), pct(report.Corrected())},
		{"Tasks validated", report.Validated(), pct(report.Validated())},
		{"Tasks passed through (zero duration)", report.Passthrough(), pct(report.Passthrough())},
		{"Total tasks", total, "100%"},
		{"Original hours", fmt.Sprintf("%.0f", origHours), ""},
		{"Corrected hours", fmt.Sprintf("%.0f", corrHours), ""},
		{"Correction factor", fmt.Sprintf("%.1fx", report.Factor), ""},
	}
	return writeSheet(f, SheetSummary, []string{"Metric", "Count", "Percentage"}, cells)
}

// writeSheet writes a styled header row and data rows, then auto-sizes
// the columns from their content.
func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	widths := make([]int, len(headers))

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DCE6F1"}},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("addressing header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("writing header %s: %w", h, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("styling header %s: %w", h, err)
		}
		widths[i] = len(h)
	}

	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("addressing cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
			}
			if c < len(widths) {
				if l := cellWidth(v); l > widths[c] {
					widths[c] = l
				}
			}
		}
	}

	for i := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("naming column: %w", err)
		}
		w := widths[i] + 2
		if w > maxColWidth {
			w = maxColWidth
		}
		if err := f.SetColWidth(sheet, col, col, float64(w)); err != nil {
			return fmt.Errorf("sizing column %s: %w", col, err)
		}
	}
	return nil
}

// publish writes the workbook to a temp file next to path and renames it
// into place, so a failed run never leaves a partial output file.
func publish(f *excelize.File, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".mppexport-*.xlsx")
	if err != nil {
		return fmt.Errorf("writing output workbook: %w", err)
	}
	tmpPath := tmp.Name()

	if err := f.Write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing output workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing output workbook: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("publishing output workbook: %w", err)
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}

func cellWidth(v interface{}) int {
	switch x := v.(type) {
	case string:
		return len(x)
	case bool:
		return 5
	case int:
		return len(strconv.Itoa(x))
	case float64:
		return len(strconv.FormatFloat(x, 'f', -1, 64))
	default:
		return len(fmt.Sprint(v))
	}
}
