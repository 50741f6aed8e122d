// Copyright Fernando Simich, 2026. All rights reserved.

// Package chart renders an HTML timeline from an exported workbook. The
// chart is self-contained: positioned CSS bars, no script dependencies,
// one file to mail around.
package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fsimich/mppexport/internal/relation"
	"github.com/fsimich/mppexport/pkg/types"
)

// Status buckets a task by completion.
type Status string

const (
	StatusComplete   Status = "Complete"
	StatusInProgress Status = "In Progress"
	StatusNotStarted Status = "Not Started"
)

// Task is one timeline row, read back from the workbook.
type Task struct {
	Name         string
	WBS          string
	Duration     string
	Start        time.Time
	Finish       time.Time
	Percent      float64
	Status       Status
	Critical     bool
	Milestone    bool
	Indent       int
	Resources    string
	Predecessors string

	// LeftPct and WidthPct position the bar inside the timeline, in
	// percent of the full date span.
	LeftPct  float64
	WidthPct float64
}

// ResourceBar is one row of the optional resource-cost section.
type ResourceBar struct {
	Name     string
	Type     string
	Cost     float64
	WidthPct float64
}

// MonthTick is one month gridline.
type MonthTick struct {
	Label   string
	LeftPct float64
}

// Page is the template payload.
type Page struct {
	Title     string
	Tasks     []Task
	Months    []MonthTick
	Resources []ResourceBar
	Span      string
}

// statusFor buckets a completion percentage.
func statusFor(percent float64) Status {
	switch {
	case percent >= 100:
		return StatusComplete
	case percent > 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

// dateLayouts lists the timestamp shapes task sheets carry.
var dateLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01-02-06 15:04",
}

// DetectSheet picks the task sheet to read: an explicit name wins,
// otherwise the corrected sheet when present, otherwise Tasks.
func DetectSheet(f *excelize.File, explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, s := range f.GetSheetList() {
		if s == "Tasks_Corrected" {
			return s
		}
	}
	return "Tasks"
}

// LoadTasks reads timeline rows from the workbook at path. Rows without
// both dates are dropped. Malformed predecessor cells are reported on
// warnW and rendered without the bad entries.
func LoadTasks(path, sheet string, warnW io.Writer) ([]Task, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet = DetectSheet(f, sheet)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s has no task rows", sheet)
	}

	col := headerIndex(rows[0])
	var tasks []Task
	for _, row := range rows[1:] {
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		start := parseDate(get("start"))
		finish := parseDate(get("finish"))
		if start.IsZero() || finish.IsZero() {
			continue
		}

		percent, _ := strconv.ParseFloat(get("percent complete"), 64)
		indent, _ := strconv.Atoi(get("outline level"))
		if indent > 0 {
			indent--
		}

		preds := relation.ParseList(get("predecessors"), warnW)

		tasks = append(tasks, Task{
			Name:         get("name"),
			WBS:          get("wbs"),
			Duration:     durationLabel(get("duration"), warnW),
			Start:        start,
			Finish:       finish,
			Percent:      percent,
			Status:       statusFor(percent),
			Critical:     parseBool(get("critical")),
			Milestone:    parseBool(get("milestone")),
			Indent:       indent,
			Resources:    get("resource names"),
			Predecessors: relation.FormatList(preds),
		})
	}
	return tasks, nil
}

// LoadResources reads the resource-cost rows; a missing sheet is not an
// error, the caller decides whether to warn.
func LoadResources(path string) ([]ResourceBar, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	var sheet string
	for _, s := range f.GetSheetList() {
		if strings.Contains(s, "Resource") {
			sheet = s
			break
		}
	}
	if sheet == "" {
		return nil, nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	col := headerIndex(rows[0])
	var bars []ResourceBar
	maxCost := 0.0
	for _, row := range rows[1:] {
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		cost, _ := strconv.ParseFloat(get("cost"), 64)
		name := get("name")
		if name == "" {
			continue
		}
		bars = append(bars, ResourceBar{Name: name, Type: get("type"), Cost: cost})
		if cost > maxCost {
			maxCost = cost
		}
	}
	for i := range bars {
		if maxCost > 0 {
			bars[i].WidthPct = bars[i].Cost / maxCost * 100
		}
	}
	return bars, nil
}

// BuildPage lays the loaded rows out on the shared date span and attaches
// the month gridlines.
func BuildPage(title string, tasks []Task, resources []ResourceBar) Page {
	page := Page{Title: title, Tasks: tasks, Resources: resources}
	if len(tasks) == 0 {
		return page
	}

	minStart, maxFinish := tasks[0].Start, tasks[0].Finish
	for _, t := range tasks {
		if t.Start.Before(minStart) {
			minStart = t.Start
		}
		if t.Finish.After(maxFinish) {
			maxFinish = t.Finish
		}
	}
	span := maxFinish.Sub(minStart)
	if span <= 0 {
		span = 24 * time.Hour
	}

	for i := range page.Tasks {
		t := &page.Tasks[i]
		t.LeftPct = pct(t.Start.Sub(minStart), span)
		t.WidthPct = math.Max(pct(t.Finish.Sub(t.Start), span), 0.4)
	}

	for m := firstOfMonth(minStart); !m.After(maxFinish); m = m.AddDate(0, 1, 0) {
		page.Months = append(page.Months, MonthTick{
			Label:   m.Format("Jan 2006"),
			LeftPct: pct(m.Sub(minStart), span),
		})
	}

	page.Span = fmt.Sprintf("%s – %s", minStart.Format("2006-01-02"), maxFinish.Format("2006-01-02"))
	return page
}

// Render writes the chart page as HTML.
func Render(w io.Writer, page Page) error {
	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}

// WriteFile renders the page to path through a temp file in the same
// directory, renaming into place only after the render succeeds. A failed
// render leaves no file behind.
func WriteFile(path string, page Page) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".mppexport-*.html")
	if err != nil {
		return fmt.Errorf("writing chart file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := Render(tmp, page); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing chart file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("publishing chart file: %w", err)
	}
	return nil
}

func pct(d, span time.Duration) float64 {
	p := float64(d) / float64(span) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func headerIndex(headers []string) map[string]int {
	col := make(map[string]int, len(headers))
	for i, h := range headers {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return col
}

// durationLabel parses a duration cell and appends the working-day
// equivalent for the hover tooltip. Cells that do not parse are kept as-is
// with a warning.
func durationLabel(cell string, warnW io.Writer) string {
	if cell == "" {
		return ""
	}
	d, err := types.ParseDuration(cell)
	if err != nil {
		fmt.Fprintf(warnW, "warning: unreadable duration %q: %v\n", cell, err)
		return cell
	}
	if d.IsZero() {
		return d.String()
	}
	return fmt.Sprintf("%s (%s working days)", d, strconv.FormatFloat(d.Days(), 'f', -1, 64))
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(strings.ToLower(s))
	return b
}
