// Copyright Fernando Simich, 2026. All rights reserved.

package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fsimich/mppexport/internal/correct"
	"github.com/fsimich/mppexport/internal/export"
	"github.com/fsimich/mppexport/internal/flatten"
	"github.com/fsimich/mppexport/pkg/types"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 8, 0, 0, 0, time.UTC)
}

func sampleTasks() []types.Task {
	return []types.Task{
		{
			ID: 1, Name: "Obra civil", OutlineLevel: 1,
			Duration: types.Duration{Value: 40, Unit: "d"},
			Start:    date(2025, 1, 6), Finish: date(2025, 2, 14),
			PercentComplete: 50, Critical: true,
		},
		{
			ID: 2, Name: "Excavación", OutlineLevel: 2,
			Duration: types.Duration{Value: 10, Unit: "d"},
			Start:    date(2025, 1, 6), Finish: date(2025, 1, 17),
			PercentComplete: 100,
			Predecessors:    []types.Relation{{PredecessorID: 1, Type: types.StartToStart}},
			ResourceNames:   []string{"Cuadrilla A"},
		},
		{
			ID: 3, Name: "Entrega", OutlineLevel: 1,
			Start: date(2025, 3, 28), Finish: date(2025, 3, 28),
			Milestone: true,
		},
		{
			// No dates: dropped from the chart.
			ID: 4, Name: "Sin fechas", OutlineLevel: 1,
		},
	}
}

func writeSampleWorkbook(t *testing.T, corrected bool) string {
	t.Helper()
	wb := export.Workbook{
		Rows: flatten.Flatten(sampleTasks()),
		Resources: []types.Resource{
			{ID: 1, Name: "Cuadrilla A", Type: types.ResourceWork, Cost: 7500},
			{ID: 2, Name: "Grúa", Type: types.ResourceMaterial, Cost: 2500},
		},
	}
	if corrected {
		_, report := correct.Apply(sampleTasks(), 24, true)
		wb.Report = &report
	}
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	require.NoError(t, export.Write(path, wb))
	return path
}

func TestLoadTasksDropsRowsWithoutDates(t *testing.T) {
	path := writeSampleWorkbook(t, false)

	tasks, err := LoadTasks(path, "", nil)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "Obra civil", tasks[0].Name)
	assert.Equal(t, "Entrega", tasks[2].Name)
}

func TestLoadTasksStatusBuckets(t *testing.T) {
	path := writeSampleWorkbook(t, false)

	tasks, err := LoadTasks(path, "", nil)
	require.NoError(t, err)

	assert.Equal(t, StatusInProgress, tasks[0].Status)
	assert.Equal(t, StatusComplete, tasks[1].Status)
	assert.Equal(t, StatusNotStarted, tasks[2].Status)
	assert.True(t, tasks[0].Critical)
	assert.True(t, tasks[2].Milestone)
	assert.Equal(t, 1, tasks[1].Indent)
	assert.Equal(t, "1SS", tasks[1].Predecessors)
}

func TestDetectSheetPrefersCorrected(t *testing.T) {
	path := writeSampleWorkbook(t, true)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "Tasks_Corrected", DetectSheet(f, ""))
	assert.Equal(t, "Tasks", DetectSheet(f, "Tasks"))

	tasks, err := LoadTasks(path, "", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, tasks)
}

func TestLoadTasksWarnsOnMalformedPredecessors(t *testing.T) {
	path := writeSampleWorkbook(t, false)

	// Corrupt one predecessor cell in place.
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Tasks", "I3", "bogus; 1SS"))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	var warn bytes.Buffer
	tasks, err := LoadTasks(path, "", &warn)
	require.NoError(t, err)

	assert.Contains(t, warn.String(), "skipping predecessor entry")
	assert.Equal(t, "1SS", tasks[1].Predecessors)
}

func TestBuildPageLayout(t *testing.T) {
	path := writeSampleWorkbook(t, false)
	tasks, err := LoadTasks(path, "", nil)
	require.NoError(t, err)

	page := BuildPage("Test Chart", tasks, nil)

	assert.Equal(t, "Test Chart", page.Title)
	require.Len(t, page.Tasks, 3)

	first := page.Tasks[0]
	assert.Equal(t, 0.0, first.LeftPct)
	assert.Greater(t, first.WidthPct, 0.0)

	last := page.Tasks[2]
	assert.Greater(t, last.LeftPct, first.LeftPct)

	// Jan, Feb, Mar gridlines.
	require.NotEmpty(t, page.Months)
	assert.Equal(t, "Jan 2025", page.Months[0].Label)
}

func TestBuildPageEmpty(t *testing.T) {
	page := BuildPage("Empty", nil, nil)
	assert.Empty(t, page.Tasks)
	assert.Empty(t, page.Months)
}

func TestLoadResources(t *testing.T) {
	path := writeSampleWorkbook(t, false)

	bars, err := LoadResources(path)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, "Cuadrilla A", bars[0].Name)
	assert.Equal(t, 100.0, bars[0].WidthPct)
	assert.InDelta(t, 100.0/3, bars[1].WidthPct, 1e-6)
}

func TestRenderHTML(t *testing.T) {
	path := writeSampleWorkbook(t, false)
	tasks, err := LoadTasks(path, "", nil)
	require.NoError(t, err)
	resources, err := LoadResources(path)
	require.NoError(t, err)

	page := BuildPage("Planta FCC", tasks, resources)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, page))
	html := buf.String()

	assert.Contains(t, html, "<title>Planta FCC</title>")
	assert.Contains(t, html, "Obra civil")
	assert.Contains(t, html, `class="milestone"`)
	assert.Contains(t, html, "critical")
	assert.Contains(t, html, "Resource Costs")
	assert.Contains(t, html, "Cuadrilla A")
	assert.Contains(t, html, "#28a745")
}

func TestRenderWithoutResourcesSection(t *testing.T) {
	page := BuildPage("Plain", []Task{{
		Name: "x", Start: date(2025, 1, 1), Finish: date(2025, 1, 10),
	}}, nil)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, page))
	assert.NotContains(t, buf.String(), "Resource Costs")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, StatusComplete, statusFor(100))
	assert.Equal(t, StatusInProgress, statusFor(33))
	assert.Equal(t, StatusNotStarted, statusFor(0))
}

func TestLoadTasksDurationLabel(t *testing.T) {
	path := writeSampleWorkbook(t, false)

	tasks, err := LoadTasks(path, "", nil)
	require.NoError(t, err)

	assert.Equal(t, "40d (40 working days)", tasks[0].Duration)
	assert.Equal(t, "10d (10 working days)", tasks[1].Duration)
}

func TestLoadTasksWarnsOnUnreadableDuration(t *testing.T) {
	path := writeSampleWorkbook(t, false)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Tasks", "D2", "forty days"))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	var warn bytes.Buffer
	tasks, err := LoadTasks(path, "", &warn)
	require.NoError(t, err)

	assert.Contains(t, warn.String(), "unreadable duration")
	assert.Equal(t, "forty days", tasks[0].Duration)
}

func TestWriteFilePublishes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gantt.html")
	page := BuildPage("Planta FCC", []Task{{
		Name: "x", Start: date(2025, 1, 1), Finish: date(2025, 1, 10),
	}}, nil)

	require.NoError(t, WriteFile(path, page))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<title>Planta FCC</title>")
}

func TestWriteFileUnwritablePathLeavesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	path := filepath.Join(dir, "gantt.html")

	err := WriteFile(path, BuildPage("Empty", nil, nil))
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
