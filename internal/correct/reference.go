// Copyright Fernando Simich, 2026. All rights reserved.

package correct

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadReference reads the trusted reference workbook and returns task ID to
// duration-hours. It scans the first sheet's header row for an ID column
// and a duration-hours column; native exports label the latter
// "Duración(horas)", regenerated ones "Duration Hours".
func LoadReference(path string) (map[int]float64, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening reference workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("reference workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading reference sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("reference sheet %s has no data rows", sheets[0])
	}

	idCol, hoursCol := -1, -1
	for i, header := range rows[0] {
		h := strings.ToLower(strings.TrimSpace(header))
		switch {
		case h == "id":
			idCol = i
		case strings.Contains(h, "hora") || strings.Contains(h, "hour"):
			if hoursCol < 0 {
				hoursCol = i
			}
		}
	}
	if idCol < 0 || hoursCol < 0 {
		return nil, fmt.Errorf("reference sheet %s: ID or duration-hours column not found", sheets[0])
	}

	ref := make(map[int]float64)
	for _, row := range rows[1:] {
		if idCol >= len(row) || hoursCol >= len(row) {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(row[idCol]))
		if err != nil {
			continue
		}
		hours, err := strconv.ParseFloat(strings.TrimSpace(row[hoursCol]), 64)
		if err != nil {
			continue
		}
		ref[id] = hours
	}
	if len(ref) == 0 {
		return nil, fmt.Errorf("reference sheet %s: no parsable rows", sheets[0])
	}
	return ref, nil
}
