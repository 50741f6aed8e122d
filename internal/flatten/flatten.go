// Copyright Fernando Simich, 2026. All rights reserved.

// Package flatten turns the outline-level task tree into the flat ordered
// row sequence the tabular sheet is built from.
package flatten

import (
	"strconv"
	"strings"

	"github.com/fsimich/mppexport/pkg/types"
)

// Row is one flattened task: the original record plus its computed WBS
// code and indentation depth.
type Row struct {
	Task types.Task

	// WBS numbers the task's position among siblings at each ancestor
	// level, e.g. "1.2.3".
	WBS string

	// Indent is the display indentation depth, zero for top-level tasks.
	Indent int
}

// Flatten walks tasks in document order and assigns WBS codes from sibling
// counters at each outline level. Output order is the input order; no
// derived field ever reorders rows.
//
// An outline level that jumps more than one past its parent is treated as a
// direct child of the nearest enclosing ancestor. The project summary row
// (level 0) counts as a top-level task. An empty input produces an empty
// sequence.
func Flatten(tasks []types.Task) []Row {
	rows := make([]Row, 0, len(tasks))

	// counters[i] is the sibling count seen so far at depth i+1.
	var counters []int

	for _, t := range tasks {
		level := t.OutlineLevel
		if level < 1 {
			level = 1
		}
		// Clamp jumps: a task can sit at most one level below the
		// deepest open ancestor.
		if level > len(counters)+1 {
			level = len(counters) + 1
		}

		if len(counters) > level {
			counters = counters[:level]
		}
		if len(counters) < level {
			counters = append(counters, 0)
		}
		counters[level-1]++

		rows = append(rows, Row{
			Task:   t,
			WBS:    wbsCode(counters),
			Indent: level - 1,
		})
	}

	return rows
}

func wbsCode(counters []int) string {
	parts := make([]string, len(counters))
	for i, c := range counters {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ".")
}
