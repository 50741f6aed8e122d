// Copyright Fernando Simich, 2026. All rights reserved.

package flatten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsimich/mppexport/pkg/types"
)

func task(id, level int, name string) types.Task {
	return types.Task{ID: id, OutlineLevel: level, Name: name}
}

func wbsCodes(rows []Row) []string {
	codes := make([]string, len(rows))
	for i, r := range rows {
		codes[i] = r.WBS
	}
	return codes
}

func TestFlattenEmpty(t *testing.T) {
	rows := Flatten(nil)
	require.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestFlattenTopLevelSiblings(t *testing.T) {
	rows := Flatten([]types.Task{
		task(1, 1, "a"),
		task(2, 1, "b"),
		task(3, 1, "c"),
	})
	assert.Equal(t, []string{"1", "2", "3"}, wbsCodes(rows))
	for _, r := range rows {
		assert.Equal(t, 0, r.Indent)
	}
}

func TestFlattenNestedHierarchy(t *testing.T) {
	rows := Flatten([]types.Task{
		task(1, 1, "phase 1"),
		task(2, 2, "design"),
		task(3, 3, "drawings"),
		task(4, 3, "review"),
		task(5, 2, "build"),
		task(6, 1, "phase 2"),
		task(7, 2, "commissioning"),
	})
	assert.Equal(t, []string{"1", "1.1", "1.1.1", "1.1.2", "1.2", "2", "2.1"}, wbsCodes(rows))
	assert.Equal(t, []int{0, 1, 2, 2, 1, 0, 1}, []int{
		rows[0].Indent, rows[1].Indent, rows[2].Indent, rows[3].Indent,
		rows[4].Indent, rows[5].Indent, rows[6].Indent,
	})
}

func TestFlattenLevelJumpClampsToNearestAncestor(t *testing.T) {
	// Level jumps from 1 straight to 3; the jumped task becomes a direct
	// child of the level-1 task.
	rows := Flatten([]types.Task{
		task(1, 1, "root"),
		task(2, 3, "deep"),
		task(3, 3, "deep sibling"),
		task(4, 1, "next root"),
	})
	assert.Equal(t, []string{"1", "1.1", "1.2", "2"}, wbsCodes(rows))
}

func TestFlattenFirstTaskDeepLevel(t *testing.T) {
	rows := Flatten([]types.Task{
		task(1, 4, "orphan"),
		task(2, 1, "root"),
	})
	assert.Equal(t, []string{"1", "2"}, wbsCodes(rows))
}

func TestFlattenProjectSummaryRowCountsAsTopLevel(t *testing.T) {
	rows := Flatten([]types.Task{
		task(0, 0, "project"),
		task(1, 1, "task"),
	})
	assert.Equal(t, []string{"1", "2"}, wbsCodes(rows))
}

func TestFlattenPreservesDocumentOrder(t *testing.T) {
	tasks := []types.Task{
		task(9, 1, "z"),
		task(3, 2, "a"),
		task(7, 1, "m"),
	}
	rows := Flatten(tasks)
	require.Len(t, rows, 3)
	for i, r := range rows {
		assert.Equal(t, tasks[i].ID, r.Task.ID)
	}
}
