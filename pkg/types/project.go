// Copyright Fernando Simich, 2026. All rights reserved.

// Package types defines the shared data model for the conversion pipeline:
// project, task, and resource records plus per-stage configuration.
package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RelationType identifies a task dependency kind.
type RelationType string

const (
	FinishToStart  RelationType = "FS"
	StartToStart   RelationType = "SS"
	FinishToFinish RelationType = "FF"
	StartToFinish  RelationType = "SF"
)

// Relation is one predecessor link on a task.
type Relation struct {
	// PredecessorID is the ID of the predecessor task.
	PredecessorID int `json:"predecessor_id" yaml:"predecessor_id"`

	// Type is the dependency kind: FS, SS, FF, or SF.
	Type RelationType `json:"type" yaml:"type"`

	// Lag is the lag amount in LagUnit units. Zero means no lag.
	Lag float64 `json:"lag,omitempty" yaml:"lag,omitempty"`

	// LagUnit is the unit for Lag (e.g. "d", "h"). Empty when Lag is zero.
	LagUnit string `json:"lag_unit,omitempty" yaml:"lag_unit,omitempty"`
}

// Duration is a task duration with an explicit display unit. The unit the
// source file reports is not always the unit the value was authored in,
// which is what the correction stage reconciles.
type Duration struct {
	// Value is the numeric duration in Unit units.
	Value float64 `json:"value" yaml:"value"`

	// Unit is the display unit: "h", "eh" (elapsed hours), "d", "ed",
	// "w", or "mo".
	Unit string `json:"unit" yaml:"unit"`
}

// Working-time conversion constants: an 8-hour day, 5-day week, and a
// 20-day month approximation.
const (
	HoursPerDay  = 8
	DaysPerWeek  = 5
	DaysPerMonth = 20
)

// IsZero reports whether the duration has no value.
func (d Duration) IsZero() bool {
	return d.Value == 0
}

// Hours converts the duration to hours. Working units use the 8-hour day;
// elapsed days count 24 clock hours, matching how the source file reports
// them.
func (d Duration) Hours() float64 {
	switch d.Unit {
	case "h", "eh", "":
		return d.Value
	case "m":
		return d.Value / 60
	case "d":
		return d.Value * HoursPerDay
	case "ed":
		return d.Value * 24
	case "w":
		return d.Value * DaysPerWeek * HoursPerDay
	case "mo", "emo":
		return d.Value * DaysPerMonth * HoursPerDay
	default:
		return d.Value
	}
}

// Days converts the duration to working days.
func (d Duration) Days() float64 {
	return d.Hours() / HoursPerDay
}

// String renders the duration the way the tabular export displays it,
// e.g. "3d" or "24.5eh".
func (d Duration) String() string {
	if d.Unit == "" {
		return strconv.FormatFloat(d.Value, 'f', -1, 64)
	}
	return strconv.FormatFloat(d.Value, 'f', -1, 64) + d.Unit
}

// ParseDuration parses a display duration string such as "3d", "24eh",
// or "2.5w" back into a Duration.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Duration{}, nil
	}
	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.' || s[i] == '-') {
		i++
	}
	if i == 0 {
		return Duration{}, fmt.Errorf("parsing duration %q: no numeric part", s)
	}
	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return Duration{}, fmt.Errorf("parsing duration %q: %w", s, err)
	}
	return Duration{Value: v, Unit: strings.ToLower(strings.TrimSpace(s[i:]))}, nil
}

// Task is one row of the project plan, read once from the source file and
// never mutated afterwards except for duration correction.
type Task struct {
	// ID is the visible row number in the source plan.
	ID int `json:"id" yaml:"id"`

	// UID is the source file's stable internal identifier.
	UID int `json:"uid" yaml:"uid"`

	// Name is the task name.
	Name string `json:"name" yaml:"name"`

	// OutlineLevel is the task's depth in the plan hierarchy. The project
	// summary row is level 0; real tasks start at 1.
	OutlineLevel int `json:"outline_level" yaml:"outline_level"`

	// Duration is the raw duration as reported by the source file.
	Duration Duration `json:"duration" yaml:"duration"`

	// Start and Finish are the scheduled dates. Zero when unscheduled.
	Start  time.Time `json:"start" yaml:"start"`
	Finish time.Time `json:"finish" yaml:"finish"`

	// PercentComplete is progress from 0 to 100.
	PercentComplete float64 `json:"percent_complete" yaml:"percent_complete"`

	// Predecessors lists this task's dependency links.
	Predecessors []Relation `json:"predecessors,omitempty" yaml:"predecessors,omitempty"`

	// ResourceNames holds the names of assigned resources, in assignment order.
	ResourceNames []string `json:"resource_names,omitempty" yaml:"resource_names,omitempty"`

	// Cost is the total task cost.
	Cost float64 `json:"cost" yaml:"cost"`

	// Work is the total scheduled work.
	Work Duration `json:"work" yaml:"work"`

	Critical  bool `json:"critical" yaml:"critical"`
	Milestone bool `json:"milestone" yaml:"milestone"`
	Summary   bool `json:"summary" yaml:"summary"`

	// Notes holds free-form task notes.
	Notes string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// ResourceType classifies a resource.
type ResourceType string

const (
	ResourceWork     ResourceType = "Work"
	ResourceMaterial ResourceType = "Material"
	ResourceCost     ResourceType = "Cost"
)

// Resource is one entry from the project's resource pool.
type Resource struct {
	ID   int          `json:"id" yaml:"id"`
	UID  int          `json:"uid" yaml:"uid"`
	Name string       `json:"name" yaml:"name"`
	Type ResourceType `json:"type" yaml:"type"`

	// Cost is the resource's accumulated cost across assignments.
	Cost float64 `json:"cost" yaml:"cost"`

	// StandardRate is the display rate string, e.g. "50.00/h".
	StandardRate string `json:"standard_rate,omitempty" yaml:"standard_rate,omitempty"`

	// MaxUnits is the maximum assignment units in percent (100 = full time).
	MaxUnits float64 `json:"max_units" yaml:"max_units"`
}

// Project is the one-pass snapshot read from a source file.
type Project struct {
	// Title is the plan title from the project properties.
	Title string `json:"title" yaml:"title"`

	// Manager is the project manager from the project properties.
	Manager string `json:"manager,omitempty" yaml:"manager,omitempty"`

	// Start and Finish are the overall project dates.
	Start  time.Time `json:"start" yaml:"start"`
	Finish time.Time `json:"finish" yaml:"finish"`

	// Tasks holds all task rows in document order.
	Tasks []Task `json:"tasks" yaml:"tasks"`

	// Resources holds the resource pool.
	Resources []Resource `json:"resources" yaml:"resources"`
}
