// Copyright Fernando Simich, 2026. All rights reserved.

// Package correct reconciles raw task durations against a trusted
// reference export. The source parser is known to misreport duration
// units by a uniform factor (24x in every case observed so far); this
// stage derives that factor per project and applies it uniformly,
// keeping a per-task audit trail.
package correct

import (
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/fsimich/mppexport/pkg/types"
)

// ErrNoReference is returned when correction is requested but no usable
// reference value exists to derive a factor from.
var ErrNoReference = fmt.Errorf("unresolvable correction: no usable reference durations")

// Status classifies how one task's duration was handled.
type Status string

const (
	// StatusCorrected means the uniform scale factor was applied.
	StatusCorrected Status = "corrected"

	// StatusValidated means the derived factor was close enough to 1
	// that the raw value was already correct.
	StatusValidated Status = "validated"

	// StatusZeroDuration means the raw duration was zero or missing and
	// passed through untouched.
	StatusZeroDuration Status = "zero-duration"
)

// Entry is the audit record for one task.
type Entry struct {
	TaskID         int     `json:"task_id" yaml:"task_id"`
	Name           string  `json:"name" yaml:"name"`
	OriginalHours  float64 `json:"original_hours" yaml:"original_hours"`
	CorrectedHours float64 `json:"corrected_hours" yaml:"corrected_hours"`
	Status         Status  `json:"status" yaml:"status"`
}

// Report is the audit trail for one correction run.
type Report struct {
	// Factor is the uniform scale factor that was applied.
	Factor float64 `json:"factor" yaml:"factor"`

	// Derived is false when the factor came from configuration rather
	// than the reference workbook.
	Derived bool `json:"derived" yaml:"derived"`

	// RunAt is the correction timestamp.
	RunAt time.Time `json:"run_at" yaml:"run_at"`

	// Entries holds one record per task, in document order.
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Corrected counts entries with StatusCorrected.
func (r Report) Corrected() int { return r.count(StatusCorrected) }

// Validated counts entries with StatusValidated.
func (r Report) Validated() int { return r.count(StatusValidated) }

// Passthrough counts entries with StatusZeroDuration.
func (r Report) Passthrough() int { return r.count(StatusZeroDuration) }

func (r Report) count(s Status) int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == s {
			n++
		}
	}
	return n
}

// validatedBand is the half-width of the factor band treated as "no
// systematic error": a derived factor within it leaves durations alone,
// which is what makes applying the correction twice a no-op.
const validatedBand = 0.01

// DeriveFactor computes the uniform scale factor reference/raw from every
// task that has a positive raw duration and a reference entry. The factor
// is the median of the per-task ratios, which tolerates a handful of tasks
// edited between the two exports. It returns ErrNoReference when no task
// qualifies.
func DeriveFactor(tasks []types.Task, ref map[int]float64) (float64, error) {
	var ratios []float64
	for _, t := range tasks {
		raw := t.Duration.Hours()
		if raw <= 0 {
			continue
		}
		refHours, ok := ref[t.ID]
		if !ok || refHours <= 0 {
			continue
		}
		ratios = append(ratios, refHours/raw)
	}
	if len(ratios) == 0 {
		return 0, ErrNoReference
	}
	sort.Float64s(ratios)
	mid := len(ratios) / 2
	if len(ratios)%2 == 1 {
		return ratios[mid], nil
	}
	return (ratios[mid-1] + ratios[mid]) / 2, nil
}

// Apply scales every nonzero raw duration by factor and returns the
// corrected task list plus the audit report. The input slice is not
// mutated. A factor within the validated band leaves all values unchanged.
func Apply(tasks []types.Task, factor float64, derived bool) ([]types.Task, Report) {
	report := Report{
		Factor:  factor,
		Derived: derived,
		RunAt:   time.Now().UTC(),
		Entries: make([]Entry, 0, len(tasks)),
	}

	noop := math.Abs(factor-1) <= validatedBand

	out := make([]types.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t
		entry := Entry{
			TaskID:        t.ID,
			Name:          t.Name,
			OriginalHours: t.Duration.Hours(),
		}

		switch {
		case t.Duration.IsZero():
			entry.CorrectedHours = 0
			entry.Status = StatusZeroDuration
		case noop:
			entry.CorrectedHours = entry.OriginalHours
			entry.Status = StatusValidated
		default:
			out[i].Duration = types.Duration{
				Value: t.Duration.Value * factor,
				Unit:  t.Duration.Unit,
			}
			entry.CorrectedHours = out[i].Duration.Hours()
			entry.Status = StatusCorrected
		}

		report.Entries = append(report.Entries, entry)
	}

	return out, report
}

// WriteReport writes the audit report as YAML.
func WriteReport(path string, report Report) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling correction report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing correction report: %w", err)
	}
	return nil
}
