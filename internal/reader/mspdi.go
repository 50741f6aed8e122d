// Copyright Fernando Simich, 2026. All rights reserved.

package reader

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fsimich/mppexport/pkg/types"
)

// MSPDIReader parses Microsoft Project XML interchange files.
type MSPDIReader struct{}

// mspdiProject mirrors the subset of the MSPDI schema the pipeline needs.
type mspdiProject struct {
	XMLName     xml.Name          `xml:"Project"`
	Title       string            `xml:"Title"`
	Name        string            `xml:"Name"`
	Manager     string            `xml:"Manager"`
	StartDate   string            `xml:"StartDate"`
	FinishDate  string            `xml:"FinishDate"`
	Tasks       []mspdiTask       `xml:"Tasks>Task"`
	Resources   []mspdiResource   `xml:"Resources>Resource"`
	Assignments []mspdiAssignment `xml:"Assignments>Assignment"`
}

type mspdiTask struct {
	UID             int         `xml:"UID"`
	ID              int         `xml:"ID"`
	Name            string      `xml:"Name"`
	OutlineLevel    int         `xml:"OutlineLevel"`
	Duration        string      `xml:"Duration"`
	DurationFormat  int         `xml:"DurationFormat"`
	Start           string      `xml:"Start"`
	Finish          string      `xml:"Finish"`
	PercentComplete float64     `xml:"PercentComplete"`
	Work            string      `xml:"Work"`
	Cost            float64     `xml:"Cost"`
	Critical        int         `xml:"Critical"`
	Milestone       int         `xml:"Milestone"`
	Summary         int         `xml:"Summary"`
	Notes           string      `xml:"Notes"`
	Links           []mspdiLink `xml:"PredecessorLink"`

	// NullTask marks placeholder rows the plan editor left behind.
	NullTask int `xml:"IsNull"`
}

type mspdiLink struct {
	PredecessorUID int `xml:"PredecessorUID"`
	Type           int `xml:"Type"`
	LinkLag        int `xml:"LinkLag"`
	LagFormat      int `xml:"LagFormat"`
}

type mspdiResource struct {
	UID          int     `xml:"UID"`
	ID           int     `xml:"ID"`
	Name         string  `xml:"Name"`
	Type         int     `xml:"Type"`
	Cost         float64 `xml:"Cost"`
	StandardRate float64 `xml:"StandardRate"`
	MaxUnits     float64 `xml:"MaxUnits"`
}

type mspdiAssignment struct {
	TaskUID     int `xml:"TaskUID"`
	ResourceUID int `xml:"ResourceUID"`
}

// Read parses the MSPDI file at path.
func (r *MSPDIReader) Read(path string) (*types.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	defer f.Close()

	var doc mspdiProject
	if err := xml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing MSPDI document %s: %w", path, err)
	}

	return mapProject(&doc), nil
}

func mapProject(doc *mspdiProject) *types.Project {
	p := &types.Project{
		Title:   doc.Title,
		Manager: doc.Manager,
		Start:   parseMSPDITime(doc.StartDate),
		Finish:  parseMSPDITime(doc.FinishDate),
	}
	if p.Title == "" {
		p.Title = doc.Name
	}

	// Predecessor links carry UIDs; the tabular output uses visible IDs.
	uidToID := make(map[int]int, len(doc.Tasks))
	for _, t := range doc.Tasks {
		uidToID[t.UID] = t.ID
	}

	assigned := assignmentNames(doc)

	for _, t := range doc.Tasks {
		if t.NullTask != 0 || (t.Name == "" && t.UID == 0 && t.ID == 0) {
			continue
		}
		task := types.Task{
			ID:              t.ID,
			UID:             t.UID,
			Name:            t.Name,
			OutlineLevel:    t.OutlineLevel,
			Duration:        mapDuration(t.Duration, t.DurationFormat),
			Start:           parseMSPDITime(t.Start),
			Finish:          parseMSPDITime(t.Finish),
			PercentComplete: t.PercentComplete,
			ResourceNames:   assigned[t.UID],
			Cost:            t.Cost / 100, // MSPDI money is in hundredths
			Work:            mapDuration(t.Work, formatHours),
			Critical:        t.Critical != 0,
			Milestone:       t.Milestone != 0,
			Summary:         t.Summary != 0,
			Notes:           strings.TrimSpace(t.Notes),
		}
		for _, link := range t.Links {
			predID, ok := uidToID[link.PredecessorUID]
			if !ok {
				continue
			}
			task.Predecessors = append(task.Predecessors, mapLink(predID, link))
		}
		p.Tasks = append(p.Tasks, task)
	}

	for _, res := range doc.Resources {
		if res.Name == "" {
			continue
		}
		p.Resources = append(p.Resources, types.Resource{
			ID:           res.ID,
			UID:          res.UID,
			Name:         res.Name,
			Type:         mapResourceType(res.Type),
			Cost:         res.Cost / 100,
			StandardRate: formatRate(res.StandardRate),
			MaxUnits:     res.MaxUnits * 100,
		})
	}

	return p
}

// assignmentNames builds the task UID to resource name list mapping,
// preserving assignment document order.
func assignmentNames(doc *mspdiProject) map[int][]string {
	resNames := make(map[int]string, len(doc.Resources))
	for _, res := range doc.Resources {
		resNames[res.UID] = res.Name
	}
	out := make(map[int][]string)
	for _, a := range doc.Assignments {
		name, ok := resNames[a.ResourceUID]
		if !ok || name == "" {
			continue
		}
		out[a.TaskUID] = append(out[a.TaskUID], name)
	}
	return out
}

// MSPDI DurationFormat codes for the units this tool distinguishes.
const (
	formatMinutes       = 3
	formatHours         = 5
	formatElapsedHours  = 6
	formatDays          = 7
	formatElapsedDays   = 8
	formatWeeks         = 9
	formatMonths        = 11
	formatElapsedMonths = 12
)

// mapDuration converts an ISO-8601 "PT8H0M0S" duration plus its display
// format code into a Duration in the display unit.
func mapDuration(iso string, format int) types.Duration {
	hours := isoHours(iso)
	if hours == 0 {
		return types.Duration{}
	}
	switch format {
	case formatMinutes:
		return types.Duration{Value: hours * 60, Unit: "m"}
	case formatHours:
		return types.Duration{Value: hours, Unit: "h"}
	case formatElapsedHours:
		return types.Duration{Value: hours, Unit: "eh"}
	case formatElapsedDays:
		return types.Duration{Value: hours / 24, Unit: "ed"}
	case formatWeeks:
		return types.Duration{Value: hours / (types.HoursPerDay * types.DaysPerWeek), Unit: "w"}
	case formatMonths, formatElapsedMonths:
		return types.Duration{Value: hours / (types.HoursPerDay * types.DaysPerMonth), Unit: "mo"}
	default:
		return types.Duration{Value: hours / types.HoursPerDay, Unit: "d"}
	}
}

// isoHours parses an MSPDI PT…H…M…S duration string into hours.
func isoHours(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.TrimPrefix(s, "PT")
	var hours float64
	num := ""
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9' || c == '.':
			num += string(c)
		case c == 'H' || c == 'M' || c == 'S':
			v, err := strconv.ParseFloat(num, 64)
			if err == nil {
				switch c {
				case 'H':
					hours += v
				case 'M':
					hours += v / 60
				case 'S':
					hours += v / 3600
				}
			}
			num = ""
		}
	}
	return hours
}

// Lag is stored in tenths of a minute; conversion divisors per lag unit.
var lagDivisors = map[string]float64{
	"m":  10,
	"h":  600,
	"eh": 600,
	"d":  600 * types.HoursPerDay,
	"ed": 600 * 24,
	"w":  600 * types.HoursPerDay * types.DaysPerWeek,
	"mo": 600 * types.HoursPerDay * types.DaysPerMonth,
}

func mapLink(predID int, link mspdiLink) types.Relation {
	rel := types.Relation{
		PredecessorID: predID,
		Type:          mapLinkType(link.Type),
	}
	if link.LinkLag != 0 {
		unit := lagUnit(link.LagFormat)
		rel.Lag = float64(link.LinkLag) / lagDivisors[unit]
		rel.LagUnit = unit
	}
	return rel
}

// mapLinkType decodes the MSPDI link type code. Finish-to-start is the
// schema default.
func mapLinkType(code int) types.RelationType {
	switch code {
	case 0:
		return types.FinishToFinish
	case 2:
		return types.StartToFinish
	case 3:
		return types.StartToStart
	default:
		return types.FinishToStart
	}
}

func lagUnit(format int) string {
	switch format {
	case formatMinutes:
		return "m"
	case formatHours:
		return "h"
	case formatElapsedHours:
		return "eh"
	case formatElapsedDays:
		return "ed"
	case formatWeeks:
		return "w"
	case formatMonths, formatElapsedMonths:
		return "mo"
	default:
		return "d"
	}
}

func mapResourceType(code int) types.ResourceType {
	switch code {
	case 0:
		return types.ResourceMaterial
	case 1:
		return types.ResourceWork
	default:
		return types.ResourceCost
	}
}

// formatRate renders a standard rate as the export displays it.
func formatRate(rate float64) string {
	if rate == 0 {
		return ""
	}
	return strconv.FormatFloat(rate, 'f', 2, 64) + "/h"
}

// mspdiTimeLayouts lists the timestamp shapes seen in MSPDI exports.
var mspdiTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
}

func parseMSPDITime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range mspdiTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
