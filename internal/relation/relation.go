// Copyright Fernando Simich, 2026. All rights reserved.

// Package relation encodes and decodes compact predecessor codes, the
// "3FS; 5SS+2d" strings the Predecessors column carries.
package relation

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fsimich/mppexport/pkg/types"
)

// Delimiter joins predecessor codes in a task's Predecessors cell.
const Delimiter = "; "

// Format renders one predecessor link as a compact code: task ID, then
// relation type, then an optional signed lag with unit ("3FS", "5SS+2d",
// "7FF-1d").
func Format(rel types.Relation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d%s", rel.PredecessorID, rel.Type)
	if rel.Lag != 0 {
		if rel.Lag > 0 {
			b.WriteByte('+')
		}
		b.WriteString(strconv.FormatFloat(rel.Lag, 'f', -1, 64))
		b.WriteString(rel.LagUnit)
	}
	return b.String()
}

// FormatList renders a task's predecessor links joined by the delimiter.
// An empty list renders as the empty string.
func FormatList(rels []types.Relation) string {
	if len(rels) == 0 {
		return ""
	}
	codes := make([]string, len(rels))
	for i, r := range rels {
		codes[i] = Format(r)
	}
	return strings.Join(codes, Delimiter)
}

// relTypes lists the recognized relation type tokens.
var relTypes = []types.RelationType{
	types.FinishToStart,
	types.StartToStart,
	types.FinishToFinish,
	types.StartToFinish,
}

// Parse decodes one predecessor code back into a Relation. It is the exact
// inverse of Format.
func Parse(code string) (types.Relation, error) {
	s := strings.TrimSpace(code)
	if s == "" {
		return types.Relation{}, fmt.Errorf("empty predecessor code")
	}

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return types.Relation{}, fmt.Errorf("predecessor code %q: missing task ID", code)
	}
	id, err := strconv.Atoi(s[:i])
	if err != nil {
		return types.Relation{}, fmt.Errorf("predecessor code %q: %w", code, err)
	}

	rest := s[i:]
	var relType types.RelationType
	for _, rt := range relTypes {
		if strings.HasPrefix(rest, string(rt)) {
			relType = rt
			rest = rest[len(rt):]
			break
		}
	}
	if relType == "" {
		return types.Relation{}, fmt.Errorf("predecessor code %q: unknown relation type", code)
	}

	rel := types.Relation{PredecessorID: id, Type: relType}
	if rest == "" {
		return rel, nil
	}

	if rest[0] != '+' && rest[0] != '-' {
		return types.Relation{}, fmt.Errorf("predecessor code %q: malformed lag", code)
	}
	j := 1
	for j < len(rest) && (rest[j] >= '0' && rest[j] <= '9' || rest[j] == '.') {
		j++
	}
	lag, err := strconv.ParseFloat(rest[:j], 64)
	if err != nil {
		return types.Relation{}, fmt.Errorf("predecessor code %q: malformed lag: %w", code, err)
	}
	unit := rest[j:]
	if unit == "" {
		return types.Relation{}, fmt.Errorf("predecessor code %q: lag missing unit", code)
	}
	rel.Lag = lag
	rel.LagUnit = unit
	return rel, nil
}

// ParseList decodes a delimited predecessor cell. Malformed entries are
// skipped with a warning line on warnW rather than failing the row.
func ParseList(cell string, warnW io.Writer) []types.Relation {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	var rels []types.Relation
	for _, code := range strings.Split(cell, ";") {
		if strings.TrimSpace(code) == "" {
			continue
		}
		rel, err := Parse(code)
		if err != nil {
			if warnW != nil {
				fmt.Fprintf(warnW, "warning: skipping predecessor entry: %v\n", err)
			}
			continue
		}
		rels = append(rels, rel)
	}
	return rels
}
