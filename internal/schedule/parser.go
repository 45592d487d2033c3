// Package schedule turns free-form generator output into structured
// study-plan rows and builds the prompt that pins the output format.
package schedule

import "strings"

// Row is one parsed line of a generated plan table.
type Row struct {
	Subtopic string
	Duration string
	TimeSlot string
}

// ParseTable extracts rows from a pipe-delimited table. The first two
// lines are assumed to be the header and the separator and are skipped
// unconditionally. Every remaining line containing at least one '|' is
// split on '|', the empty segment before a leading delimiter is
// discarded, and the first three remaining fields become the row.
//
// This is deliberately lenient: generator output varies, so lines with
// fewer than three usable fields are dropped silently and extra
// trailing fields are ignored. Malformed input degrades to fewer rows,
// never to an error; callers treat an empty result as a soft failure.
func ParseTable(raw string) []Row {
	lines := strings.Split(strings.TrimSpace(raw), "\n")
	if len(lines) <= 2 {
		return nil
	}

	var rows []Row
	for _, line := range lines[2:] {
		if !strings.Contains(line, "|") {
			continue
		}
		fields := strings.Split(line, "|")
		if strings.TrimSpace(fields[0]) == "" {
			fields = fields[1:]
		}
		if len(fields) < 3 {
			continue
		}
		rows = append(rows, Row{
			Subtopic: strings.TrimSpace(fields[0]),
			Duration: strings.TrimSpace(fields[1]),
			TimeSlot: strings.TrimSpace(fields[2]),
		})
	}
	return rows
}
