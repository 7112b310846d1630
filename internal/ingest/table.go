package ingest

import (
	"regexp"
	"strings"
)

// Table is a run of consecutive tabular lines.
type Table struct {
	StartLine int        `json:"startLine"`
	Delimiter string     `json:"delimiter"`
	Rows      [][]string `json:"rows"`
}

var wideSpace = regexp.MustCompile(` {3,}`)

// DetectTables groups consecutive tabular lines of text into tables. A line
// is tabular when it holds a semicolon, a comma or a run of three or more
// spaces; it is split on the first of those present, in that order.
func DetectTables(text string) []Table {
	tables := []Table{}
	var current *Table

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		delim, cells := splitRow(line)
		if cells == nil {
			current = nil
			continue
		}
		if current == nil {
			tables = append(tables, Table{StartLine: i + 1, Delimiter: delim})
			current = &tables[len(tables)-1]
		}
		current.Rows = append(current.Rows, cells)
	}
	return tables
}

func splitRow(line string) (string, []string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", nil
	}

	var delim string
	var parts []string
	switch {
	case strings.Contains(trimmed, ";"):
		delim, parts = ";", strings.Split(trimmed, ";")
	case strings.Contains(trimmed, ","):
		delim, parts = ",", strings.Split(trimmed, ",")
	case wideSpace.MatchString(trimmed):
		delim, parts = "   ", wideSpace.Split(trimmed, -1)
	default:
		return "", nil
	}

	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return delim, cells
}
