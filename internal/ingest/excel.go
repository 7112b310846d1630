package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is the first worksheet of a workbook, keyed by its header row.
type Sheet struct {
	Name    string              `json:"name"`
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"rows"`
}

// ParseExcel reads the first worksheet. Row 1 holds the headers; each later
// row with at least one non-blank cell becomes a header to value map with
// missing cells as "". Blank headers become __EMPTY, __EMPTY_1, ...
func ParseExcel(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	sheet := &Sheet{Name: sheetName, Headers: []string{}, Rows: []map[string]string{}}
	if len(rows) == 0 {
		return sheet, nil
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	sheet.Headers = headerNames(rows[0], width)

	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		record := make(map[string]string, width)
		for i, h := range sheet.Headers {
			value := ""
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			record[h] = value
		}
		sheet.Rows = append(sheet.Rows, record)
	}
	return sheet, nil
}

// headerNames names every column uniquely. A repeated name gets the first
// free _N suffix, skipping names already taken by other headers.
func headerNames(row []string, width int) []string {
	headers := make([]string, width)
	used := make(map[string]bool, width)
	next := make(map[string]int, width)
	empty := 0
	for i := 0; i < width; i++ {
		name := ""
		if i < len(row) {
			name = strings.TrimSpace(row[i])
		}
		if name == "" {
			name = "__EMPTY"
			if empty > 0 {
				name = fmt.Sprintf("__EMPTY_%d", empty)
			}
			empty++
		}
		if used[name] {
			base := name
			n := next[base]
			if n == 0 {
				n = 1
			}
			for used[fmt.Sprintf("%s_%d", base, n)] {
				n++
			}
			name = fmt.Sprintf("%s_%d", base, n)
			next[base] = n + 1
		}
		used[name] = true
		headers[i] = name
	}
	return headers
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
