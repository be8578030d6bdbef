package tabular

import (
	"fmt"
	"strings"
)

// Row caps for the two materialization modes: preview output for humans and
// the analysis sample fed to schema inference and chart suggestion.
const (
	PreviewRowCap  = 10
	AnalysisRowCap = 200
)

// Normalize interprets row 0 of the matrix as the header row and converts the
// remaining rows into field-keyed records, truncated to rowCap.
//
// Blank or whitespace-only headers at index i are replaced by "Column {i+1}".
// Duplicate header names are preserved as-is. Data rows are zipped against
// the headers positionally: missing trailing cells become null, extra cells
// beyond the header count are dropped, so every record has exactly
// len(headers) keys.
//
// An empty matrix yields empty headers and records without error. A matrix
// with only a header row fails with ErrNoDataRows because chart derivation
// requires at least one data row.
func Normalize(matrix [][]Cell, rowCap int) ([]string, []*Record, error) {
	if len(matrix) == 0 {
		return []string{}, []*Record{}, nil
	}
	if len(matrix) == 1 {
		return nil, nil, ErrNoDataRows
	}

	headers := make([]string, len(matrix[0]))
	for i, cell := range matrix[0] {
		name := strings.TrimSpace(cell.AsString())
		if name == "" {
			name = fmt.Sprintf("Column %d", i+1)
		}
		headers[i] = name
	}

	dataRows := matrix[1:]
	if len(dataRows) > rowCap {
		dataRows = dataRows[:rowCap]
	}

	records := make([]*Record, len(dataRows))
	for i, row := range dataRows {
		rec := NewRecord()
		for j, header := range headers {
			if j < len(row) {
				rec.Set(header, row[j])
			} else {
				rec.Set(header, NullCell)
			}
		}
		records[i] = rec
	}

	return headers, records, nil
}
