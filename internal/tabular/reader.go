package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Sentinel errors for malformed or empty uploads. Handlers map these to
// specific 4xx responses with errors.Is.
var (
	ErrUnreadable = errors.New("file could not be parsed")
	ErrNoSheets   = errors.New("workbook contains no sheets")
	ErrNoDataRows = errors.New("file contains only headers, no data rows")
)

// Table is the raw parse result for one tabular source: the cell matrix of
// the first sheet plus every available sheet name. Only the first sheet is
// processed downstream; the full name list supports "N sheets" reporting.
type Table struct {
	Sheets     []string
	FirstSheet string
	Rows       [][]Cell
}

// Read sniffs the format from the filename extension and parses the raw bytes
// into a cell matrix. CSV is comma-delimited UTF-8 text, TSV and TXT are
// tab-delimited, and every other supported extension is treated as a
// multi-sheet workbook. Pure transformation: no disk or network I/O.
func Read(data []byte, filename string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return readDelimited(data, filename, ',')
	case ".tsv", ".txt":
		return readDelimited(data, filename, '\t')
	default:
		return readWorkbook(data)
	}
}

// readDelimited parses comma- or tab-separated text as a single logical sheet
// named after the source file. A UTF-8 BOM, common in spreadsheet exports, is
// stripped before parsing.
func readDelimited(data []byte, filename string, comma rune) (*Table, error) {
	bomAware := transform.NewReader(bytes.NewReader(data), unicode.UTF8BOM.NewDecoder())
	reader := csv.NewReader(bomAware)
	reader.Comma = comma
	reader.FieldsPerRecord = -1 // allow ragged rows

	var rows [][]Cell
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		row := make([]Cell, len(fields))
		for i, field := range fields {
			row[i] = ParseCell(field)
		}
		rows = append(rows, row)
	}

	return &Table{
		Sheets:     []string{filename},
		FirstSheet: filename,
		Rows:       rows,
	}, nil
}

// readWorkbook parses a structured workbook and extracts the first sheet.
// All sheet names are surfaced even though only the first is consumed.
func readWorkbook(data []byte) (*Table, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	rawRows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	rows := make([][]Cell, len(rawRows))
	for i, rawRow := range rawRows {
		row := make([]Cell, len(rawRow))
		for j, raw := range rawRow {
			row[j] = ParseCell(raw)
		}
		rows[i] = row
	}

	return &Table{
		Sheets:     sheets,
		FirstSheet: sheets[0],
		Rows:       rows,
	}, nil
}
