package tabular

// ColumnType is the coarse semantic type assigned to a column.
type ColumnType string

const (
	TypeNumber ColumnType = "number"
	TypeString ColumnType = "string"
)

// Column is one inferred schema entry.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Infer assigns each column a type by majority vote: number when strictly
// more than half of the column's non-null sampled values are numeric,
// otherwise string. Columns with zero non-null values default to string.
//
// The column universe is the first record's key set, not the union across all
// records. Columns that later records introduce are excluded. This mirrors
// the long-standing ingestion behavior and is kept for compatibility.
func Infer(records []*Record) []Column {
	if len(records) == 0 {
		return []Column{}
	}

	names := records[0].Keys()
	columns := make([]Column, 0, len(names))
	for _, name := range names {
		var nonNull, numeric int
		for _, rec := range records {
			cell, ok := rec.Get(name)
			if !ok || cell.IsNull() {
				continue
			}
			nonNull++
			if cell.Kind == KindNumber {
				numeric++
			}
		}

		colType := TypeString
		if numeric*2 > nonNull {
			colType = TypeNumber
		}
		columns = append(columns, Column{Name: name, Type: colType})
	}

	return columns
}
