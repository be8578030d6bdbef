package tabular

// Preview is the human-facing sample of an upload: every sheet name, the
// sheet that was parsed, and at most PreviewRowCap normalized rows.
type Preview struct {
	Sheets         []string  `json:"sheets"`
	FirstSheetName *string   `json:"firstSheetName"`
	Rows           []*Record `json:"rows"`
}

// BuildPreview materializes the preview row set for a parsed table.
func BuildPreview(table *Table) (*Preview, error) {
	_, records, err := Normalize(table.Rows, PreviewRowCap)
	if err != nil {
		return nil, err
	}

	var first *string
	if table.FirstSheet != "" {
		name := table.FirstSheet
		first = &name
	}

	return &Preview{
		Sheets:         table.Sheets,
		FirstSheetName: first,
		Rows:           records,
	}, nil
}
