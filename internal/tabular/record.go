package tabular

import (
	"bytes"
	"encoding/json"
)

// Record is one data row keyed by column header. It preserves header
// insertion order so schema inference and JSON output follow the source
// column order rather than map iteration order.
type Record struct {
	keys   []string
	fields map[string]Cell
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{fields: make(map[string]Cell)}
}

// Set assigns a cell to a column, recording insertion order on first set.
func (r *Record) Set(key string, cell Cell) {
	if _, exists := r.fields[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.fields[key] = cell
}

// Get returns the cell for a column and whether the column exists.
func (r *Record) Get(key string) (Cell, bool) {
	c, ok := r.fields[key]
	return c, ok
}

// Keys returns the column names in insertion order.
func (r *Record) Keys() []string { return r.keys }

// Len returns the number of columns in the record.
func (r *Record) Len() int { return len(r.keys) }

// MarshalJSON writes the record as a JSON object with keys in column order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valJSON, err := json.Marshal(r.fields[key])
		if err != nil {
			return nil, err
		}
		buf.Write(valJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
