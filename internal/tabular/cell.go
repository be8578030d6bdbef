package tabular

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CellKind discriminates the closed set of value kinds a parsed cell can hold.
type CellKind int

const (
	KindNull CellKind = iota
	KindString
	KindNumber
	KindBool
)

// Cell is a single parsed cell value: exactly one of null, string, number, or
// boolean, discriminated by Kind. Downstream type inference operates on the
// discriminant rather than runtime type inspection.
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
	Bool bool
}

// NullCell is the zero Cell, representing a missing or empty value.
var NullCell = Cell{Kind: KindNull}

// StringCell creates a string-kinded cell.
func StringCell(s string) Cell { return Cell{Kind: KindString, Str: s} }

// NumberCell creates a number-kinded cell.
func NumberCell(n float64) Cell { return Cell{Kind: KindNumber, Num: n} }

// BoolCell creates a boolean-kinded cell.
func BoolCell(b bool) Cell { return Cell{Kind: KindBool, Bool: b} }

// ParseCell converts a raw textual cell into the tagged union. Empty or
// whitespace-only text becomes null, numeric text becomes a number,
// true/false become booleans, and everything else stays a string.
func ParseCell(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return NullCell
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return NumberCell(n)
	}
	if strings.EqualFold(trimmed, "true") {
		return BoolCell(true)
	}
	if strings.EqualFold(trimmed, "false") {
		return BoolCell(false)
	}
	return StringCell(raw)
}

// AsString renders the cell the way a chart label needs it: numbers without
// exponent noise, null as the empty string.
func (c Cell) AsString() string {
	switch c.Kind {
	case KindString:
		return c.Str
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(c.Bool)
	default:
		return ""
	}
}

// AsFloat returns the numeric value of a number cell; any other kind is 0.
func (c Cell) AsFloat() float64 {
	if c.Kind == KindNumber {
		return c.Num
	}
	return 0
}

// IsNull reports whether the cell holds no value.
func (c Cell) IsNull() bool { return c.Kind == KindNull }

// MarshalJSON renders the cell as the raw JSON scalar it represents.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(c.Str)
	case KindNumber:
		return json.Marshal(c.Num)
	case KindBool:
		return json.Marshal(c.Bool)
	default:
		return nil, fmt.Errorf("unknown cell kind %d", c.Kind)
	}
}

// UnmarshalJSON parses a JSON scalar back into the tagged union.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		*c = NullCell
	case string:
		*c = StringCell(val)
	case float64:
		*c = NumberCell(val)
	case bool:
		*c = BoolCell(val)
	default:
		return fmt.Errorf("cell must be a JSON scalar, got %T", v)
	}
	return nil
}
