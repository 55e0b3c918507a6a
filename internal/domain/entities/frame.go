package entities

import "fmt"

// Frame is a small column-ordered table handed to the inference provider.
type Frame struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"data"`
}

// Records returns one column-keyed map per row.
func (f *Frame) Records() []map[string]any {
	records := make([]map[string]any, 0, len(f.Rows))
	for _, row := range f.Rows {
		record := make(map[string]any, len(f.Columns))
		for i, col := range f.Columns {
			if i < len(row) {
				record[col] = row[i]
			}
		}
		records = append(records, record)
	}
	return records
}

// ColumnIndex returns the position of name, or -1.
func (f *Frame) ColumnIndex(name string) int {
	for i, col := range f.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// StringAt returns the value at row/column as a string.
func (f *Frame) StringAt(row int, column string) (string, error) {
	v, err := f.value(row, column)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("column %q is %T, not string", column, v)
	}
	return s, nil
}

// FloatAt returns the value at row/column as a float64.
func (f *Frame) FloatAt(row int, column string) (float64, error) {
	v, err := f.value(row, column)
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("column %q is %T, not numeric", column, v)
	}
}

func (f *Frame) value(row int, column string) (any, error) {
	if row < 0 || row >= len(f.Rows) {
		return nil, fmt.Errorf("row %d out of range", row)
	}
	idx := f.ColumnIndex(column)
	if idx < 0 || idx >= len(f.Rows[row]) {
		return nil, fmt.Errorf("missing column %q", column)
	}
	return f.Rows[row][idx], nil
}
