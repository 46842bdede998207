package source

import (
	"fmt"
	"strconv"
	"strings"
)

// TextEditor edits a cell as free text.
type TextEditor struct{}

func (TextEditor) EditValue(row *Record, key string) string { return row.CellValue(key) }

func (TextEditor) ApplyValue(row *Record, key, value string) (*Record, error) {
	return row.With(key, value), nil
}

// NumberEditor accepts integers and decimals. An empty value clears the
// cell.
type NumberEditor struct{}

func (NumberEditor) EditValue(row *Record, key string) string { return row.CellValue(key) }

func (NumberEditor) ApplyValue(row *Record, key, value string) (*Record, error) {
	value = strings.TrimSpace(value)
	if value != "" {
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return nil, fmt.Errorf("%q is not a number", value)
		}
	}
	return row.With(key, value), nil
}
