// Package workbook stores the configuration and log sheets of a run.
package workbook

import (
	"context"
	"errors"
)

// ErrSheetNotFound is returned when reading or writing a sheet that does not exist
var ErrSheetNotFound = errors.New("sheet not found")

// Workbook is a collection of named sheets. Rows are 1-based as in a spreadsheet.
type Workbook interface {
	HasSheet(ctx context.Context, name string) (bool, error)
	AddSheet(ctx context.Context, name string) error
	// ReadRows returns the first `columns` cells of every row from firstRow to the last non-empty row
	ReadRows(ctx context.Context, name string, firstRow, columns int) ([][]any, error)
	AppendRow(ctx context.Context, name string, row []any) error
	// WriteHeader writes row 1, makes it bold and freezes it
	WriteHeader(ctx context.Context, name string, header []any) error
	AutoResizeColumns(ctx context.Context, name string, columns int) error
}

// columnName converts a 1-based column index to its letter name (1 -> A, 27 -> AA)
func columnName(index int) string {
	name := ""
	for index > 0 {
		index--
		name = string(rune('A'+index%26)) + name
		index /= 26
	}
	return name
}
