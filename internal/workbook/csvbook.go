package workbook

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CSVBook is a Workbook stored as one CSV file per sheet in a directory.
// Formatting operations have no CSV equivalent and are no-ops.
type CSVBook struct {
	dir string
}

// NewCSVBook creates the directory if needed and returns a workbook rooted there
func NewCSVBook(dir string) (*CSVBook, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating workbook dir %s: %w", dir, err)
	}
	return &CSVBook{dir: dir}, nil
}

func (b *CSVBook) path(name string) string {
	return filepath.Join(b.dir, strings.ReplaceAll(name, string(os.PathSeparator), "_")+".csv")
}

func (b *CSVBook) HasSheet(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(b.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (b *CSVBook) AddSheet(_ context.Context, name string) error {
	f, err := os.OpenFile(b.path(name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("error adding sheet %s: %w", name, err)
	}
	return f.Close()
}

func (b *CSVBook) readAll(name string) ([][]string, error) {
	f, err := os.Open(b.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %s: %w", name, err)
	}
	return records, nil
}

func (b *CSVBook) ReadRows(_ context.Context, name string, firstRow, columns int) ([][]any, error) {
	records, err := b.readAll(name)
	if err != nil {
		return nil, err
	}

	var rows [][]any
	for i := firstRow - 1; i < len(records); i++ {
		if i < 0 {
			continue
		}
		row := make([]any, columns)
		for c := 0; c < columns && c < len(records[i]); c++ {
			row[c] = records[i][c]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (b *CSVBook) AppendRow(_ context.Context, name string, row []any) error {
	f, err := os.OpenFile(b.path(name), os.O_APPEND|os.O_WRONLY, 0o644)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(cells(row)); err != nil {
		return fmt.Errorf("error appending row to %s: %w", name, err)
	}
	w.Flush()
	return w.Error()
}

func (b *CSVBook) WriteHeader(_ context.Context, name string, header []any) error {
	records, err := b.readAll(name)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		records = append(records, cells(header))
	} else {
		records[0] = cells(header)
	}

	f, err := os.Create(b.path(name))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("error writing header of %s: %w", name, err)
	}
	return nil
}

func (b *CSVBook) AutoResizeColumns(ctx context.Context, name string, _ int) error {
	ok, err := b.HasSheet(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	return nil
}

// cells stringifies values the way a spreadsheet displays them
func cells(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		switch v := v.(type) {
		case nil:
		case bool:
			out[i] = strings.ToUpper(fmt.Sprint(v))
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
