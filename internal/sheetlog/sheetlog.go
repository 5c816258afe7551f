// Package sheetlog writes run outcomes to the per-month log sheet.
package sheetlog

import (
	"context"
	"fmt"
	"time"

	"mail-pdf-archiver/internal/logging"
	"mail-pdf-archiver/internal/models"
	"mail-pdf-archiver/internal/workbook"
)

// Sheet is the log sheet of one target month
type Sheet struct {
	book workbook.Workbook
	name string
	loc  *time.Location
}

// Open returns the log sheet for the period, creating it with a bold, frozen
// header row when it does not exist. An existing sheet is appended to as is.
func Open(ctx context.Context, book workbook.Workbook, p models.Period, loc *time.Location) (*Sheet, error) {
	name := p.SheetName()

	exists, err := book.HasSheet(ctx, name)
	if err != nil {
		return nil, err
	}

	if !exists {
		if err := book.AddSheet(ctx, name); err != nil {
			return nil, err
		}
		header := make([]any, len(models.LogHeader))
		for i, h := range models.LogHeader {
			header[i] = h
		}
		if err := book.WriteHeader(ctx, name, header); err != nil {
			return nil, fmt.Errorf("error writing log header: %w", err)
		}
		logging.Log.Infof("Created log sheet %s", name)
	} else {
		logging.Log.Infof("Appending to existing log sheet %s", name)
	}

	return &Sheet{book: book, name: name, loc: loc}, nil
}

// Name returns the sheet name, e.g. "202405"
func (s *Sheet) Name() string {
	return s.name
}

// Append writes one entry as a new row
func (s *Sheet) Append(ctx context.Context, entry models.LogEntry) error {
	return s.book.AppendRow(ctx, s.name, entry.Row(s.loc))
}

// AutoResize fits the width of the log columns to their content
func (s *Sheet) AutoResize(ctx context.Context) error {
	return s.book.AutoResizeColumns(ctx, s.name, len(models.LogHeader))
}
