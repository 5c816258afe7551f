// Package settings reads the list of email titles to archive from the configuration sheet.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mail-pdf-archiver/internal/logging"
	"mail-pdf-archiver/internal/models"
	"mail-pdf-archiver/internal/workbook"
)

const (
	firstDataRow = 2
	columns      = 2
)

// ParseFlag reports whether a cell value of the convert column means "convert the body to PDF".
// Only boolean true and the strings "TRUE", "true" and "✓" count; anything else is false.
func ParseFlag(v any) bool {
	switch v := v.(type) {
	case bool:
		return v
	case string:
		switch v {
		case "TRUE", "true", "✓":
			return true
		}
	}
	return false
}

func title(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// Load reads rows 2..N of the configuration sheet and returns one setting per row with a non-empty title
func Load(ctx context.Context, book workbook.Workbook, sheet string) ([]models.EmailSetting, error) {
	rows, err := book.ReadRows(ctx, sheet, firstDataRow, columns)
	if errors.Is(err, workbook.ErrSheetNotFound) {
		return nil, &models.ConfigError{Reason: fmt.Sprintf("configuration sheet %q not found", sheet)}
	}
	if err != nil {
		return nil, &models.ConfigError{Reason: fmt.Sprintf("reading configuration sheet %q", sheet), Err: err}
	}

	var settings []models.EmailSetting
	for _, row := range rows {
		t := title(row[0])
		if t == "" {
			continue
		}
		settings = append(settings, models.EmailSetting{Title: t, ConvertToPDF: ParseFlag(row[1])})
	}

	if len(settings) == 0 {
		return nil, &models.ConfigError{Reason: fmt.Sprintf("no email titles configured in sheet %q", sheet)}
	}

	logging.Log.Infof("Loaded %d email titles from sheet %s", len(settings), sheet)
	return settings, nil
}

// Header of the configuration sheet
var Header = []any{"Email Title (partial match)", "Convert Body to PDF"}

// Examples written by Setup
var Examples = [][]any{
	{"Invoice", false},
	{"Receipt", false},
	{"Important Notice", true},
}

// Setup creates the configuration sheet with a header and example rows when it does not exist yet.
// It reports whether the sheet was created.
func Setup(ctx context.Context, book workbook.Workbook, sheet string) (bool, error) {
	exists, err := book.HasSheet(ctx, sheet)
	if err != nil {
		return false, err
	}
	if exists {
		logging.Log.Infof("Configuration sheet %s already exists, leaving it untouched", sheet)
		return false, nil
	}

	if err := book.AddSheet(ctx, sheet); err != nil {
		return false, err
	}
	if err := book.WriteHeader(ctx, sheet, Header); err != nil {
		return false, err
	}
	for _, row := range Examples {
		if err := book.AppendRow(ctx, sheet, row); err != nil {
			return false, err
		}
	}
	if err := book.AutoResizeColumns(ctx, sheet, columns); err != nil {
		return false, err
	}

	logging.Log.Infof("Configuration sheet %s created with %d example rows", sheet, len(Examples))
	return true, nil
}
