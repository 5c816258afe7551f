package workbook

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Sheets is a Workbook backed by a Google Sheets spreadsheet
type Sheets struct {
	srv           *sheets.Service
	spreadsheetID string
}

// NewSheets creates a Sheets workbook using an authorized HTTP client
func NewSheets(ctx context.Context, httpClient *http.Client, spreadsheetID string, opts ...option.ClientOption) (*Sheets, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}
	return &Sheets{srv: srv, spreadsheetID: spreadsheetID}, nil
}

// sheetID looks up the numeric id of a sheet by title
func (s *Sheets) sheetID(ctx context.Context, name string) (int64, bool, error) {
	spreadsheet, err := s.srv.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return 0, false, fmt.Errorf("error reading spreadsheet %s: %w", s.spreadsheetID, err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == name {
			return sheet.Properties.SheetId, true, nil
		}
	}
	return 0, false, nil
}

func (s *Sheets) mustSheetID(ctx context.Context, name string) (int64, error) {
	id, ok, err := s.sheetID(ctx, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}
	return id, nil
}

// quote builds an A1 range prefix, escaping single quotes in the sheet title
func quote(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

func (s *Sheets) HasSheet(ctx context.Context, name string) (bool, error) {
	_, ok, err := s.sheetID(ctx, name)
	return ok, err
}

func (s *Sheets) AddSheet(ctx context.Context, name string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: name},
			},
		}},
	}
	if _, err := s.srv.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("error adding sheet %s: %w", name, err)
	}
	return nil
}

func (s *Sheets) ReadRows(ctx context.Context, name string, firstRow, columns int) ([][]any, error) {
	if _, err := s.mustSheetID(ctx, name); err != nil {
		return nil, err
	}

	readRange := fmt.Sprintf("%s!A%d:%s", quote(name), firstRow, columnName(columns))
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", readRange, err)
	}

	rows := make([][]any, 0, len(resp.Values))
	for _, values := range resp.Values {
		row := make([]any, columns)
		copy(row, values)
		rows = append(rows, row)
	}
	return rows, nil
}

// AppendRow stores values as given. Titles and subjects starting with "=", "+"
// or "-" stay text instead of becoming formulas.
func (s *Sheets) AppendRow(ctx context.Context, name string, row []any) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{row}}
	_, err := s.srv.Spreadsheets.Values.Append(s.spreadsheetID, quote(name)+"!A1", vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("error appending row to %s: %w", name, err)
	}
	return nil
}

func (s *Sheets) WriteHeader(ctx context.Context, name string, header []any) error {
	id, err := s.mustSheetID(ctx, name)
	if err != nil {
		return err
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{header}}
	if _, err := s.srv.Spreadsheets.Values.Update(s.spreadsheetID, quote(name)+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("error writing header of %s: %w", name, err)
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:          id,
						StartRowIndex:    0,
						EndRowIndex:      1,
						StartColumnIndex: 0,
						EndColumnIndex:   int64(len(header)),
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							TextFormat: &sheets.TextFormat{Bold: true},
						},
					},
					Fields: "userEnteredFormat.textFormat.bold",
				},
			},
			{
				UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
					Properties: &sheets.SheetProperties{
						SheetId:        id,
						GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
					},
					Fields: "gridProperties.frozenRowCount",
				},
			},
		},
	}
	if _, err := s.srv.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("error formatting header of %s: %w", name, err)
	}
	return nil
}

func (s *Sheets) AutoResizeColumns(ctx context.Context, name string, columns int) error {
	id, err := s.mustSheetID(ctx, name)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    id,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   int64(columns),
				},
			},
		}},
	}
	if _, err := s.srv.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("error resizing columns of %s: %w", name, err)
	}
	return nil
}
