package workbook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/option"
)

type fakeSheetsAPI struct {
	appended    [][]any
	inputOption string
	batches     int
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	path := r.URL.Path

	switch {
	case strings.HasSuffix(path, ":append"):
		var body struct {
			Values [][]any `json:"values"`
		}
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		f.appended = append(f.appended, body.Values...)
		f.inputOption = r.URL.Query().Get("valueInputOption")
		_, _ = io.WriteString(w, `{}`)
	case strings.HasSuffix(path, ":batchUpdate"):
		f.batches++
		_, _ = io.WriteString(w, `{}`)
	case strings.Contains(path, "/values/"):
		_, _ = io.WriteString(w, `{"values":[["Invoice",false],["Notice","✓"],[""]]}`)
	default:
		_, _ = io.WriteString(w, `{"sheets":[{"properties":{"sheetId":7,"title":"main"}}]}`)
	}
}

func newTestSheets(t *testing.T) (*Sheets, *fakeSheetsAPI) {
	t.Helper()

	api := &fakeSheetsAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	book, err := NewSheets(context.Background(), srv.Client(), "sheet-id", option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("NewSheets() error: %v", err)
	}
	return book, api
}

func TestSheets_HasSheet(t *testing.T) {
	book, _ := newTestSheets(t)
	ctx := context.Background()

	ok, err := book.HasSheet(ctx, "main")
	if err != nil || !ok {
		t.Errorf("HasSheet(main) = %v, %v; want true, nil", ok, err)
	}

	ok, err = book.HasSheet(ctx, "202401")
	if err != nil || ok {
		t.Errorf("HasSheet(202401) = %v, %v; want false, nil", ok, err)
	}
}

func TestSheets_ReadRows(t *testing.T) {
	book, _ := newTestSheets(t)

	rows, err := book.ReadRows(context.Background(), "main", 2, 2)
	if err != nil {
		t.Fatalf("ReadRows() error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Invoice" || rows[0][1] != false {
		t.Errorf("Unexpected first row: %v", rows[0])
	}
	if rows[2][1] != nil {
		t.Errorf("Expected short row padded with nil, got %v", rows[2])
	}

	if _, err := book.ReadRows(context.Background(), "missing", 2, 2); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("ReadRows(missing) error = %v, want ErrSheetNotFound", err)
	}
}

func TestSheets_AppendAndFormat(t *testing.T) {
	book, api := newTestSheets(t)
	ctx := context.Background()

	if err := book.AppendRow(ctx, "main", []any{"=SUM(A1)", "b"}); err != nil {
		t.Fatalf("AppendRow() error: %v", err)
	}
	if len(api.appended) != 1 || api.appended[0][0] != "=SUM(A1)" {
		t.Errorf("Unexpected appended values: %v", api.appended)
	}
	if api.inputOption != "RAW" {
		t.Errorf("valueInputOption = %q, want RAW so text is never parsed as a formula", api.inputOption)
	}

	if err := book.WriteHeader(ctx, "main", []any{"Title", "Convert"}); err != nil {
		t.Fatalf("WriteHeader() error: %v", err)
	}
	if err := book.AutoResizeColumns(ctx, "main", 2); err != nil {
		t.Fatalf("AutoResizeColumns() error: %v", err)
	}
	if api.batches != 2 {
		t.Errorf("Expected 2 batch updates, got %d", api.batches)
	}
}
