package settings

import (
	"context"
	"errors"
	"testing"

	"mail-pdf-archiver/internal/models"
	"mail-pdf-archiver/internal/workbook"
)

func TestParseFlag(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected bool
	}{
		{name: "Boolean true", input: true, expected: true},
		{name: "Upper case TRUE", input: "TRUE", expected: true},
		{name: "Lower case true", input: "true", expected: true},
		{name: "Check mark", input: "✓", expected: true},
		{name: "Boolean false", input: false, expected: false},
		{name: "Mixed case True", input: "True", expected: false},
		{name: "Yes", input: "yes", expected: false},
		{name: "One as string", input: "1", expected: false},
		{name: "One as number", input: float64(1), expected: false},
		{name: "Empty string", input: "", expected: false},
		{name: "Nil", input: nil, expected: false},
		{name: "Padded true", input: " true ", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseFlag(tt.input); got != tt.expected {
				t.Errorf("ParseFlag(%#v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func newBook(t *testing.T, rows ...[]any) *workbook.CSVBook {
	t.Helper()
	ctx := context.Background()

	book, err := workbook.NewCSVBook(t.TempDir())
	if err != nil {
		t.Fatalf("NewCSVBook() error: %v", err)
	}
	if err := book.AddSheet(ctx, "main"); err != nil {
		t.Fatalf("AddSheet() error: %v", err)
	}
	if err := book.WriteHeader(ctx, "main", Header); err != nil {
		t.Fatalf("WriteHeader() error: %v", err)
	}
	for _, row := range rows {
		if err := book.AppendRow(ctx, "main", row); err != nil {
			t.Fatalf("AppendRow() error: %v", err)
		}
	}
	return book
}

func TestLoad(t *testing.T) {
	book := newBook(t,
		[]any{"Invoice", false},
		[]any{"", true},
		[]any{"Notice", "✓"},
		[]any{"   ", "TRUE"},
		[]any{"Receipt", "yes"},
	)

	got, err := Load(context.Background(), book, "main")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	expected := []models.EmailSetting{
		{Title: "Invoice", ConvertToPDF: false},
		{Title: "Notice", ConvertToPDF: true},
		{Title: "Receipt", ConvertToPDF: false},
	}
	if len(got) != len(expected) {
		t.Fatalf("Load() returned %d settings, want %d: %v", len(got), len(expected), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Load()[%d] = %+v, want %+v", i, got[i], expected[i])
		}
	}
}

func TestLoad_MissingSheet(t *testing.T) {
	book, err := workbook.NewCSVBook(t.TempDir())
	if err != nil {
		t.Fatalf("NewCSVBook() error: %v", err)
	}

	_, err = Load(context.Background(), book, "main")
	var cfgErr *models.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
}

func TestLoad_OnlyEmptyTitles(t *testing.T) {
	book := newBook(t, []any{"", true}, []any{"", false})

	_, err := Load(context.Background(), book, "main")
	var cfgErr *models.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
}

func TestLoad_HeaderOnly(t *testing.T) {
	book := newBook(t)

	if _, err := Load(context.Background(), book, "main"); err == nil {
		t.Error("Expected error for a sheet without data rows")
	}
}

func TestSetup(t *testing.T) {
	ctx := context.Background()
	book, err := workbook.NewCSVBook(t.TempDir())
	if err != nil {
		t.Fatalf("NewCSVBook() error: %v", err)
	}

	created, err := Setup(ctx, book, "main")
	if err != nil || !created {
		t.Fatalf("Setup() = %v, %v; want true, nil", created, err)
	}

	got, err := Load(ctx, book, "main")
	if err != nil {
		t.Fatalf("Load() after Setup error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 example settings, got %d", len(got))
	}
	if got[0].Title != "Invoice" || got[0].ConvertToPDF {
		t.Errorf("Unexpected first example: %+v", got[0])
	}
	if got[2].Title != "Important Notice" || !got[2].ConvertToPDF {
		t.Errorf("Unexpected third example: %+v", got[2])
	}

	created, err = Setup(ctx, book, "main")
	if err != nil || created {
		t.Errorf("Second Setup() = %v, %v; want false, nil", created, err)
	}
	again, _ := Load(ctx, book, "main")
	if len(again) != 3 {
		t.Errorf("Second Setup() must not add rows, got %d settings", len(again))
	}
}
