package models

import (
	"fmt"
	"time"
)

// EmailSetting is one row of the configuration sheet
type EmailSetting struct {
	Title        string
	ConvertToPDF bool
}

// Mode tells the extraction engine how to turn matched mail into files
type Mode int

const (
	ModeAttachment Mode = iota
	ModeBodyToPDF
)

func (m Mode) String() string {
	if m == ModeBodyToPDF {
		return "body-to-pdf"
	}
	return "attachment"
}

// Mode returns the processing mode selected by the convert flag
func (s EmailSetting) Mode() Mode {
	if s.ConvertToPDF {
		return ModeBodyToPDF
	}
	return ModeAttachment
}

// Period is the target year and month of a run. Month may be 0 when the
// "year set, month unset" branch runs in January without rollover correction.
type Period struct {
	Year  int
	Month int
}

// SheetName is the name of the log sheet for this period, e.g. "202312"
func (p Period) SheetName() string {
	return fmt.Sprintf("%d%02d", p.Year, p.Month)
}

func (p Period) String() string {
	return fmt.Sprintf("%d-%02d", p.Year, p.Month)
}

// DateRange covers the first through the last day of the target month, both inclusive
type DateRange struct {
	Start time.Time
	End   time.Time
}

// SearchQuery is what a mail provider receives for one configured title.
// Raw holds the Gmail search syntax; the other fields let providers without
// a query language build native criteria.
type SearchQuery struct {
	Title string
	Mode  Mode
	Range DateRange
	Raw   string
}

// Log row status values
const (
	StatusSaved       = "saved"
	StatusNoMatch     = "no match"
	StatusNoPDF       = "no PDF attached"
	statusErrorPrefix = "error: "

	// SourceMessageBody is the source file name recorded for body-to-PDF rows
	SourceMessageBody = "message body"
)

// StatusError formats the status of a failed row
func StatusError(err error) string {
	return statusErrorPrefix + err.Error()
}

// LogHeader is the fixed header row of every log sheet
var LogHeader = []string{
	"Processed-At",
	"Email Title",
	"Message Date",
	"Source File Name",
	"Saved File Name",
	"Converted-to-PDF",
	"Status",
}

// LogEntry is one row of a log sheet
type LogEntry struct {
	ProcessedAt    time.Time
	EmailTitle     string
	MessageDate    time.Time
	SourceFileName string
	SavedFileName  string
	ConvertedToPDF bool
	Status         string
}

const cellTimeLayout = "2006-01-02 15:04:05"

// Row renders the entry as sheet cells in the given location. A zero
// MessageDate renders as an empty cell.
func (e LogEntry) Row(loc *time.Location) []any {
	messageDate := ""
	if !e.MessageDate.IsZero() {
		messageDate = e.MessageDate.In(loc).Format(cellTimeLayout)
	}
	converted := "no"
	if e.ConvertedToPDF {
		converted = "yes"
	}
	return []any{
		e.ProcessedAt.In(loc).Format(cellTimeLayout),
		e.EmailTitle,
		messageDate,
		e.SourceFileName,
		e.SavedFileName,
		converted,
		e.Status,
	}
}
