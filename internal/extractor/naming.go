package extractor

import (
	"strings"
	"time"
)

const pdfMimeType = "application/pdf"

// DateString formats a message date as yyyy-MM-dd in loc
func DateString(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// BodyFileName names the PDF rendered from a message body
func BodyFileName(dateStr, subject string) string {
	return dateStr + "_" + subject + ".pdf"
}

// AttachmentFileName names a saved PDF attachment. The .pdf suffix is added
// when the original name lacks it.
func AttachmentFileName(dateStr, originalName string) string {
	name := dateStr + "_" + originalName
	if !strings.HasSuffix(strings.ToLower(originalName), ".pdf") {
		name += ".pdf"
	}
	return name
}
