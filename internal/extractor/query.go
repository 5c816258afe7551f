package extractor

import (
	"fmt"
	"strings"
	"time"

	"mail-pdf-archiver/internal/models"
)

// FormatSearchDate renders a date the way Gmail search expects it, e.g. 2024/5/1
func FormatSearchDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Year(), int(t.Month()), t.Day())
}

// BuildQuery builds the mailbox search for one configured title.
// Body-to-PDF titles match anywhere in the message; attachment titles must
// match the subject and the message must carry a PDF. Gmail's before: is
// exclusive, so it names the day after the range end.
func BuildQuery(s models.EmailSetting, rng models.DateRange) models.SearchQuery {
	title := strings.ReplaceAll(s.Title, `"`, "")
	after := FormatSearchDate(rng.Start)
	before := FormatSearchDate(rng.End.AddDate(0, 0, 1))

	var raw string
	if s.ConvertToPDF {
		raw = fmt.Sprintf(`"%s" after:%s before:%s`, title, after, before)
	} else {
		raw = fmt.Sprintf(`subject:"%s" after:%s before:%s has:attachment filename:pdf`, title, after, before)
	}

	return models.SearchQuery{
		Title: s.Title,
		Mode:  s.Mode(),
		Range: rng,
		Raw:   raw,
	}
}
