// Package extractor searches mail for each configured title and saves the
// resulting PDFs, recording one log row per outcome.
package extractor

import (
	"context"
	"fmt"
	"time"

	"mail-pdf-archiver/internal/logging"
	"mail-pdf-archiver/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MailSearcher finds threads matching a query
type MailSearcher interface {
	Search(ctx context.Context, q models.SearchQuery) ([]models.Thread, error)
}

// Folder stores saved files and returns the name the file was stored under,
// which may differ from the requested one
type Folder interface {
	Save(ctx context.Context, name, mimeType string, data []byte) (string, error)
}

// Renderer converts an HTML document into PDF bytes
type Renderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// EntryWriter appends rows to the log sheet
type EntryWriter interface {
	Append(ctx context.Context, entry models.LogEntry) error
}

// Summary accumulates the results of one run
type Summary struct {
	Titles  int
	Saved   int
	Rows    int
	Errors  int
	NoMatch int
}

type Engine struct {
	mail     MailSearcher
	folder   Folder
	renderer Renderer
	log      EntryWriter
	loc      *time.Location
	now      func() time.Time
}

// NewEngine creates an Engine. Message dates are formatted in loc.
func NewEngine(mail MailSearcher, folder Folder, renderer Renderer, log EntryWriter, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{
		mail:     mail,
		folder:   folder,
		renderer: renderer,
		log:      log,
		loc:      loc,
		now:      time.Now,
	}
}

// run carries the per-invocation state through the engine
type run struct {
	processedAt time.Time
	rng         models.DateRange
	summary     *Summary
}

// Run processes every setting in order. Failures are recorded per title and
// never stop the run; only a log sheet that cannot record a failure, or a
// cancelled context, returns a FatalError.
func (e *Engine) Run(ctx context.Context, settings []models.EmailSetting, rng models.DateRange) (*Summary, error) {
	r := &run{
		processedAt: e.now(),
		rng:         rng,
		summary:     &Summary{},
	}

	for _, s := range settings {
		if err := ctx.Err(); err != nil {
			return r.summary, &models.FatalError{Err: err}
		}
		r.summary.Titles++
		if err := e.processTitle(ctx, r, s); err != nil {
			return r.summary, err
		}
	}

	return r.summary, nil
}

func (e *Engine) append(ctx context.Context, r *run, entry models.LogEntry) error {
	if err := e.log.Append(ctx, entry); err != nil {
		return fmt.Errorf("unable to append log row: %w", err)
	}
	r.summary.Rows++
	return nil
}

func (r *run) entry(s models.EmailSetting) models.LogEntry {
	return models.LogEntry{
		ProcessedAt:    r.processedAt,
		EmailTitle:     s.Title,
		ConvertedToPDF: s.ConvertToPDF,
	}
}

// processTitle isolates every failure of one title into a single error row
func (e *Engine) processTitle(ctx context.Context, r *run, s models.EmailSetting) error {
	locallog := logging.Log.WithFields(logrus.Fields{
		"trace_id": uuid.New().String(),
		"title":    s.Title,
	})
	locallog.Infof("Processing title (mode: %s)", s.Mode())

	saved, err := e.extractTitle(ctx, r, s, locallog)
	if err == nil {
		locallog.Infof("%d PDF(s) saved for title", saved)
		return nil
	}

	titleErr := &models.TitleProcessingError{Title: s.Title, Err: err}
	r.summary.Errors++
	locallog.WithError(err).Error("Error processing title")

	entry := r.entry(s)
	entry.Status = models.StatusError(titleErr)
	if werr := e.append(ctx, r, entry); werr != nil {
		return &models.FatalError{Err: fmt.Errorf("recording failure of title %q: %w", s.Title, werr)}
	}
	return nil
}

func (e *Engine) extractTitle(ctx context.Context, r *run, s models.EmailSetting, locallog *logrus.Entry) (int, error) {
	q := BuildQuery(s, r.rng)
	locallog.Debugf("Search query: %s", q.Raw)

	threads, err := e.mail.Search(ctx, q)
	if err != nil {
		return 0, err
	}

	if len(threads) == 0 {
		r.summary.NoMatch++
		locallog.Info("No matching mail")
		entry := r.entry(s)
		entry.Status = models.StatusNoMatch
		return 0, e.append(ctx, r, entry)
	}

	saved := 0
	for _, thread := range threads {
		for i := range thread.Messages {
			msg := &thread.Messages[i]

			var n int
			if s.ConvertToPDF {
				n, err = e.convertMessage(ctx, r, s, msg, locallog)
			} else {
				n, err = e.extractAttachments(ctx, r, s, msg, locallog)
			}
			saved += n
			if err != nil {
				return saved, err
			}
		}
	}

	return saved, nil
}

// convertMessage renders one message body to PDF and records the outcome.
// The returned error is only set when the outcome row could not be written.
func (e *Engine) convertMessage(ctx context.Context, r *run, s models.EmailSetting, msg *models.Message, locallog *logrus.Entry) (int, error) {
	entry := r.entry(s)
	entry.MessageDate = msg.Date
	entry.SourceFileName = models.SourceMessageBody

	name, err := e.saveBody(ctx, msg)
	if err != nil {
		convErr := &models.MessageConversionError{MessageID: msg.ID, Err: err}
		r.summary.Errors++
		locallog.WithError(err).Errorf("Error converting message %s to PDF", msg.ID)
		entry.Status = models.StatusError(convErr)
		return 0, e.append(ctx, r, entry)
	}

	r.summary.Saved++
	locallog.Infof("Message PDF saved: %s", name)
	entry.SavedFileName = name
	entry.Status = models.StatusSaved
	return 1, e.append(ctx, r, entry)
}

func (e *Engine) saveBody(ctx context.Context, msg *models.Message) (string, error) {
	name := BodyFileName(DateString(msg.Date, e.loc), msg.Subject)

	pdf, err := e.renderer.RenderPDF(ctx, msg.HTMLBody)
	if err != nil {
		return "", err
	}
	return e.folder.Save(ctx, name, pdfMimeType, pdf)
}

// extractAttachments saves every PDF attachment of one message, one row per PDF.
// Non-PDF attachments are skipped without a row.
func (e *Engine) extractAttachments(ctx context.Context, r *run, s models.EmailSetting, msg *models.Message, locallog *logrus.Entry) (int, error) {
	if len(msg.Attachments) == 0 {
		entry := r.entry(s)
		entry.MessageDate = msg.Date
		entry.Status = models.StatusNoPDF
		return 0, e.append(ctx, r, entry)
	}

	saved := 0
	for i := range msg.Attachments {
		a := &msg.Attachments[i]
		if a.ContentType != pdfMimeType {
			continue
		}

		entry := r.entry(s)
		entry.MessageDate = msg.Date
		entry.SourceFileName = a.Name

		name, err := e.saveAttachment(ctx, msg, a)
		if err != nil {
			saveErr := &models.AttachmentSaveError{MessageID: msg.ID, Attachment: a.Name, Err: err}
			r.summary.Errors++
			locallog.WithError(err).Errorf("Error saving attachment %s", a.Name)
			entry.Status = models.StatusError(saveErr)
		} else {
			saved++
			r.summary.Saved++
			locallog.Infof("Attachment saved: %s", name)
			entry.SavedFileName = name
			entry.Status = models.StatusSaved
		}

		if err := e.append(ctx, r, entry); err != nil {
			return saved, err
		}
	}

	return saved, nil
}

func (e *Engine) saveAttachment(ctx context.Context, msg *models.Message, a *models.Attachment) (string, error) {
	name := AttachmentFileName(DateString(msg.Date, e.loc), a.Name)

	data, err := a.Content(ctx)
	if err != nil {
		return "", err
	}
	return e.folder.Save(ctx, name, pdfMimeType, data)
}
