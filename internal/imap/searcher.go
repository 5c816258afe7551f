package imap

import (
	"context"
	"fmt"

	"mail-pdf-archiver/internal/logging"
	"mail-pdf-archiver/internal/mailparse"
	"mail-pdf-archiver/internal/models"

	"github.com/emersion/go-imap"
)

// Searcher runs mailbox searches over IMAP. IMAP has no conversations, so
// every matching message is returned as a thread of its own.
type Searcher struct {
	client Client
	cfg    models.ImapConfig
}

// NewSearcher wraps an IMAP client configured by cfg
func NewSearcher(client Client, cfg models.ImapConfig) *Searcher {
	return &Searcher{client: client, cfg: cfg}
}

// Open connects, logs in and selects the configured mailbox
func (s *Searcher) Open() error {
	if err := s.client.Connect(s.cfg.Server); err != nil {
		return err
	}
	if err := s.client.Login(s.cfg.Login, s.cfg.Password); err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	if err := s.client.SelectMailbox(s.cfg.MailBox); err != nil {
		return fmt.Errorf("folder selection error: %w", err)
	}
	logging.Log.Infof("Connected to %s, mailbox %s", s.cfg.Server, s.cfg.MailBox)
	return nil
}

// Close logs out
func (s *Searcher) Close() error {
	return s.client.Close()
}

// Criteria translates a query into IMAP search criteria. BEFORE is exclusive,
// so the day after the range end keeps the last day of the month included.
func Criteria(q models.SearchQuery) *imap.SearchCriteria {
	criteria := imap.NewSearchCriteria()
	criteria.Since = q.Range.Start
	criteria.Before = q.Range.End.AddDate(0, 0, 1)

	if q.Mode == models.ModeBodyToPDF {
		criteria.Text = []string{q.Title}
	} else {
		criteria.Header.Add("Subject", q.Title)
	}
	return criteria
}

// Search fetches and parses every message matching the query. In attachment
// mode messages without a PDF attachment are dropped, like Gmail's
// "has:attachment filename:pdf".
func (s *Searcher) Search(ctx context.Context, q models.SearchQuery) ([]models.Thread, error) {
	uids, err := s.client.SearchUIDs(Criteria(q))
	if err != nil {
		return nil, err
	}

	var threads []models.Thread
	for _, uid := range uids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := s.client.FetchMessage(uid)
		if err != nil {
			return nil, err
		}

		msg, err := mailparse.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("error parsing message UID %d: %w", uid, err)
		}

		if q.Mode == models.ModeAttachment && !mailparse.HasPDF(msg) {
			logging.Log.Debugf("Message UID %d has no PDF attachment, skipping", uid)
			continue
		}

		threads = append(threads, models.Thread{ID: msg.ID, Messages: []models.Message{*msg}})
	}

	return threads, nil
}
