package imap

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"mail-pdf-archiver/internal/models"

	"github.com/emersion/go-imap"
)

type MockClient struct {
	Messages map[uint32]string
	UIDs     []uint32
	Criteria *imap.SearchCriteria
	Calls    []string
	FetchErr error
}

func (m *MockClient) Connect(server string) error {
	m.Calls = append(m.Calls, "connect "+server)
	return nil
}

func (m *MockClient) Login(user, password string) error {
	m.Calls = append(m.Calls, "login "+user)
	return nil
}

func (m *MockClient) SelectMailbox(name string) error {
	m.Calls = append(m.Calls, "select "+name)
	return nil
}

func (m *MockClient) SearchUIDs(criteria *imap.SearchCriteria) ([]uint32, error) {
	m.Criteria = criteria
	return m.UIDs, nil
}

func (m *MockClient) FetchMessage(uid uint32) (*imap.Message, error) {
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	section := &imap.BodySectionName{}
	msg := imap.NewMessage(uid, []imap.FetchItem{section.FetchItem(), imap.FetchInternalDate, imap.FetchUid})
	msg.Uid = uid
	msg.InternalDate = time.Date(2024, time.May, 3, 8, 0, 0, 0, time.UTC)
	msg.Body[section] = bytes.NewBufferString(m.Messages[uid])
	return msg, nil
}

func (m *MockClient) Close() error {
	m.Calls = append(m.Calls, "logout")
	return nil
}

const withPDF = "Subject: Invoice\r\n" +
	"Content-Type: multipart/mixed; boundary=b\r\n" +
	"\r\n" +
	"--b\r\n" +
	"Content-Type: text/html\r\n" +
	"\r\n" +
	"<p>hi</p>\r\n" +
	"--b\r\n" +
	"Content-Type: application/pdf\r\n" +
	"Content-Disposition: attachment; filename=\"a.pdf\"\r\n" +
	"\r\n" +
	"%PDF\r\n" +
	"--b--\r\n"

const withoutPDF = "Subject: Invoice reminder\r\n" +
	"Content-Type: text/plain\r\n" +
	"\r\n" +
	"Please pay.\r\n"

func mayRange() models.DateRange {
	return models.DateRange{
		Start: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestCriteria(t *testing.T) {
	body := Criteria(models.SearchQuery{Title: "Notice", Mode: models.ModeBodyToPDF, Range: mayRange()})
	if len(body.Text) != 1 || body.Text[0] != "Notice" {
		t.Errorf("Expected TEXT criterion, got %v", body.Text)
	}
	if body.Header.Get("Subject") != "" {
		t.Error("Body mode must not constrain the subject")
	}
	if !body.Before.Equal(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Before = %v, want 2024-06-01", body.Before)
	}

	att := Criteria(models.SearchQuery{Title: "Invoice", Mode: models.ModeAttachment, Range: mayRange()})
	if att.Header.Get("Subject") != "Invoice" {
		t.Errorf("Expected SUBJECT criterion, got %v", att.Header)
	}
	if !att.Since.Equal(mayRange().Start) {
		t.Errorf("Since = %v, want %v", att.Since, mayRange().Start)
	}
}

func TestSearcher_Open(t *testing.T) {
	client := &MockClient{}
	s := NewSearcher(client, models.ImapConfig{Server: "imap.test.com:993", Login: "me", MailBox: "INBOX"})

	if err := s.Open(); err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	expected := []string{"connect imap.test.com:993", "login me", "select INBOX", "logout"}
	if len(client.Calls) != len(expected) {
		t.Fatalf("Calls = %v, want %v", client.Calls, expected)
	}
	for i := range expected {
		if client.Calls[i] != expected[i] {
			t.Errorf("Calls[%d] = %s, want %s", i, client.Calls[i], expected[i])
		}
	}
}

func TestSearcher_SearchAttachmentMode(t *testing.T) {
	client := &MockClient{
		UIDs:     []uint32{10, 11},
		Messages: map[uint32]string{10: withPDF, 11: withoutPDF},
	}
	s := NewSearcher(client, models.ImapConfig{})

	threads, err := s.Search(context.Background(), models.SearchQuery{Title: "Invoice", Mode: models.ModeAttachment, Range: mayRange()})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(threads) != 1 {
		t.Fatalf("Expected 1 thread with a PDF, got %d", len(threads))
	}
	msg := threads[0].Messages[0]
	if msg.ID != "10" || msg.Subject != "Invoice" {
		t.Errorf("Unexpected message: id=%s subject=%s", msg.ID, msg.Subject)
	}
	if msg.Date.IsZero() {
		t.Error("Expected internal date fallback when no Date header")
	}
}

func TestSearcher_SearchBodyModeKeepsAll(t *testing.T) {
	client := &MockClient{
		UIDs:     []uint32{10, 11},
		Messages: map[uint32]string{10: withPDF, 11: withoutPDF},
	}
	s := NewSearcher(client, models.ImapConfig{})

	threads, err := s.Search(context.Background(), models.SearchQuery{Title: "Invoice", Mode: models.ModeBodyToPDF, Range: mayRange()})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(threads) != 2 {
		t.Fatalf("Expected 2 threads, got %d", len(threads))
	}
}

func TestSearcher_FetchError(t *testing.T) {
	fetchErr := errors.New("connection reset")
	client := &MockClient{UIDs: []uint32{1}, FetchErr: fetchErr}
	s := NewSearcher(client, models.ImapConfig{})

	_, err := s.Search(context.Background(), models.SearchQuery{Title: "x", Range: mayRange()})
	if !errors.Is(err, fetchErr) {
		t.Errorf("Search() error = %v, want %v", err, fetchErr)
	}
}
