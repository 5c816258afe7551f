package mailparse

import (
	"fmt"
	"html"
	"io"
	"mime"
	"regexp"
	"strings"
	"time"

	"mail-pdf-archiver/internal/models"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// Parse converts a fetched IMAP message into a normalized Message
func Parse(msg *imap.Message) (*models.Message, error) {
	section := &imap.BodySectionName{}
	r := msg.GetBody(section)
	if r == nil {
		return nil, io.EOF
	}

	m, err := ParseReader(r)
	if err != nil {
		return nil, err
	}

	m.ID = fmt.Sprintf("%d", msg.Uid)
	m.ThreadID = m.ID
	if m.Date.IsZero() {
		m.Date = msg.InternalDate
	}
	return m, nil
}

// ParseReader parses a raw RFC 5322 message. The HTML body falls back to the
// escaped plain text body; attachments are fully read into memory.
func ParseReader(r io.Reader) (*models.Message, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = mr.Close() }()

	m := &models.Message{}
	header := mr.Header

	m.From = extractEmailAddress(header.Get("From"))

	decodedSubject, err := DecodeHeader(header.Get("Subject"))
	if err != nil {
		return nil, err
	}
	m.Subject = decodedSubject

	if date, err := header.Date(); err == nil {
		m.Date = date
	}

	var htmlBody, textBody string
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}

		switch h := p.Header.(type) {
		case *mail.InlineHeader:
			contentType, params, err := h.ContentType()
			if err != nil {
				continue
			}
			switch {
			case contentType == "text/html" && htmlBody == "":
				body, err := io.ReadAll(p.Body)
				if err != nil {
					continue
				}
				htmlBody = string(body)
			case contentType == "text/plain" && textBody == "":
				body, err := io.ReadAll(p.Body)
				if err != nil {
					continue
				}
				textBody = string(body)
			case !strings.HasPrefix(contentType, "text/") && params["name"] != "":
				data, err := io.ReadAll(p.Body)
				if err != nil {
					return nil, err
				}
				name, _ := DecodeHeader(params["name"])
				m.Attachments = append(m.Attachments, models.Attachment{Name: name, ContentType: contentType, Data: data})
			}
		case *mail.AttachmentHeader:
			contentType, _, err := h.ContentType()
			if err != nil {
				contentType = "application/octet-stream"
			}
			name, err := h.Filename()
			if err != nil || name == "" {
				name = "attachment"
			}
			data, err := io.ReadAll(p.Body)
			if err != nil {
				return nil, err
			}
			m.Attachments = append(m.Attachments, models.Attachment{Name: name, ContentType: contentType, Data: data})
		}
	}

	m.HTMLBody = htmlBody
	if m.HTMLBody == "" && textBody != "" {
		m.HTMLBody = PlainToHTML(textBody)
	}
	return m, nil
}

// PlainToHTML wraps a plain text body so it can be rendered as a document
func PlainToHTML(text string) string {
	return `<html><head><meta charset="utf-8"></head><body><pre style="white-space: pre-wrap">` +
		html.EscapeString(text) + `</pre></body></html>`
}

// HasPDF reports whether any attachment of the message is a PDF, by content type or file name
func HasPDF(m *models.Message) bool {
	for _, a := range m.Attachments {
		if a.ContentType == "application/pdf" || strings.HasSuffix(strings.ToLower(a.Name), ".pdf") {
			return true
		}
	}
	return false
}

// ReceivedTime converts a millisecond epoch timestamp (as used by Gmail) to a time
func ReceivedTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// Simple regex to extract email address from "From" header, which may contain name and email
func extractEmailAddress(fromHeader string) string {
	re := regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	return re.FindString(fromHeader)
}

// DecodeHeader decodes MIME-encoded headers (e.g., "=?UTF-8?B?...?=") to plain text
func DecodeHeader(encoded string) (string, error) {
	decoder := &mime.WordDecoder{CharsetReader: charset.Reader}
	decoded, err := decoder.DecodeHeader(encoded)
	if err != nil {
		return "", err
	}
	return decoded, nil
}
