package models

import (
	"context"
	"time"
)

// Thread is a group of related messages returned together by a mailbox search
type Thread struct {
	ID       string
	Messages []Message
}

// Message represents a normalized parsed email message
type Message struct {
	ID          string
	ThreadID    string
	From        string
	Subject     string
	Date        time.Time
	HTMLBody    string
	Attachments []Attachment
}

// Attachment is a file attached to a message. Providers that download
// attachment bodies separately set a loader instead of Data.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte

	load func(ctx context.Context) ([]byte, error)
}

// NewLazyAttachment returns an attachment whose content is fetched on first use
func NewLazyAttachment(name, contentType string, load func(ctx context.Context) ([]byte, error)) Attachment {
	return Attachment{Name: name, ContentType: contentType, load: load}
}

// Content returns the attachment bytes, invoking the loader if needed
func (a *Attachment) Content(ctx context.Context) ([]byte, error) {
	if a.Data != nil || a.load == nil {
		return a.Data, nil
	}
	data, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	a.Data = data
	return data, nil
}
