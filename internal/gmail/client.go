package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"mail-pdf-archiver/internal/logging"
	"mail-pdf-archiver/internal/mailparse"
	"mail-pdf-archiver/internal/models"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const user = "me"

// Client searches a Gmail mailbox through the Gmail API
type Client struct {
	srv *gmail.Service
}

// NewClient creates a Gmail client using an authorized HTTP client
func NewClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	srv, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	return &Client{srv: srv}, nil
}

// Search lists the threads matching the raw Gmail query and loads every message of each thread
func (c *Client) Search(ctx context.Context, q models.SearchQuery) ([]models.Thread, error) {
	var ids []string
	err := c.srv.Users.Threads.List(user).
		Q(q.Raw).
		Pages(ctx, func(resp *gmail.ListThreadsResponse) error {
			for _, th := range resp.Threads {
				ids = append(ids, th.Id)
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("error searching %q: %w", q.Raw, err)
	}

	logging.Log.Debugf("Gmail query %q matched %d threads", q.Raw, len(ids))

	threads := make([]models.Thread, 0, len(ids))
	for _, id := range ids {
		th, err := c.srv.Users.Threads.Get(user, id).Format("full").Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve thread %s: %w", id, err)
		}

		thread := models.Thread{ID: th.Id}
		for _, msg := range th.Messages {
			m, err := c.parseMessage(msg)
			if err != nil {
				return nil, err
			}
			thread.Messages = append(thread.Messages, *m)
		}
		threads = append(threads, thread)
	}

	return threads, nil
}

func (c *Client) parseMessage(msg *gmail.Message) (*models.Message, error) {
	m := &models.Message{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		Date:     mailparse.ReceivedTime(msg.InternalDate),
	}
	if msg.Payload == nil {
		return m, nil
	}

	for _, header := range msg.Payload.Headers {
		switch header.Name {
		case "Subject":
			m.Subject = header.Value
		case "From":
			m.From = header.Value
		}
	}

	htmlBody, err := findBody(msg.Payload, "text/html")
	if err != nil {
		return nil, fmt.Errorf("error decoding body of message %s: %w", msg.Id, err)
	}
	if htmlBody == "" {
		text, err := findBody(msg.Payload, "text/plain")
		if err != nil {
			return nil, fmt.Errorf("error decoding body of message %s: %w", msg.Id, err)
		}
		if text != "" {
			htmlBody = mailparse.PlainToHTML(text)
		}
	}
	m.HTMLBody = htmlBody

	c.collectAttachments(msg.Id, msg.Payload, &m.Attachments)
	return m, nil
}

// findBody returns the first non-attachment part of the given MIME type, depth first
func findBody(part *gmail.MessagePart, mimeType string) (string, error) {
	if part.Filename == "" && strings.EqualFold(part.MimeType, mimeType) && part.Body != nil && part.Body.Data != "" {
		data, err := decode(part.Body.Data)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	for _, p := range part.Parts {
		body, err := findBody(p, mimeType)
		if err != nil || body != "" {
			return body, err
		}
	}
	return "", nil
}

func (c *Client) collectAttachments(messageID string, part *gmail.MessagePart, out *[]models.Attachment) {
	if part.Filename != "" && part.Body != nil {
		switch {
		case part.Body.AttachmentId != "":
			attachmentID := part.Body.AttachmentId
			*out = append(*out, models.NewLazyAttachment(part.Filename, part.MimeType, func(ctx context.Context) ([]byte, error) {
				return c.attachment(ctx, messageID, attachmentID)
			}))
		default:
			data, err := decode(part.Body.Data)
			if err != nil {
				*out = append(*out, models.NewLazyAttachment(part.Filename, part.MimeType, func(context.Context) ([]byte, error) {
					return nil, fmt.Errorf("error decoding inline attachment %s: %w", part.Filename, err)
				}))
			} else {
				*out = append(*out, models.Attachment{Name: part.Filename, ContentType: part.MimeType, Data: data})
			}
		}
	}
	for _, p := range part.Parts {
		c.collectAttachments(messageID, p, out)
	}
}

func (c *Client) attachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	body, err := c.srv.Users.Messages.Attachments.Get(user, messageID, attachmentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to download attachment of message %s: %w", messageID, err)
	}
	return decode(body.Data)
}

// decode converts Gmail's URL-safe base64, with or without padding
func decode(data string) ([]byte, error) {
	if strings.HasSuffix(data, "=") {
		return base64.URLEncoding.DecodeString(data)
	}
	return base64.RawURLEncoding.DecodeString(data)
}
