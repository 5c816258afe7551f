package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mail-pdf-archiver/internal/models"

	"google.golang.org/api/option"
)

func b64(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), srv.Client(), option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return c
}

func TestSearch(t *testing.T) {
	var gotQuery string
	thread := fmt.Sprintf(`{
  "id": "t1",
  "messages": [{
    "id": "m1",
    "threadId": "t1",
    "internalDate": "1714608900000",
    "payload": {
      "mimeType": "multipart/mixed",
      "headers": [{"name": "Subject", "value": "Invoice May"}, {"name": "From", "value": "shop@example.com"}],
      "parts": [
        {"mimeType": "multipart/alternative", "parts": [
          {"mimeType": "text/plain", "body": {"size": 5, "data": %q}},
          {"mimeType": "text/html", "body": {"size": 12, "data": %q}}
        ]},
        {"mimeType": "application/pdf", "filename": "invoice.pdf", "body": {"attachmentId": "att-1", "size": 8}},
        {"mimeType": "image/png", "filename": "logo.png", "body": {"size": 3, "data": %q}}
      ]
    }
  }]
}`, b64("hello"), b64("<p>hello</p>"), b64("png"))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/threads"):
			gotQuery = r.URL.Query().Get("q")
			_, _ = io.WriteString(w, `{"threads":[{"id":"t1"}]}`)
		case strings.HasSuffix(r.URL.Path, "/threads/t1"):
			_, _ = io.WriteString(w, thread)
		case strings.HasSuffix(r.URL.Path, "/messages/m1/attachments/att-1"):
			_, _ = fmt.Fprintf(w, `{"data":%q,"size":8}`, b64("%PDF-1.4"))
		default:
			http.NotFound(w, r)
		}
	})

	q := models.SearchQuery{Raw: `subject:"Invoice" after:2024/5/1 before:2024/6/1 has:attachment filename:pdf`}
	threads, err := c.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if gotQuery != q.Raw {
		t.Errorf("Query sent = %q, want %q", gotQuery, q.Raw)
	}
	if len(threads) != 1 || len(threads[0].Messages) != 1 {
		t.Fatalf("Unexpected threads: %+v", threads)
	}

	msg := threads[0].Messages[0]
	if msg.Subject != "Invoice May" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if msg.Date.Unix() != 1714608900 {
		t.Errorf("Date = %v", msg.Date)
	}
	if msg.HTMLBody != "<p>hello</p>" {
		t.Errorf("HTMLBody = %q, want the text/html part", msg.HTMLBody)
	}
	if len(msg.Attachments) != 2 {
		t.Fatalf("Expected 2 attachments, got %d", len(msg.Attachments))
	}

	pdf := msg.Attachments[0]
	if pdf.Name != "invoice.pdf" || pdf.ContentType != "application/pdf" {
		t.Errorf("Unexpected attachment: %s %s", pdf.Name, pdf.ContentType)
	}
	data, err := pdf.Content(context.Background())
	if err != nil {
		t.Fatalf("Content() error: %v", err)
	}
	if string(data) != "%PDF-1.4" {
		t.Errorf("Content() = %q", data)
	}

	png := msg.Attachments[1]
	if string(png.Data) != "png" {
		t.Errorf("Inline attachment data = %q", png.Data)
	}
}

func TestSearch_NoThreads(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"resultSizeEstimate":0}`)
	})

	threads, err := c.Search(context.Background(), models.SearchQuery{Raw: "nothing"})
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(threads) != 0 {
		t.Errorf("Expected no threads, got %d", len(threads))
	}
}

func TestSearch_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"forbidden"}}`)
	})

	if _, err := c.Search(context.Background(), models.SearchQuery{Raw: "x"}); err == nil {
		t.Error("Expected error from API failure")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "Padded", input: base64.URLEncoding.EncodeToString([]byte("hello?>"))},
		{name: "Unpadded", input: base64.RawURLEncoding.EncodeToString([]byte("hello?>"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decode(tt.input)
			if err != nil {
				t.Fatalf("decode() error: %v", err)
			}
			if string(got) != "hello?>" {
				t.Errorf("decode() = %q", got)
			}
		})
	}
}
