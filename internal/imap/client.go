package imap

import (
	"fmt"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/charset"
)

func init() {
	imap.CharsetReader = charset.Reader
}

type StandardClient struct {
	client  *client.Client
	timeout time.Duration
}

// NewStandardClient creates a new StandardClient with the given timeout for fetch operations, 30 seconds if zero
func NewStandardClient(timeout time.Duration) *StandardClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &StandardClient{
		timeout: timeout,
	}
}

// Connect establishes a secure connection to the IMAP server using TLS. It returns an error if the connection fails.
func (c *StandardClient) Connect(server string) error {
	cl, err := client.DialTLS(server, nil)
	if err != nil {
		return fmt.Errorf("IMAP connection error: %w", err)
	}
	c.client = cl
	return nil
}

// Login authenticates the user with the IMAP server using the provided username and password. It returns an error if authentication fails or if there is no active connection.
func (c *StandardClient) Login(user, password string) error {
	if c.client == nil {
		return fmt.Errorf("not connected")
	}
	return c.client.Login(user, password)
}

// SelectMailbox selects the specified mailbox (e.g., "INBOX") read-only for subsequent operations.
func (c *StandardClient) SelectMailbox(name string) error {
	if c.client == nil {
		return fmt.Errorf("not connected")
	}
	_, err := c.client.Select(name, true)
	return err
}

// SearchUIDs returns the UIDs of the messages matching the criteria
func (c *StandardClient) SearchUIDs(criteria *imap.SearchCriteria) ([]uint32, error) {
	if c.client == nil {
		return nil, fmt.Errorf("not connected")
	}

	uids, err := c.client.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("error searching messages: %w", err)
	}

	return uids, nil
}

// FetchMessage retrieves the full email message corresponding to the specified UID. It returns an error if the fetch operation fails, if there is no active connection, or if no message is retrieved for the given UID.
func (c *StandardClient) FetchMessage(uid uint32) (*imap.Message, error) {
	if c.client == nil {
		return nil, fmt.Errorf("not connected")
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uid)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchInternalDate, imap.FetchUid}

	prevTimeout := c.client.Timeout
	c.client.Timeout = c.timeout
	defer func() { c.client.Timeout = prevTimeout }()

	messages := make(chan *imap.Message, 1)
	done := make(chan error, 1)

	go func() {
		done <- c.client.UidFetch(seqSet, items, messages)
	}()

	var msg *imap.Message
	for m := range messages {
		msg = m
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("error fetching message UID %d: %w", uid, err)
	}

	if msg == nil {
		return nil, fmt.Errorf("no message retrieved for UID %d", uid)
	}

	return msg, nil
}

// Close logs out from the IMAP server and closes the connection. If there is no active connection, it simply returns nil.
func (c *StandardClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Logout()
}
