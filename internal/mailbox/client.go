package mailbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/jameskyle/email-summarizer/internal/model"
)

// ConnectionError indicates the mail server could not be reached or rejected
// the configured credentials. The account's run is aborted; whether to retry
// is the caller's call.
type ConnectionError struct {
	// Server is the host:port the client was talking to.
	Server string

	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error (%s): %v", e.Server, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// IsConnectionError reports whether err (or any error in its chain) is a
// ConnectionError.
func IsConnectionError(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}

// Client wraps go-imap v2 for one configured account.
type Client struct {
	account model.Account
}

// NewClient creates a client for the given account. The account must carry
// a resolved password; the client does not consult the keyring.
func NewClient(account model.Account) *Client {
	return &Client{account: account}
}

// connect establishes a connection to the IMAP server, authenticates, and
// returns the connected client. The caller is responsible for Logout.
func (c *Client) connect(_ context.Context) (*imapclient.Client, error) {
	addr := c.account.Server + ":" + c.account.Port

	var client *imapclient.Client
	var err error

	if c.account.StartTLS {
		client, err = imapclient.DialStartTLS(addr, nil)
	} else {
		client, err = imapclient.DialTLS(addr, nil)
	}
	if err != nil {
		return nil, &ConnectionError{Server: addr, Err: err}
	}

	if err := client.Login(c.account.Username, c.account.Password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, &ConnectionError{
			Server: addr,
			Err: fmt.Errorf(
				"authentication failed for %s: %w",
				c.account.Username, err,
			),
		}
	}

	return client, nil
}

// Fetch opens the account's folder read-only and returns the messages the
// server reports as received since the given bound, in server-returned
// order. Envelopes and bodies come back in one streaming fetch; the stream
// is consumed in a single forward pass and buffered into the result.
func (c *Client) Fetch(ctx context.Context, since time.Time) ([]model.Message, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	folder := c.account.Folder
	selectOpts := &imap.SelectOptions{ReadOnly: true}
	if _, err := client.Select(folder, selectOpts).Wait(); err != nil {
		return nil, fmt.Errorf("selecting %s: %w", folder, err)
	}

	criteria := &imap.SearchCriteria{
		Since: since,
	}

	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	uidSet := imap.UIDSetNum(uids...)

	// Peek keeps the server from marking everything \Seen.
	bodySection := &imap.FetchItemBodySection{
		Peek: true,
	}

	fetchOpts := &imap.FetchOptions{
		Envelope:    true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := client.Fetch(uidSet, fetchOpts)
	defer fetchCmd.Close()

	var msgs []model.Message
	for {
		data := fetchCmd.Next()
		if data == nil {
			break
		}

		buf, err := data.Collect()
		if err != nil {
			continue
		}

		msgs = append(msgs, messageFromBuffer(buf, bodySection))
	}

	if err := fetchCmd.Close(); err != nil {
		return msgs, fmt.Errorf("fetching messages: %w", err)
	}

	return msgs, nil
}

// Check verifies connectivity and credentials by logging in and selecting
// the configured folder. It returns the authenticated username.
func (c *Client) Check(ctx context.Context) (string, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = client.Logout().Wait() }()

	selectOpts := &imap.SelectOptions{ReadOnly: true}
	if _, err := client.Select(c.account.Folder, selectOpts).Wait(); err != nil {
		return "", fmt.Errorf("selecting %s: %w", c.account.Folder, err)
	}

	return c.account.Username, nil
}
