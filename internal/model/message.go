package model

import "time"

// Message is one fetched email. Instances are created during fetch and are
// never mutated afterwards; the pipeline only selects and renders them.
type Message struct {
	// ID is a stable identifier usable for deduplication: the Message-ID
	// header when present, otherwise "uid-<n>" within the selected mailbox.
	ID string

	// UID is the message's IMAP UID in the selected mailbox.
	UID uint32

	// From is the sender header as a mail client would display it
	// (e.g., `Mom <mom@example.com>`).
	From string

	// Address is the bare sender address, used for filter matching.
	Address string

	// Subject is the decoded subject line.
	Subject string

	// Date is the received timestamp, timezone-aware.
	Date time.Time

	// Body is the plain-text content. HTML-only messages carry a stripped
	// rendering of the HTML part instead.
	Body string
}
