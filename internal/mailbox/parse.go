package mailbox

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	// Register charset decoders so non-UTF-8 messages parse.
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/jameskyle/email-summarizer/internal/model"
)

// messageFromBuffer maps a fetched message buffer onto a model.Message.
func messageFromBuffer(
	buf *imapclient.FetchMessageBuffer,
	section *imap.FetchItemBodySection,
) model.Message {
	msg := model.Message{
		UID: uint32(buf.UID),
	}

	if buf.Envelope != nil {
		msg.ID = buf.Envelope.MessageID
		msg.Subject = buf.Envelope.Subject
		msg.Date = buf.Envelope.Date

		if len(buf.Envelope.From) > 0 {
			from := buf.Envelope.From[0]
			msg.Address = from.Addr()
			msg.From = formatSender(from.Name, from.Addr())
		}
	}

	if msg.ID == "" {
		msg.ID = fmt.Sprintf("uid-%d", buf.UID)
	}

	if raw := buf.FindBodySection(section); raw != nil {
		msg.Body = extractBody(raw)
	}

	return msg
}

// formatSender renders a sender header the way mail clients display it.
func formatSender(name, addr string) string {
	if name == "" {
		return addr
	}
	return fmt.Sprintf("%s <%s>", name, addr)
}

// extractBody parses a raw RFC 2822 message and returns its plain-text
// content: the first text/plain part when present, a stripped rendering of
// the text/html part otherwise.
func extractBody(raw []byte) string {
	textBody, htmlBody := parseMIMEBody(raw)
	if textBody != "" {
		return textBody
	}
	return stripHTML(htmlBody)
}

// parseMIMEBody parses a raw RFC 2822 message using go-message and extracts
// the first text/plain and text/html inline parts. Attachments are skipped;
// only inline content feeds the digest.
func parseMIMEBody(raw []byte) (textBody string, htmlBody string) {
	reader := bytes.NewReader(raw)

	mr, err := mail.CreateReader(reader)
	if err != nil {
		// If parsing fails, treat the whole thing as plain text.
		return string(raw), ""
	}
	defer mr.Close()

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, _ := h.ContentType()
		body, readErr := io.ReadAll(part.Body)
		if readErr != nil {
			continue
		}

		switch {
		case strings.HasPrefix(contentType, "text/plain"):
			if textBody == "" {
				textBody = string(body)
			}
		case strings.HasPrefix(contentType, "text/html"):
			if htmlBody == "" {
				htmlBody = string(body)
			}
		}
	}

	return textBody, htmlBody
}

// htmlTagPattern matches HTML tags for stripping.
var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes HTML tags from a string and decodes common entities,
// providing a basic plain-text rendering.
func stripHTML(html string) string {
	if html == "" {
		return ""
	}

	result := html
	for _, tag := range []string{
		"<br>", "<br/>", "<br />", "</p>", "</div>", "</li>",
	} {
		result = strings.ReplaceAll(result, tag, "\n")
	}

	result = htmlTagPattern.ReplaceAllString(result, "")

	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
	result = replacer.Replace(result)

	for strings.Contains(result, "\n\n\n") {
		result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	}

	return strings.TrimSpace(result)
}
