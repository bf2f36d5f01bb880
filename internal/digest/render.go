package digest

import (
	"strings"
	"time"

	"github.com/jameskyle/email-summarizer/internal/model"
)

// emptyRender is written when a run selects no messages, so readers can tell
// an empty day from a run that never happened.
const emptyRender = "No emails processed.\n"

// Render produces the raw artifact text: one block per message in input
// order, fixed field layout, blank-line separated. Identical input yields
// byte-identical output; there is no map iteration or timestamp-of-now
// anywhere in here.
func Render(msgs []model.Message) string {
	if len(msgs) == 0 {
		return emptyRender
	}

	var sb strings.Builder
	for _, msg := range msgs {
		sb.WriteString("Sender: ")
		sb.WriteString(msg.From)
		sb.WriteString("\nSubject: ")
		sb.WriteString(msg.Subject)
		sb.WriteString("\nDate: ")
		sb.WriteString(msg.Date.Format(time.RFC3339))
		sb.WriteString("\nContent:\n")
		sb.WriteString(msg.Body)
		sb.WriteString("\n\n")
	}

	return sb.String()
}
