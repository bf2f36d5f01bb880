package summarize

import (
	"fmt"
	"strings"
	"time"
)

// Options adjust the digest instruction for one run.
type Options struct {
	// Today anchors the active/past split in the instruction.
	Today time.Time

	// CategoryHints are per-account categorization rules appended to the
	// numbered instruction list.
	CategoryHints []string

	// Incremental marks a partial run extending a digest produced earlier
	// the same day; the service is told to treat the input as an update.
	Incremental bool
}

// instructions builds the fixed numbered instruction list sent as the system
// prompt. The wording is deliberately stable: the digest's shape (the two
// time buckets, the category sections, Recommended Actions) comes entirely
// from here.
func instructions(opts Options) string {
	today := opts.Today.Format("2006-01-02")

	var sb strings.Builder
	sb.WriteString("#01 You are an administrative assistant whose primary task is to summarize emails\n")
	sb.WriteString("#02 You summarize emails provided in a single text from users.\n")
	sb.WriteString("#03 You never add information not in the emails\n")
	sb.WriteString("#04 You pay particular attention to items requiring action by the user such as permission slips, event deadlines, etc.\n")
	fmt.Fprintf(&sb, "#05 You separate your summary into two sections: currently active items or items with deadlines today or in the future from today's date of %s and items which occurred in the past or have deadlines in the past from today's date of %s\n", today, today)
	sb.WriteString("#06 You are concise and terse, providing the summary in as few words as possible while conveying all necessary information.\n")
	sb.WriteString("#07 You respond using Markdown formatted text.\n")
	sb.WriteString("#08 You separate the summaries into category sections: Work, Career, Personal, Financial, Promotions. You may add additional categories if it makes sense.\n")
	sb.WriteString("#09 You provide a Recommended Actions section that, in an itemized list, action items that need attention.\n")
	sb.WriteString("#10 You ensure all bills, credit card payments, credit card notices, bank notices, utilities, and similar items are included in the Financial category\n")

	next := 11
	for _, hint := range opts.CategoryHints {
		hint = strings.TrimSpace(hint)
		if hint == "" {
			continue
		}
		fmt.Fprintf(&sb, "#%02d %s\n", next, hint)
		next++
	}

	if opts.Incremental {
		fmt.Fprintf(&sb, "#%02d The emails provided arrived after a digest already produced earlier today; summarize only these new items as an incremental update to it.\n", next)
	}

	return sb.String()
}
