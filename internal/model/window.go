package model

import "time"

// cutoffHour is the local-time boundary for partial runs. A morning full run
// is assumed to have covered everything received before this hour, so a
// partial run only picks up messages from this hour onward.
const cutoffHour = 9

// RunWindow selects which messages a run includes: everything received in
// the last Days days, or, in partial mode, only today's messages received at
// or after the cutoff.
type RunWindow struct {
	Days    int
	Partial bool
}

// Validate rejects non-positive day counts and partial runs spanning more
// than one day.
func (w RunWindow) Validate() error {
	if w.Days < 1 {
		return &ConfigurationError{Field: "days", Message: "must be at least 1"}
	}
	if w.Partial && w.Days != 1 {
		return &ConfigurationError{Field: "partial", Message: "--partial can only be used with --days 1"}
	}
	return nil
}

// Since returns the lower bound handed to the mailbox search. IMAP SINCE
// compares internal dates, not times, so the bound is date-granular.
func (w RunWindow) Since(now time.Time) time.Time {
	return now.AddDate(0, 0, -w.Days)
}

// Cutoff returns the partial-run boundary: 09:00 on now's date, in now's
// location.
func (w RunWindow) Cutoff(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), cutoffHour, 0, 0, 0, now.Location())
}
