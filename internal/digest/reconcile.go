package digest

import (
	"time"

	"github.com/jameskyle/email-summarizer/internal/model"
)

// MergeMode describes how a partial run's output relates to the day's full
// artifact.
type MergeMode int

const (
	// MergeNone marks a full (non-partial) run.
	MergeNone MergeMode = iota

	// MergeStandalone marks a partial run with no full artifact on disk:
	// the run degrades to a normal run restricted to the cutoff window.
	MergeStandalone

	// MergeAppend marks a partial run whose output is the increment to a
	// full artifact written earlier the same day.
	MergeAppend
)

func (m MergeMode) String() string {
	switch m {
	case MergeStandalone:
		return "standalone"
	case MergeAppend:
		return "append"
	default:
		return "none"
	}
}

// Reconcile narrows a partial run's messages to those received on the
// cutoff's date at or after the cutoff, in the cutoff's location, and
// reports how the result relates to the day's full artifact.
//
// Overlap with the morning run is avoided purely by the time boundary.
// Message identifiers are deliberately not compared against the prior
// artifact: that file is raw text, not a ledger, and the morning run's
// window ends where this one begins.
func Reconcile(msgs []model.Message, cutoff time.Time, priorExists bool) ([]model.Message, MergeMode) {
	var kept []model.Message
	for _, msg := range msgs {
		local := msg.Date.In(cutoff.Location())
		if !sameDate(local, cutoff) {
			continue
		}
		if local.Before(cutoff) {
			continue
		}
		kept = append(kept, msg)
	}

	mode := MergeStandalone
	if priorExists {
		mode = MergeAppend
	}

	return kept, mode
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
