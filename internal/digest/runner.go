package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jameskyle/email-summarizer/internal/artifact"
	"github.com/jameskyle/email-summarizer/internal/filter"
	"github.com/jameskyle/email-summarizer/internal/model"
	"github.com/jameskyle/email-summarizer/internal/summarize"
)

// Fetcher yields one account's messages received since the given bound.
// Implementations make a single forward pass in server-returned order;
// callers must not assume the fetch can be repeated.
type Fetcher interface {
	Fetch(ctx context.Context, since time.Time) ([]model.Message, error)
}

// Summarizer turns a run's raw record text into a Markdown digest.
type Summarizer interface {
	Summarize(ctx context.Context, rawText string, opts summarize.Options) (string, error)
}

// RunSpec carries one invocation's parameters.
type RunSpec struct {
	Account    model.Account
	Window     model.RunWindow
	FilterName string

	// Now is the run's reference time; zero means time.Now(). Tests pin it.
	Now time.Time
}

// RunResult reports what a completed run produced.
type RunResult struct {
	RawPath      string
	MarkdownPath string

	// Fetched counts messages returned by the mailbox search.
	Fetched int

	// Selected counts messages that survived filtering and, for partial
	// runs, the cutoff.
	Selected int

	Mode MergeMode
}

// Runner drives the fetch, filter, reconcile, render, summarize, persist
// sequence for one account.
type Runner struct {
	fetcher    Fetcher
	summarizer Summarizer
	writer     *artifact.Writer
	log        *zap.Logger
}

// NewRunner assembles a runner from its collaborators. A nil logger is
// replaced with a no-op one.
func NewRunner(f Fetcher, s Summarizer, w *artifact.Writer, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		fetcher:    f,
		summarizer: s,
		writer:     w,
		log:        log,
	}
}

// Run executes one invocation. The raw artifact is written before
// summarization starts, so a summarizer failure still leaves the fetched
// evidence on disk; the Markdown artifact is only written after the service
// returns a usable digest.
func (r *Runner) Run(ctx context.Context, spec RunSpec) (*RunResult, error) {
	now := spec.Now
	if now.IsZero() {
		now = time.Now()
	}

	if err := spec.Window.Validate(); err != nil {
		return nil, err
	}

	account := spec.Account
	log := r.log.With(
		zap.String("run_id", uuid.New().String()),
		zap.String("account", account.Name),
	)

	since := spec.Window.Since(now)
	log.Info("fetching messages",
		zap.Time("since", since),
		zap.Int("days", spec.Window.Days),
		zap.Bool("partial", spec.Window.Partial),
	)

	msgs, err := r.fetcher.Fetch(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("fetching messages for %q: %w", account.Name, err)
	}
	fetched := len(msgs)

	msgs, err = filter.Apply(msgs, spec.FilterName, account.Filters)
	if err != nil {
		return nil, err
	}

	mode := MergeNone
	if spec.Window.Partial {
		cutoff := spec.Window.Cutoff(now)
		priorExists := r.writer.PriorFullRawExists(account.Name, now, spec.Window.Days)
		msgs, mode = Reconcile(msgs, cutoff, priorExists)
		log.Info("reconciled partial run",
			zap.Time("cutoff", cutoff),
			zap.String("merge_mode", mode.String()),
			zap.Int("kept", len(msgs)),
		)
	}

	raw := Render(msgs)

	rawPath, err := r.writer.Write(artifact.Artifact{
		Account: account.Name,
		Date:    now,
		Seq:     spec.Window.Days,
		Partial: spec.Window.Partial,
		Kind:    artifact.KindRaw,
		Text:    raw,
	})
	if err != nil {
		return nil, err
	}
	log.Info("wrote raw artifact",
		zap.String("path", rawPath),
		zap.Int("messages", len(msgs)),
	)

	markdown, err := r.summarizer.Summarize(ctx, raw, summarize.Options{
		Today:         now,
		CategoryHints: account.CategoryHints,
		Incremental:   mode == MergeAppend,
	})
	if err != nil {
		return nil, fmt.Errorf("summarizing messages for %q: %w", account.Name, err)
	}

	mdPath, err := r.writer.Write(artifact.Artifact{
		Account: account.Name,
		Date:    now,
		Seq:     spec.Window.Days,
		Partial: spec.Window.Partial,
		Kind:    artifact.KindSummary,
		Text:    markdown,
	})
	if err != nil {
		return nil, err
	}
	log.Info("wrote summary artifact", zap.String("path", mdPath))

	return &RunResult{
		RawPath:      rawPath,
		MarkdownPath: mdPath,
		Fetched:      fetched,
		Selected:     len(msgs),
		Mode:         mode,
	}, nil
}
