package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Kind selects the artifact file type.
type Kind int

const (
	// KindRaw is the plain-text concatenation of a run's selected messages.
	KindRaw Kind = iota

	// KindSummary is the Markdown digest produced from the raw text.
	KindSummary
)

func (k Kind) ext() string {
	if k == KindSummary {
		return ".md"
	}
	return ".txt"
}

// Artifact is a text blob bound to the naming inputs that place it on disk.
type Artifact struct {
	// Account is the account name the artifact belongs to.
	Account string

	// Date is the run date; only its year, month, and day are used.
	Date time.Time

	// Seq is the day-window echoed into the filename, so runs over
	// different windows never collide.
	Seq int

	// Partial marks a partial run's output.
	Partial bool

	Kind Kind
	Text string
}

// WriteError indicates an artifact could not be persisted.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write error (%s): %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// IsWriteError reports whether err (or any error in its chain) is a
// WriteError.
func IsWriteError(err error) bool {
	var writeErr *WriteError
	return errors.As(err, &writeErr)
}

// Path computes an artifact's destination. It is a pure function of its
// inputs: <dir>/<YYYY-MM-DD>_<seq>_<account>[_partial].<ext>.
func Path(dir, account string, date time.Time, seq int, partial bool, kind Kind) string {
	base := fmt.Sprintf("%s_%d_%s", date.Format("2006-01-02"), seq, account)
	if partial {
		base += "_partial"
	}
	return filepath.Join(dir, base+kind.ext())
}

// Writer persists artifacts under a fixed output directory.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir. The directory is created on
// first write.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Write persists the artifact and returns its path. The file appears fully
// written or not at all: content goes to a temp file in the same directory
// first and is renamed into place. Rerunning a full-mode invocation the same
// day overwrites the earlier file; partial filenames never collide with full
// ones.
func (w *Writer) Write(a Artifact) (string, error) {
	dest := Path(w.dir, a.Account, a.Date, a.Seq, a.Partial, a.Kind)

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", &WriteError{Path: w.dir, Err: err}
	}

	tmp := filepath.Join(
		w.dir,
		fmt.Sprintf(".%s.%s.tmp", filepath.Base(dest), uuid.New().String()),
	)
	if err := os.WriteFile(tmp, []byte(a.Text), 0o644); err != nil {
		return "", &WriteError{Path: dest, Err: err}
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return "", &WriteError{Path: dest, Err: err}
	}

	return dest, nil
}

// PriorFullRawExists reports whether a full-mode raw artifact for the given
// account and day is already on disk. Partial runs use it to decide whether
// their output extends a morning digest or stands alone.
func (w *Writer) PriorFullRawExists(account string, date time.Time, seq int) bool {
	_, err := os.Stat(Path(w.dir, account, date, seq, false, KindRaw))
	return err == nil
}
