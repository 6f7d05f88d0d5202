package walker

import (
	"io"
	"log"
	"sync"
)

// ErrorReporter receives per-file failures. Implementations must be safe for
// concurrent use and must not panic.
type ErrorReporter interface {
	Report(relPath string, err error)
}

// LogReporter writes one warning line per skipped file.
// log.Logger serializes writes, so concurrent reports never interleave.
type LogReporter struct {
	logger *log.Logger
}

// NewLogReporter creates a reporter writing to w.
func NewLogReporter(w io.Writer) *LogReporter {
	return &LogReporter{logger: log.New(w, "", log.LstdFlags)}
}

func (r *LogReporter) Report(relPath string, err error) {
	r.logger.Printf("Warning: skipping %s: %v", relPath, err)
}

// ReportedError is a single entry captured by CollectingReporter.
type ReportedError struct {
	Path string
	Err  error
}

// CollectingReporter records reported errors in memory.
type CollectingReporter struct {
	mu      sync.Mutex
	entries []ReportedError
}

func (r *CollectingReporter) Report(relPath string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, ReportedError{Path: relPath, Err: err})
}

// Entries returns a copy of the reported errors.
func (r *CollectingReporter) Entries() []ReportedError {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ReportedError, len(r.entries))
	copy(out, r.entries)
	return out
}
