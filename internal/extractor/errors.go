package extractor

import (
	"errors"
	"fmt"
)

// ErrParseFailure indicates the syntax tree adapter could not parse a file.
var ErrParseFailure = errors.New("parse failure")

// ExtractionError describes why a single file could not be extracted.
// It matches ErrParseFailure with errors.Is.
type ExtractionError struct {
	Path   string
	Detail string
	Err    error // underlying adapter error, may be nil
}

func (e *ExtractionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", ErrParseFailure, e.Detail)
	}
	return fmt.Sprintf("%s in %s: %s", ErrParseFailure, e.Path, e.Detail)
}

func (e *ExtractionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParseFailure}
	}
	return []error{ErrParseFailure, e.Err}
}
