package vis

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedVersion is wrapped in a ParseError when a file carries a
	// format version this build does not understand. Versioned documents are
	// rejected cleanly instead of misparsed.
	ErrUnsupportedVersion = errors.New("unsupported format version")

	// ErrLoadInProgress is returned by [Loader.Load] when another load has
	// been issued and its file read has not completed yet. Overlapping loads
	// are rejected, never interleaved; the caller re-initiates.
	ErrLoadInProgress = errors.New("a load operation is already in progress")
)

// ParseError reports a persisted document that could not be ingested:
// malformed JSON, a bad version, a duplicate node, or an edge referencing a
// missing node. The flowsheet being loaded into is guaranteed untouched
// when a ParseError is returned.
type ParseError struct {
	Reason string
	Cause  error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse flowsheet: %s: %v", e.Reason, e.Cause)
	}
	return "parse flowsheet: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Cause }

func parseErr(reason string, cause error) *ParseError {
	return &ParseError{Reason: reason, Cause: cause}
}
