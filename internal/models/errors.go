package models

import (
	"errors"
	"fmt"
)

// ErrRenderTimeout marks a headless-browser print step that exceeded its
// deadline. Handlers surface it as a request-timeout so the caller can retry
// without the remote-map strategy.
var ErrRenderTimeout = errors.New("pdf render timed out")

// NotFoundError reports a country or state with no matching source file and
// no match in the combined fallback corpus.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no location data found for %q", e.Name)
}

// MalformedSourceError reports a source file that exists but cannot be parsed
// or is missing required fields. The exporter never substitutes fabricated
// data for a malformed file.
type MalformedSourceError struct {
	File string
	Err  error
}

func (e *MalformedSourceError) Error() string {
	return fmt.Sprintf("malformed source file %s: %v", e.File, e.Err)
}

func (e *MalformedSourceError) Unwrap() error {
	return e.Err
}
