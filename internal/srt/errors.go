package srt

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedTimecode marks a timecode that does not match HH:MM:SS,mmm or
	// carries an out-of-range field.
	ErrMalformedTimecode = errors.New("malformed timecode")
	// ErrMalformedDocument marks input that cannot be decomposed into
	// alternating caption headers and payloads.
	ErrMalformedDocument = errors.New("malformed document")
)

// ParseError reports a parse failure at a 1-based source line.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line <= 0 {
		return fmt.Sprintf("srt: %v", e.Err)
	}
	return fmt.Sprintf("srt: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrorKind classifies parse failures as invalid input.
func (e *ParseError) ErrorKind() string {
	return "validation"
}
