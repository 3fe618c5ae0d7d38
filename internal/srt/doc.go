// Package srt models SubRip caption documents.
//
// It converts between SubRip timecodes (HH:MM:SS,mmm) and millisecond offsets,
// tokenizes raw documents into caption blocks, and serializes blocks back into
// the blank-line separated text form. Parsing failures are reported through the
// ErrMalformedTimecode and ErrMalformedDocument sentinels, wrapped in a
// *ParseError that records the offending source line.
package srt
