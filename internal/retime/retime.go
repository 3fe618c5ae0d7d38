// Package retime divides a caption's display interval among the lines it was
// wrapped into.
package retime

import (
	"fmt"
	"strings"

	"subfit/internal/srt"
)

// Policy selects what happens to the integer-division remainder of a split.
type Policy string

const (
	// Truncate drops the remainder: the last sub-range ends at
	// Start + n*floor((End-Start)/n), which may precede End.
	Truncate Policy = "truncate"
	// ExtendLast gives the remainder to the last sub-range so it ends at End.
	ExtendLast Policy = "extend_last"
)

// ParsePolicy maps a configuration value to a Policy. Blank selects Truncate.
func ParsePolicy(value string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(value))) {
	case "", Truncate:
		return Truncate, nil
	case ExtendLast:
		return ExtendLast, nil
	default:
		return "", fmt.Errorf("unknown timing policy %q (want %q or %q)", value, Truncate, ExtendLast)
	}
}

// Split returns n contiguous sub-ranges of r, each floor((End-Start)/n)
// milliseconds long. n <= 0 yields nil. An inverted range is treated as zero
// length, so every sub-range collapses to r.Start.
func Split(r srt.Range, n int, policy Policy) []srt.Range {
	if n <= 0 {
		return nil
	}
	delta := r.Duration() / srt.Timecode(n)
	out := make([]srt.Range, n)
	for i := range out {
		out[i] = srt.Range{
			Start: r.Start + srt.Timecode(i)*delta,
			End:   r.Start + srt.Timecode(i+1)*delta,
		}
	}
	if policy == ExtendLast && r.End > out[n-1].End {
		out[n-1].End = r.End
	}
	return out
}

// Remainder reports how many milliseconds Truncate leaves uncovered at the end
// of r when split n ways.
func Remainder(r srt.Range, n int) srt.Timecode {
	if n <= 0 {
		return 0
	}
	return r.Duration() % srt.Timecode(n)
}
