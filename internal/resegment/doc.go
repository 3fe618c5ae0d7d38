// Package resegment rewrites SubRip documents so every caption holds a single
// line no wider than a configured limit.
//
// Each source caption is wrapped with package wrap, its interval is divided
// across the wrapped lines with package retime, and the resulting captions are
// renumbered from 1 across the whole document. The transform is pure: it does
// no I/O, keeps no state between calls, and is safe for concurrent use.
// Parse failures abort the whole transform; partial output is never returned.
package resegment
