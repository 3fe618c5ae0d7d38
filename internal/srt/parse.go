package srt

import (
	"fmt"
	"strings"
)

const (
	timingSeparator = "-->"
	utf8BOM         = "\ufeff"
)

type pendingBlock struct {
	rng     Range
	line    int
	payload []string
}

// Parse tokenizes a SubRip document into caption blocks.
//
// A header is a line holding only a decimal index followed by a timing line
// containing "-->", and is only recognized at the start of the document or
// after a blank line; elsewhere those lines are caption text. Lines between
// two headers form the payload of the first one, trimmed of leading and
// trailing blank lines. Blocks whose payload is
// empty are dropped. Source indices are discarded and blocks are numbered in
// parse order. A blank document yields an empty Document.
func Parse(text string) (Document, error) {
	lines := splitLines(text)

	var (
		blocks  []Block
		current *pendingBlock
	)
	flush := func() {
		if current == nil {
			return
		}
		if payload := trimBlankLines(current.payload); len(payload) > 0 {
			blocks = append(blocks, Block{
				Index: len(blocks) + 1,
				Range: current.rng,
				Text:  strings.Join(payload, "\n"),
				Line:  current.line,
			})
		}
		current = nil
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if startsBlock(lines, i, current == nil) {
			flush()
			rng, err := parseTimingLine(lines[i+1], i+2)
			if err != nil {
				return Document{}, err
			}
			current = &pendingBlock{rng: rng, line: i + 1}
			i++
			continue
		}
		if current == nil {
			if strings.TrimSpace(line) != "" {
				return Document{}, &ParseError{
					Line: i + 1,
					Err:  fmt.Errorf("%w: text %q outside of a caption block", ErrMalformedDocument, truncate(line, 40)),
				}
			}
			continue
		}
		current.payload = append(current.payload, line)
	}
	flush()

	return Document{Blocks: blocks}, nil
}

func parseTimingLine(line string, lineNo int) (Range, error) {
	parts := strings.Split(line, timingSeparator)
	if len(parts) != 2 {
		return Range{}, &ParseError{
			Line: lineNo,
			Err:  fmt.Errorf("%w: timing line %q must hold exactly two timecodes", ErrMalformedDocument, line),
		}
	}
	if strings.TrimSpace(parts[0]) == "" && strings.TrimSpace(parts[1]) == "" {
		return Range{}, &ParseError{
			Line: lineNo,
			Err:  fmt.Errorf("%w: timing line %q holds no timecodes", ErrMalformedDocument, line),
		}
	}
	start, err := ParseTimecode(parts[0])
	if err != nil {
		return Range{}, &ParseError{Line: lineNo, Err: err}
	}
	end, err := ParseTimecode(parts[1])
	if err != nil {
		return Range{}, &ParseError{Line: lineNo, Err: err}
	}
	return Range{Start: start, End: end}, nil
}

func splitLines(text string) []string {
	text = strings.TrimPrefix(text, utf8BOM)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// startsBlock reports whether lines[i] opens a new caption block. Inside a
// block a header must follow a blank line.
func startsBlock(lines []string, i int, outsideBlock bool) bool {
	if !isIndexLine(lines[i]) || i+1 >= len(lines) || !isTimingLine(lines[i+1]) {
		return false
	}
	return outsideBlock || strings.TrimSpace(lines[i-1]) == ""
}

func isIndexLine(line string) bool {
	return allDigits(strings.TrimSpace(line))
}

func isTimingLine(line string) bool {
	return strings.Contains(line, timingSeparator)
}

func trimBlankLines(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

func truncate(value string, limit int) string {
	runes := []rune(strings.TrimSpace(value))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit]) + "..."
}
