package srt

// Range is a caption display interval in milliseconds.
type Range struct {
	Start Timecode
	End   Timecode
}

// Duration returns End-Start, or zero when the range is inverted.
func (r Range) Duration() Timecode {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// Block is a single caption. Index is 1-based; Line is the source line of the
// block header when the block came from Parse and zero otherwise.
type Block struct {
	Index int
	Range Range
	Text  string
	Line  int
}

// Document is an ordered sequence of caption blocks.
type Document struct {
	Blocks []Block
}

// Len reports the number of blocks in the document.
func (d Document) Len() int {
	return len(d.Blocks)
}
