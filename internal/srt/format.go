package srt

import (
	"io"
	"strconv"
	"strings"
)

// Format serializes blocks as <index>\n<start> --> <end>\n<text>\n\n, in order.
func Format(blocks []Block) string {
	var b strings.Builder
	b.Grow(len(blocks) * 64)
	for _, block := range blocks {
		writeBlock(&b, block)
	}
	return b.String()
}

// String serializes the document.
func (d Document) String() string {
	return Format(d.Blocks)
}

// WriteTo writes the serialized document to w.
func (d Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}

func writeBlock(b *strings.Builder, block Block) {
	b.WriteString(strconv.Itoa(block.Index))
	b.WriteByte('\n')
	b.WriteString(FormatTimecode(block.Range.Start))
	b.WriteByte(' ')
	b.WriteString(timingSeparator)
	b.WriteByte(' ')
	b.WriteString(FormatTimecode(block.Range.End))
	b.WriteByte('\n')
	b.WriteString(block.Text)
	b.WriteString("\n\n")
}
