package srt

import (
	"bytes"
	"testing"
)

func TestFormatBlocks(t *testing.T) {
	blocks := []Block{
		{Index: 1, Range: Range{Start: 0, End: 666}, Text: "Hello world"},
		{Index: 2, Range: Range{Start: 666, End: 1332}, Text: "again"},
	}
	want := "1\n00:00:00,000 --> 00:00:00,666\nHello world\n\n2\n00:00:00,666 --> 00:00:01,332\nagain\n\n"
	if got := Format(blocks); got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}

func TestFormatEmpty(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Fatalf("Format(nil) = %q, want empty", got)
	}
}

func TestDocumentWriteToMatchesParseInput(t *testing.T) {
	doc, err := Parse(sampleDocument)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	var buf bytes.Buffer
	n, err := doc.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo returned error: %v", err)
	}
	if int(n) != buf.Len() {
		t.Fatalf("WriteTo reported %d bytes, wrote %d", n, buf.Len())
	}
	if buf.String() != sampleDocument {
		t.Fatalf("serialized document mismatch:\n got %q\nwant %q", buf.String(), sampleDocument)
	}
}
