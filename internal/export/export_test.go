package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"subfit/internal/srt"
)

func sampleDoc() srt.Document {
	return srt.Document{Blocks: []srt.Block{
		{Index: 1, Range: srt.Range{Start: 1000, End: 2500}, Text: "Hello world,"},
		{Index: 2, Range: srt.Range{Start: 2500, End: 3661001}, Text: "this is a test"},
	}}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatSRT, false},
		{"SRT", FormatSRT, false},
		{"vtt", FormatWebVTT, false},
		{" WebVTT ", FormatWebVTT, false},
		{"ass", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownFormat) {
				t.Fatalf("ParseFormat(%q): expected ErrUnknownFormat, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestFormatForPath(t *testing.T) {
	if FormatForPath("/a/b.VTT") != FormatWebVTT || FormatForPath("b.srt") != FormatSRT || FormatForPath("-") != FormatSRT {
		t.Fatal("unexpected format inference")
	}
	if FormatWebVTT.Extension() != ".vtt" || FormatSRT.Extension() != ".srt" {
		t.Fatal("unexpected extensions")
	}
}

func TestWriteSRTMatchesSerializer(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleDoc(), FormatSRT); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.String() != sampleDoc().String() {
		t.Fatalf("unexpected srt output %q", buf.String())
	}
}

func TestWriteWebVTT(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleDoc(), FormatWebVTT); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "WEBVTT") {
		t.Fatalf("missing header: %q", out)
	}
	for _, want := range []string{
		"00:00:01.000 --> 00:00:02.500",
		"Hello world,",
		"01:01:01.001",
		"this is a test",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestWriteWebVTTEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWebVTT(&buf, srt.Document{}); err != nil {
		t.Fatalf("WriteWebVTT: %v", err)
	}
	if buf.String() != "WEBVTT\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestReadWebVTTRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWebVTT(&buf, sampleDoc()); err != nil {
		t.Fatalf("WriteWebVTT: %v", err)
	}
	doc, err := ReadWebVTT(&buf)
	if err != nil {
		t.Fatalf("ReadWebVTT: %v", err)
	}
	if doc.Len() != 2 {
		t.Fatalf("expected 2 blocks, got %d", doc.Len())
	}
	first := doc.Blocks[0]
	if first.Index != 1 || first.Range.Start != 1000 || first.Range.End != 2500 || first.Text != "Hello world," {
		t.Fatalf("unexpected first block %#v", first)
	}
	if doc.Blocks[1].Range.End != 3661001 {
		t.Fatalf("unexpected end %d", doc.Blocks[1].Range.End)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, sampleDoc(), Format("ass")); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}
