package export

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/asticode/go-astisub"

	"subfit/internal/srt"
)

// Format names an on-disk caption format.
type Format string

const (
	FormatSRT    Format = "srt"
	FormatWebVTT Format = "vtt"
)

// ErrUnknownFormat is returned for format names other than srt and vtt.
var ErrUnknownFormat = errors.New("export: unknown caption format")

// ParseFormat accepts "srt", "vtt" or "webvtt" in any case. Blank means SRT.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "srt", "subrip":
		return FormatSRT, nil
	case "vtt", "webvtt":
		return FormatWebVTT, nil
	default:
		return "", fmt.Errorf("%w %q (want srt or vtt)", ErrUnknownFormat, value)
	}
}

// FormatForPath infers the format from a file extension, defaulting to SRT.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".vtt") {
		return FormatWebVTT
	}
	return FormatSRT
}

// Extension returns the file extension, including the dot, for f.
func (f Format) Extension() string {
	if f == FormatWebVTT {
		return ".vtt"
	}
	return ".srt"
}

// Write serializes doc to w in the requested format.
func Write(w io.Writer, doc srt.Document, format Format) error {
	switch format {
	case FormatSRT, "":
		_, err := doc.WriteTo(w)
		return err
	case FormatWebVTT:
		return WriteWebVTT(w, doc)
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// WriteWebVTT renders doc as a WebVTT file. Each caption line becomes a cue
// line; an empty document produces just the header.
func WriteWebVTT(w io.Writer, doc srt.Document) error {
	if doc.Len() == 0 {
		_, err := io.WriteString(w, "WEBVTT\n")
		return err
	}
	subs := astisub.NewSubtitles()
	for _, block := range doc.Blocks {
		item := &astisub.Item{
			Index:   block.Index,
			StartAt: toDuration(block.Range.Start),
			EndAt:   toDuration(block.Range.End),
		}
		for _, line := range strings.Split(block.Text, "\n") {
			item.Lines = append(item.Lines, astisub.Line{Items: []astisub.LineItem{{Text: line}}})
		}
		subs.Items = append(subs.Items, item)
	}
	if err := subs.WriteToWebVTT(w); err != nil {
		return fmt.Errorf("write webvtt: %w", err)
	}
	return nil
}

// ReadWebVTT parses a WebVTT document into caption blocks numbered from 1.
// Styling is discarded and cues without text are dropped.
func ReadWebVTT(r io.Reader) (srt.Document, error) {
	subs, err := astisub.ReadFromWebVTT(r)
	if err != nil {
		return srt.Document{}, fmt.Errorf("read webvtt: %w", err)
	}
	doc := srt.Document{Blocks: make([]srt.Block, 0, len(subs.Items))}
	for _, item := range subs.Items {
		lines := make([]string, 0, len(item.Lines))
		for _, line := range item.Lines {
			parts := make([]string, 0, len(line.Items))
			for _, li := range line.Items {
				if text := strings.TrimSpace(li.Text); text != "" {
					parts = append(parts, text)
				}
			}
			if len(parts) > 0 {
				lines = append(lines, strings.Join(parts, " "))
			}
		}
		if len(lines) == 0 {
			continue
		}
		doc.Blocks = append(doc.Blocks, srt.Block{
			Index: len(doc.Blocks) + 1,
			Range: srt.Range{Start: fromDuration(item.StartAt), End: fromDuration(item.EndAt)},
			Text:  strings.Join(lines, "\n"),
		})
	}
	return doc, nil
}

func toDuration(tc srt.Timecode) time.Duration {
	return time.Duration(tc) * time.Millisecond
}

func fromDuration(d time.Duration) srt.Timecode {
	if d < 0 {
		return 0
	}
	return srt.Timecode(d / time.Millisecond)
}
