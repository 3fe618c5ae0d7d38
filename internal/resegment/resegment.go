package resegment

import (
	"errors"
	"fmt"
	"log/slog"

	"subfit/internal/logging"
	"subfit/internal/retime"
	"subfit/internal/srt"
	"subfit/internal/wrap"
)

// DefaultMaxWidth is the line width used when none is configured.
const DefaultMaxWidth = 40

// ErrInvalidMaxWidth is returned for a line width below 1.
var ErrInvalidMaxWidth = errors.New("max width must be a positive integer")

// Options configures an Engine. A zero MaxWidth selects DefaultMaxWidth and a
// blank Policy selects retime.Truncate.
type Options struct {
	MaxWidth int
	Policy   retime.Policy
	Logger   *slog.Logger
}

// Engine resegments documents with fixed options.
type Engine struct {
	maxWidth int
	policy   retime.Policy
	logger   *slog.Logger
}

// Stats summarizes a transform.
type Stats struct {
	InputBlocks   int
	OutputBlocks  int
	SkippedBlocks int
	// OverlongLines counts single words wider than the limit.
	OverlongLines int
	// TruncatedMillis is the total time dropped by integer division under the
	// truncate policy.
	TruncatedMillis int64
	// InvertedBlocks counts source captions whose end precedes their start.
	InvertedBlocks int
}

// Result carries the transformed document and its serialized form.
type Result struct {
	Document srt.Document
	Text     string
	Stats    Stats
}

// New validates opts and builds an Engine.
func New(opts Options) (*Engine, error) {
	width := opts.MaxWidth
	if width == 0 {
		width = DefaultMaxWidth
	}
	if width < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxWidth, opts.MaxWidth)
	}
	policy := opts.Policy
	if policy == "" {
		policy = retime.Truncate
	}
	if _, err := retime.ParsePolicy(string(policy)); err != nil {
		return nil, err
	}
	return &Engine{
		maxWidth: width,
		policy:   policy,
		logger:   logging.NewComponentLogger(opts.Logger, "resegment"),
	}, nil
}

// Resegment parses text, wraps every caption to maxWidth characters and
// returns the renumbered document using the truncate timing policy.
func Resegment(text string, maxWidth int) (string, error) {
	if maxWidth < 1 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidMaxWidth, maxWidth)
	}
	engine, err := New(Options{MaxWidth: maxWidth})
	if err != nil {
		return "", err
	}
	result, err := engine.Run(text)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

// MaxWidth reports the configured line width.
func (e *Engine) MaxWidth() int {
	return e.maxWidth
}

// Policy reports the configured timing policy.
func (e *Engine) Policy() retime.Policy {
	return e.policy
}

// Run parses and transforms text.
func (e *Engine) Run(text string) (Result, error) {
	doc, err := srt.Parse(text)
	if err != nil {
		return Result{}, err
	}
	out, stats := e.Transform(doc)
	result := Result{Document: out, Text: out.String(), Stats: stats}

	e.logger.Debug("document resegmented",
		logging.Int("input_blocks", stats.InputBlocks),
		logging.Int("output_blocks", stats.OutputBlocks),
		logging.Int("skipped_blocks", stats.SkippedBlocks),
		logging.Int("overlong_lines", stats.OverlongLines),
		logging.Int64("truncated_ms", stats.TruncatedMillis),
		logging.Int("max_width", e.maxWidth),
		logging.String("policy", string(e.policy)),
	)
	if stats.InvertedBlocks > 0 {
		logging.WarnWithContext(e.logger, "captions with end before start collapsed to zero duration", "inverted_caption_ranges",
			logging.Int("inverted_blocks", stats.InvertedBlocks),
			logging.String(logging.FieldErrorHint, "check the source timings"),
			logging.String(logging.FieldImpact, "affected captions flash for zero milliseconds"),
		)
	}
	return result, nil
}

// Transform resegments an already parsed document. The input is not modified.
func (e *Engine) Transform(doc srt.Document) (srt.Document, Stats) {
	stats := Stats{InputBlocks: len(doc.Blocks)}
	blocks := make([]srt.Block, 0, len(doc.Blocks))

	for _, source := range doc.Blocks {
		lines := wrap.Lines(source.Text, e.maxWidth)
		if len(lines) == 0 {
			stats.SkippedBlocks++
			continue
		}
		if source.Range.End < source.Range.Start {
			stats.InvertedBlocks++
		}
		ranges := retime.Split(source.Range, len(lines), e.policy)
		if e.policy == retime.Truncate {
			stats.TruncatedMillis += int64(retime.Remainder(source.Range, len(lines)))
		}
		for i, line := range lines {
			if wrap.Overlong(line, e.maxWidth) {
				stats.OverlongLines++
			}
			blocks = append(blocks, srt.Block{
				Index: len(blocks) + 1,
				Range: ranges[i],
				Text:  line,
			})
		}
	}

	stats.OutputBlocks = len(blocks)
	return srt.Document{Blocks: blocks}, stats
}
