package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subfit/internal/config"
	"subfit/internal/export"
	"subfit/internal/fileutil"
	"subfit/internal/history"
	"subfit/internal/logging"
	"subfit/internal/media"
	"subfit/internal/resegment"
	"subfit/internal/retime"
	"subfit/internal/services"
	"subfit/internal/srt"
	"subfit/internal/transcribe"
)

// engineFlags are the per-invocation overrides shared by every command that
// runs the resegmentation engine.
type engineFlags struct {
	maxWidth int
	policy   string
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.maxWidth, "max-width", "w", 0, "Maximum characters per caption line (default from config)")
	cmd.Flags().StringVar(&f.policy, "policy", "", "Timing policy: truncate or extend_last (default from config)")
}

// pipeline carries the collaborators a single command invocation needs.
type pipeline struct {
	cfg    *config.Config
	logger *slog.Logger
	engine *resegment.Engine
	run    *history.Run
}

// track runs fn as a recorded history run. The returned error is fn's; a
// failure to record is logged and otherwise ignored.
func (c *commandContext) track(cmd *cobra.Command, command string, flags *engineFlags, fn func(context.Context, *pipeline) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}

	run := &history.Run{
		ID:        history.NewRunID(),
		Command:   command,
		MaxWidth:  cfg.Resegment.MaxWidth,
		Policy:    cfg.Resegment.TimingPolicy,
		StartedAt: time.Now(),
	}
	ctx := services.WithRunID(cmd.Context(), run.ID)
	ctx = services.WithCommand(ctx, command)
	logger = logging.WithContext(ctx, logger)

	p := &pipeline{cfg: cfg, logger: logger, run: run}
	err = p.prepareEngine(flags)
	if err == nil {
		err = fn(ctx, p)
	}

	run.FinishedAt = time.Now()
	if err != nil {
		run.Status = history.StatusFailed
		run.ErrorKind = services.Kind(err)
		run.ErrorMessage = err.Error()
		logging.ErrorWithContext(logger, "command failed", "command_failed",
			logging.String("error_kind", run.ErrorKind),
			logging.Error(err),
		)
	} else {
		run.Status = history.StatusSucceeded
	}
	c.recordRun(context.WithoutCancel(ctx), cfg, logger, *run)
	return err
}

func (c *commandContext) recordRun(ctx context.Context, cfg *config.Config, logger *slog.Logger, run history.Run) {
	if !cfg.History.Enabled {
		return
	}
	store, err := history.Open(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run will not appear in subfit history"),
		)
		return
	}
	defer store.Close()

	if _, err := store.Record(ctx, run); err != nil {
		logging.WarnWithContext(logger, "failed to record run", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run will not appear in subfit history"),
		)
		return
	}
	if pruned, err := store.Prune(ctx, cfg.History.KeepRuns); err != nil {
		logger.Debug("history prune failed", logging.Error(err))
	} else if pruned > 0 {
		logger.Debug("history pruned", logging.Int64("removed", pruned))
	}
}

func (p *pipeline) prepareEngine(flags *engineFlags) error {
	width := p.cfg.Resegment.MaxWidth
	policy := p.cfg.Resegment.TimingPolicy
	if flags != nil {
		if flags.maxWidth != 0 {
			width = flags.maxWidth
		}
		if strings.TrimSpace(flags.policy) != "" {
			policy = flags.policy
		}
	}
	parsed, err := retime.ParsePolicy(policy)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "resegment", "policy", "", err)
	}
	if width < 1 {
		return services.Wrap(services.ErrConfiguration, "resegment", "max width", "",
			fmt.Errorf("%w: got %d", resegment.ErrInvalidMaxWidth, width))
	}
	engine, err := resegment.New(resegment.Options{MaxWidth: width, Policy: parsed, Logger: p.logger})
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "resegment", "engine", "", err)
	}
	p.engine = engine
	p.run.MaxWidth = engine.MaxWidth()
	p.run.Policy = string(engine.Policy())
	return nil
}

// resegment transforms an SRT text and records block counts on the run.
func (p *pipeline) resegment(ctx context.Context, text, source string) (resegment.Result, error) {
	result, err := p.engine.Run(text)
	if err != nil {
		return resegment.Result{}, services.Wrap(services.ErrValidation, "resegment", "parse", source, err)
	}
	p.observe(ctx, result.Stats)
	return result, nil
}

// resegmentDocument transforms an already parsed document, for example one
// read from WebVTT.
func (p *pipeline) resegmentDocument(ctx context.Context, doc srt.Document) resegment.Result {
	out, stats := p.engine.Transform(doc)
	p.observe(ctx, stats)
	return resegment.Result{Document: out, Text: out.String(), Stats: stats}
}

func (p *pipeline) observe(ctx context.Context, stats resegment.Stats) {
	p.run.InputBlocks = stats.InputBlocks
	p.run.OutputBlocks = stats.OutputBlocks
	p.run.SkippedBlocks = stats.SkippedBlocks
	logger := logging.WithContext(services.WithStage(ctx, "resegment"), p.logger)
	logger.Info("captions resegmented",
		logging.String(logging.FieldEventType, "captions_resegmented"),
		logging.Int("input_blocks", stats.InputBlocks),
		logging.Int("output_blocks", stats.OutputBlocks),
		logging.Int("max_width", p.engine.MaxWidth()),
	)
	if stats.OverlongLines > 0 {
		logging.WarnWithContext(logger, "words wider than the line limit were kept whole", "overlong_lines",
			logging.Int("overlong_lines", stats.OverlongLines),
			logging.String(logging.FieldErrorHint, "raise max_width if these lines are too long to read"),
		)
	}
}

// writeDocument writes doc to path under the state directory's lock.
func (p *pipeline) writeDocument(ctx context.Context, path string, doc srt.Document, format export.Format) error {
	var buf bytes.Buffer
	if err := export.Write(&buf, doc, format); err != nil {
		return services.Wrap(services.ErrValidation, "write", "encode", string(format), err)
	}
	writer := fileutil.Writer{LockDir: p.cfg.LockDir()}
	if err := writer.WriteFile(ctx, path, buf.Bytes(), 0o644); err != nil {
		return services.Wrap(services.ErrExternalTool, "write", "output", path, err)
	}
	p.run.OutputPath = path
	return nil
}

// transcribe extracts the audio of mediaPath into the work directory, sends it
// to the transcription service and resegments the returned captions.
func (p *pipeline) transcribe(ctx context.Context, mediaPath string, tool *media.Tool, client *transcribe.Client) (resegment.Result, error) {
	audio := filepath.Join(p.cfg.Paths.WorkDir, p.run.ID+audioExtension(p.cfg.Media.AudioCodec))
	defer os.Remove(audio)

	if err := tool.ExtractAudio(services.WithStage(ctx, "extract"), mediaPath, audio); err != nil {
		return resegment.Result{}, err
	}
	text, err := client.Transcribe(services.WithStage(ctx, "transcribe"), audio)
	if err != nil {
		return resegment.Result{}, err
	}
	return p.resegment(ctx, text, "transcription of "+filepath.Base(mediaPath))
}

func (p *pipeline) mediaTool() *media.Tool {
	return media.NewTool(p.cfg, p.logger)
}

func (p *pipeline) transcriber() *transcribe.Client {
	return transcribe.NewClient(transcribe.ConfigFrom(p.cfg), transcribe.WithLogger(p.logger))
}

func audioExtension(codec string) string {
	switch strings.ToLower(strings.TrimSpace(codec)) {
	case "", "mp3", "libmp3lame":
		return ".mp3"
	case "aac":
		return ".m4a"
	case "opus", "libopus", "vorbis", "libvorbis":
		return ".ogg"
	case "pcm_s16le":
		return ".wav"
	default:
		return "." + strings.ToLower(strings.TrimSpace(codec))
	}
}

func resolvePath(value string) (string, error) {
	path, err := config.ExpandPath(strings.TrimSpace(value))
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "", "resolve path", value, err)
	}
	return path, nil
}
