package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"subfit/internal/config"
	"subfit/internal/logging"
	"subfit/internal/services"
)

// CommandRunner executes an external command and returns an error carrying
// the command output when it fails.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Tool runs ffmpeg with the configured binary and audio settings.
type Tool struct {
	binary  string
	codec   string
	bitrate string
	logger  *slog.Logger
	run     CommandRunner
}

// NewTool constructs a Tool from configuration.
func NewTool(cfg *config.Config, logger *slog.Logger) *Tool {
	tool := &Tool{
		binary:  "ffmpeg",
		codec:   "mp3",
		bitrate: "192k",
		logger:  logging.NewComponentLogger(logger, "media"),
		run:     defaultCommandRunner,
	}
	if cfg != nil {
		tool.binary = cfg.FFmpegBinary()
		tool.codec = cfg.Media.AudioCodec
		tool.bitrate = cfg.Media.AudioBitrate
	}
	return tool
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (t *Tool) WithCommandRunner(r CommandRunner) {
	if t != nil && r != nil {
		t.run = r
	}
}

// Binary returns the ffmpeg executable this tool invokes.
func (t *Tool) Binary() string {
	return t.binary
}

// ExtractAudio writes the audio track of video to dest.
func (t *Tool) ExtractAudio(ctx context.Context, video, dest string) error {
	if err := requireFile(video); err != nil {
		return services.Wrap(services.ErrValidation, "extract", "stat video", "", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "extract", "create work dir", "", err)
	}
	args := t.extractArgs(video, dest)

	t.logger.Debug("executing ffmpeg audio extraction",
		logging.String("video", video),
		logging.String("dest", dest),
		logging.String("codec", t.codec),
	)
	if err := t.run(ctx, t.binary, args...); err != nil {
		_ = os.Remove(dest)
		return services.Wrap(services.ErrExternalTool, "extract", "ffmpeg", "audio extraction failed", err)
	}
	if err := requireFile(dest); err != nil {
		return services.Wrap(services.ErrExternalTool, "extract", "ffmpeg", "no audio file produced", err)
	}
	t.logger.Info("audio extracted",
		logging.String(logging.FieldEventType, "audio_extracted"),
		logging.String("dest", dest),
	)
	return nil
}

// BurnSubtitles renders subtitles into a copy of video written to dest. The
// copy is produced under a temporary name and renamed on success.
func (t *Tool) BurnSubtitles(ctx context.Context, video, subtitles, dest string) error {
	if err := requireFile(video); err != nil {
		return services.Wrap(services.ErrValidation, "burn", "stat video", "", err)
	}
	if err := requireFile(subtitles); err != nil {
		return services.Wrap(services.ErrValidation, "burn", "stat subtitles", "", err)
	}
	if same(video, dest) {
		return services.Wrap(services.ErrValidation, "burn", "", "output would overwrite the source video", nil)
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "burn", "create output dir", "", err)
	}
	ext := filepath.Ext(dest)
	tmpPath := filepath.Join(dir, "."+strings.TrimSuffix(filepath.Base(dest), ext)+".partial"+ext)
	args := t.burnArgs(video, subtitles, tmpPath)

	t.logger.Debug("executing ffmpeg subtitle burn-in",
		logging.String("video", video),
		logging.String("subtitles", subtitles),
		logging.String("dest", dest),
	)
	if err := t.run(ctx, t.binary, args...); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrExternalTool, "burn", "ffmpeg", "burn-in failed", err)
	}
	if err := requireFile(tmpPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "burn", "ffmpeg", "no output file produced", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrExternalTool, "burn", "rename", "", err)
	}
	t.logger.Info("subtitles burned into video",
		logging.String(logging.FieldEventType, "subtitles_burned"),
		logging.String("dest", dest),
	)
	return nil
}

func (t *Tool) extractArgs(video, dest string) []string {
	return []string{"-y", "-i", video, "-vn", "-acodec", t.codec, "-b:a", t.bitrate, dest}
}

func (t *Tool) burnArgs(video, subtitles, dest string) []string {
	return []string{"-y", "-i", video, "-vf", "subtitles=" + EscapeFilterPath(subtitles), dest}
}

var (
	optionEscaper = strings.NewReplacer(`\`, `\\`, `:`, `\:`, `'`, `\'`)
	graphEscaper  = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `[`, `\[`, `]`, `\]`, `,`, `\,`, `;`, `\;`)
)

// EscapeFilterPath escapes a file path for use as a filter option value inside
// an ffmpeg filtergraph. Both escaping levels ffmpeg applies are handled.
func EscapeFilterPath(path string) string {
	return graphEscaper.Replace(optionEscaper.Replace(path))
}

func requireFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}

func same(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, lastLines(string(output), 5))
	}
	return nil
}

// lastLines keeps ffmpeg's trailing diagnostics, which is where the reason for
// a failure is printed.
func lastLines(output string, n int) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
