package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subfit/internal/history"
	"subfit/internal/services"
	"subfit/internal/testsupport"
)

func TestTranscribeCommand(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithMaxWidth(20))
	video := testsupport.WriteFile(t, filepath.Join(env.baseDir, "clips", "talk.mp4"), "video")

	out, err := runCLI(t, env, "", "transcribe", video)
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	target := filepath.Join(env.baseDir, "clips", "talk.srt")
	requireContains(t, out, "Wrote 3 captions to "+target)

	got := testsupport.ReadFile(t, target)
	want := "1\n00:00:00,000 --> 00:00:00,666\nHello world, this is\n\n" +
		"2\n00:00:00,666 --> 00:00:01,332\na test of subtitle\n\n" +
		"3\n00:00:01,332 --> 00:00:01,998\nwrapping.\n\n"
	if got != want {
		t.Fatalf("unexpected captions\n got: %q\nwant: %q", got, want)
	}

	calls := env.ffmpegCalls(t)
	if len(calls) != 1 || !strings.Contains(calls[0], "-vn") {
		t.Fatalf("expected one audio extraction, got %v", calls)
	}
	if env.requests.Load() != 1 {
		t.Fatalf("expected one transcription request, got %d", env.requests.Load())
	}
	entries, err := os.ReadDir(env.cfg.Paths.WorkDir)
	if err != nil {
		t.Fatalf("read work dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected extracted audio to be removed, found %d entries", len(entries))
	}

	run := env.historyRuns(t)[0]
	if run.Command != "transcribe" || run.InputPath != video || run.OutputPath != target || run.OutputBlocks != 3 {
		t.Fatalf("unexpected run %+v", run)
	}
}

func TestTranscribeRequiresAPIKey(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithAPIKey(""))
	video := testsupport.WriteFile(t, filepath.Join(env.baseDir, "talk.mp4"), "video")

	_, err := runCLI(t, env, "", "transcribe", video)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if calls := env.ffmpegCalls(t); len(calls) != 0 {
		t.Fatalf("ffmpeg should not run without an API key, got %v", calls)
	}
	if env.requests.Load() != 0 {
		t.Fatalf("expected no transcription requests, got %d", env.requests.Load())
	}
}

func TestBurnCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	video := testsupport.WriteFile(t, filepath.Join(env.baseDir, "talk.mp4"), "video")
	subs := testsupport.WriteFile(t, filepath.Join(env.baseDir, "talk.srt"), testsupport.SampleSRT)

	out, err := runCLI(t, env, "", "burn", video, subs)
	if err != nil {
		t.Fatalf("burn: %v", err)
	}
	target := filepath.Join(env.baseDir, "talk.subtitled.mp4")
	requireContains(t, out, "Wrote "+target)
	if got := testsupport.ReadFile(t, target); got != "media" {
		t.Fatalf("unexpected burned output %q", got)
	}

	calls := env.ffmpegCalls(t)
	if len(calls) != 1 || !strings.Contains(calls[0], "subtitles=") {
		t.Fatalf("expected one burn-in call, got %v", calls)
	}

	_, err = runCLI(t, env, "", "burn", video, subs, "-o", video)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error when overwriting the source, got %v", err)
	}
}

func TestRunCommand(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithMaxWidth(20))
	video := testsupport.WriteFile(t, filepath.Join(env.baseDir, "talk.mkv"), "video")
	output := filepath.Join(env.baseDir, "final", "talk-burned.mkv")

	out, err := runCLI(t, env, "", "run", video, "-o", output)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	captions := filepath.Join(env.baseDir, "talk.srt")
	requireContains(t, out, "Wrote 3 captions to "+captions)
	requireContains(t, out, "Wrote "+output)

	requireContains(t, testsupport.ReadFile(t, captions), "a test of subtitle")
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("expected burned video: %v", err)
	}

	calls := env.ffmpegCalls(t)
	if len(calls) != 2 {
		t.Fatalf("expected extract and burn calls, got %v", calls)
	}
	if !strings.Contains(calls[0], "-vn") || !strings.Contains(calls[1], "subtitles=") {
		t.Fatalf("unexpected ffmpeg call order: %v", calls)
	}

	run := env.historyRuns(t)[0]
	if run.Command != "run" || run.Status != history.StatusSucceeded || run.OutputPath != output {
		t.Fatalf("unexpected run %+v", run)
	}
}

func TestRunCommandTranscriptionFailure(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithTranscriptionURL("http://127.0.0.1:1/v1/audio/transcriptions"))
	video := testsupport.WriteFile(t, filepath.Join(env.baseDir, "talk.mkv"), "video")

	if _, err := runCLI(t, env, "", "run", video); err == nil {
		t.Fatal("expected run to fail when the endpoint is unreachable")
	}
	if _, err := os.Stat(filepath.Join(env.baseDir, "talk.subtitled.mkv")); !os.IsNotExist(err) {
		t.Fatalf("no video should be burned after a failed transcription: %v", err)
	}
	run := env.historyRuns(t)[0]
	if run.Status != history.StatusFailed || run.ErrorKind == "" {
		t.Fatalf("expected failed run with a kind, got %+v", run)
	}
}
