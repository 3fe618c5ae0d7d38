package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"

	"subfit/internal/config"
	"subfit/internal/fileutil"
)

func TestLoadDefaultConfigUsesEnvAPIKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "subfit", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if want := filepath.Join(tempHome, ".local", "share", "subfit"); cfg.Paths.StateDir != want {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, want)
	}
	if want := filepath.Join(tempHome, ".cache", "subfit", "work"); cfg.Paths.WorkDir != want {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, want)
	}
	if cfg.Transcription.APIKey != "env-key" {
		t.Fatalf("expected API key from env, got %q", cfg.Transcription.APIKey)
	}
	if cfg.Resegment.MaxWidth != 40 || cfg.Resegment.TimingPolicy != "truncate" {
		t.Fatalf("unexpected resegment defaults: %+v", cfg.Resegment)
	}
	if cfg.HistoryPath() != filepath.Join(cfg.Paths.StateDir, "history.db") {
		t.Fatalf("unexpected history path %q", cfg.HistoryPath())
	}
	if cfg.TranscriptionTimeout().Seconds() != 300 {
		t.Fatalf("unexpected timeout %s", cfg.TranscriptionTimeout())
	}
}

func TestLoadProjectConfigWhenHomeConfigMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	t.Chdir(project)
	if err := os.WriteFile(filepath.Join(project, "subfit.toml"), []byte("[resegment]\nmax_width = 32\n"), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "subfit.toml" {
		t.Fatalf("expected project config, got %q exists=%v", resolved, exists)
	}
	if cfg.Resegment.MaxWidth != 32 {
		t.Fatalf("expected max_width 32, got %d", cfg.Resegment.MaxWidth)
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")

	custom := config.Default()
	custom.Paths.StateDir = filepath.Join(dir, "state")
	custom.Resegment.MaxWidth = 28
	custom.Resegment.TimingPolicy = "EXTEND_LAST"
	custom.Transcription.APIKey = "file-key"
	custom.Transcription.Language = "German"
	custom.Media.AudioCodec = "AAC"
	custom.Logging.Format = "JSON"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.StateDir != filepath.Join(dir, "state") {
		t.Fatalf("unexpected state dir %q", cfg.Paths.StateDir)
	}
	if cfg.Resegment.MaxWidth != 28 || cfg.Resegment.TimingPolicy != "extend_last" {
		t.Fatalf("unexpected resegment section: %+v", cfg.Resegment)
	}
	if cfg.Transcription.APIKey != "file-key" {
		t.Fatalf("expected file API key, got %q", cfg.Transcription.APIKey)
	}
	if cfg.Transcription.Language != "de" {
		t.Fatalf("expected language name mapped to ISO 639-1, got %q", cfg.Transcription.Language)
	}
	if cfg.Media.AudioCodec != "aac" || cfg.Logging.Format != "json" {
		t.Fatalf("expected lower-cased enums, got codec=%q format=%q", cfg.Media.AudioCodec, cfg.Logging.Format)
	}
}

func TestLoadMissingCustomPathUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists || resolved != path {
		t.Fatalf("unexpected resolution %q exists=%v", resolved, exists)
	}
	if cfg.Resegment.MaxWidth != 40 {
		t.Fatalf("expected default width, got %d", cfg.Resegment.MaxWidth)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[resegment]\nmax_widht = 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown key to fail")
	}
}

func TestCreateSample(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(context.Background(), path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if cfg.Resegment.MaxWidth != config.Default().Resegment.MaxWidth {
		t.Fatalf("sample width %d differs from default", cfg.Resegment.MaxWidth)
	}

	loaded, _, exists, err := config.Load(path)
	if err != nil || !exists {
		t.Fatalf("sample should load cleanly: exists=%v err=%v", exists, err)
	}
	if loaded.Media.BurnSuffix != ".subtitled" {
		t.Fatalf("unexpected burn suffix %q", loaded.Media.BurnSuffix)
	}
}

func TestCreateSampleReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0o600); err != nil {
		t.Fatalf("seed config: %v", err)
	}
	if err := config.CreateSample(context.Background(), path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("replaced sample should load: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Fatalf("temporary file left behind: %s", entry.Name())
		}
	}
}

func TestCreateSampleHonorsCancelledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	lock := flock.New(path + fileutil.LockSuffix)
	if ok, err := lock.TryLock(); err != nil || !ok {
		t.Fatalf("acquire lock: ok=%v err=%v", ok, err)
	}
	defer func() { _ = lock.Unlock() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := config.CreateSample(ctx, path)
	if !errors.Is(err, fileutil.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("expected no config written, stat err %v", statErr)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "zero width", mutate: func(c *config.Config) { c.Resegment.MaxWidth = 0 }, wantErr: "resegment.max_width"},
		{name: "unknown policy", mutate: func(c *config.Config) { c.Resegment.TimingPolicy = "stretch" }, wantErr: "resegment.timing_policy"},
		{name: "relative base url", mutate: func(c *config.Config) { c.Transcription.BaseURL = "/v1/audio" }, wantErr: "transcription.base_url"},
		{name: "ftp base url", mutate: func(c *config.Config) { c.Transcription.BaseURL = "ftp://example.com/x" }, wantErr: "http or https"},
		{name: "unknown language", mutate: func(c *config.Config) { c.Transcription.Language = "klingon" }, wantErr: "transcription.language"},
		{name: "suffix with slash", mutate: func(c *config.Config) { c.Media.BurnSuffix = "/out" }, wantErr: "media.burn_suffix"},
		{name: "log format", mutate: func(c *config.Config) { c.Logging.Format = "xml" }, wantErr: "logging.format"},
		{name: "log level", mutate: func(c *config.Config) { c.Logging.Level = "trace" }, wantErr: "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected %q in %q", tt.wantErr, err)
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir, cfg.Paths.WorkDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

func TestEncodeMasksAPIKey(t *testing.T) {
	cfg := config.Default()
	cfg.Transcription.APIKey = "sk-secret"
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(string(data), "sk-secret") {
		t.Fatalf("expected key to be masked: %s", data)
	}
	if !strings.Contains(string(data), "max_width = 40") {
		t.Fatalf("expected resegment section in %s", data)
	}
}
