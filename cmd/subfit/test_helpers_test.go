package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"subfit/internal/config"
	"subfit/internal/history"
	"subfit/internal/testsupport"
)

// transcriptSRT is what the fake transcription endpoint returns.
const transcriptSRT = `1
00:00:00,000 --> 00:00:02,000
Hello world, this is a test of subtitle wrapping.
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	ffmpegLog  string
	requests   *atomic.Int32
}

// setupCLITestEnv writes a config pointing every directory at a temp tree,
// ffmpeg at a stub script and the transcription endpoint at a test server.
func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	requests := new(atomic.Int32)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.FormValue("response_format") != "srt" {
			http.Error(w, "want srt", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(transcriptSRT))
	}))
	t.Cleanup(server.Close)

	opts = append([]testsupport.ConfigOption{testsupport.WithTranscriptionURL(server.URL)}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)

	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("OPENAI_API_KEY", "")

	ffmpegLog := filepath.Join(base, "ffmpeg.log")
	stub := filepath.Join(base, "bin", "ffmpeg-stub")
	script := "#!/bin/sh\n" +
		"printf '%s\\n' \"$*\" >> '" + ffmpegLog + "'\n" +
		"for last; do :; done\n" +
		"printf 'media' > \"$last\"\n"
	testsupport.WriteFile(t, stub, script)
	if err := os.Chmod(stub, 0o755); err != nil {
		t.Fatalf("chmod stub: %v", err)
	}
	cfg.Media.FFmpegBinary = stub
	cfg.Logging.Level = "error"

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		ffmpegLog:  ffmpegLog,
		requests:   requests,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	testsupport.WriteFile(t, path, string(data))
}

func runCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func (env *cliTestEnv) historyRuns(t *testing.T) []history.Run {
	t.Helper()
	out, err := runCLI(t, env, "", "history", "list", "--json")
	if err != nil {
		t.Fatalf("history list --json: %v", err)
	}
	var runs []history.Run
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode history: %v\n%s", err, out)
	}
	return runs
}

func (env *cliTestEnv) ffmpegCalls(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(env.ffmpegLog)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read ffmpeg log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}
