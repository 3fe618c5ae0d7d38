package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"subfit/internal/config"
	"subfit/internal/deps"
	"subfit/internal/history"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFFmpeg verifies the configured ffmpeg binary is executable.
func CheckFFmpeg(cfg *config.Config) Result {
	status := deps.CheckFFmpeg(cfg.FFmpegBinary())
	if !status.Available {
		return Result{Name: status.Name, Detail: status.Detail}
	}
	return Result{Name: status.Name, Passed: true, Detail: status.Command}
}

// CheckAPIKey reports whether a transcription API key is configured. Only the
// transcribe and run commands need one, so the result is optional.
func CheckAPIKey(cfg *config.Config) Result {
	const name = "Transcription API key"
	if cfg.Transcription.APIKey == "" {
		return Result{Name: name, Optional: true, Detail: "not set (transcription.api_key or OPENAI_API_KEY)"}
	}
	return Result{Name: name, Optional: true, Passed: true, Detail: "configured"}
}

// CheckHistory opens the history database to confirm it is usable.
func CheckHistory(ctx context.Context, cfg *config.Config) Result {
	const name = "History database"
	store, err := history.Open(cfg)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: err.Error()}
	}
	defer store.Close()
	count, err := store.Count(ctx)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: err.Error()}
	}
	return Result{Name: name, Optional: true, Passed: true, Detail: fmt.Sprintf("%s (%d runs)", store.Path(), count)}
}

// CheckTranscriptionEndpoint verifies the transcription host answers HTTP.
// Any HTTP response counts as reachable; authentication is not exercised.
func CheckTranscriptionEndpoint(ctx context.Context, baseURL string) Result {
	const name = "Transcription endpoint"
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Host == "" {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("invalid url %q", baseURL)}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodHead, baseURL, nil)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("request failed (%v)", err)}
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: summarizeNetworkError(err)}
	}
	defer resp.Body.Close()
	return Result{Name: name, Optional: true, Passed: true, Detail: fmt.Sprintf("%s reachable (%d)", parsed.Host, resp.StatusCode)}
}

func summarizeNetworkError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out (endpoint unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out (endpoint unreachable)"
	}
	return err.Error()
}
