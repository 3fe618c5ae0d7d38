package preflight

import (
	"context"
	"fmt"
	"strings"

	"subfit/internal/config"
	"subfit/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Optional bool   `json:"optional,omitempty"`
	Detail   string `json:"detail"`
}

// Options selects the checks RunAll performs beyond the local ones.
type Options struct {
	// Network probes the transcription endpoint.
	Network bool
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckFFmpeg(cfg),
		CheckAPIKey(cfg),
	}
	if cfg.History.Enabled {
		results = append(results, CheckHistory(ctx, cfg))
	}
	if opts.Network {
		results = append(results, CheckTranscriptionEndpoint(ctx, cfg.Transcription.BaseURL))
	}
	return results
}

// Require runs the named checks and returns an error describing the first
// required failure. Checks are FFmpeg and APIKey.
func Require(cfg *config.Config, checks ...func(*config.Config) Result) error {
	var failed []string
	for _, check := range checks {
		result := check(cfg)
		if result.Passed {
			continue
		}
		failed = append(failed, fmt.Sprintf("%s: %s", result.Name, result.Detail))
	}
	if len(failed) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "preflight", "", strings.Join(failed, "; "), nil)
}

// Failed reports whether any non-optional result failed.
func Failed(results []Result) bool {
	for _, result := range results {
		if !result.Passed && !result.Optional {
			return true
		}
	}
	return false
}
