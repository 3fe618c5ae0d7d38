package history

import "time"

// Status describes how a recorded run ended.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run captures a single command invocation that drove the resegmentation engine.
type Run struct {
	ID            string    `json:"id" yaml:"id"`
	Command       string    `json:"command" yaml:"command"`
	InputPath     string    `json:"input_path,omitempty" yaml:"input_path,omitempty"`
	OutputPath    string    `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	MaxWidth      int       `json:"max_width" yaml:"max_width"`
	Policy        string    `json:"policy" yaml:"policy"`
	InputBlocks   int       `json:"input_blocks" yaml:"input_blocks"`
	OutputBlocks  int       `json:"output_blocks" yaml:"output_blocks"`
	SkippedBlocks int       `json:"skipped_blocks" yaml:"skipped_blocks"`
	Status        Status    `json:"status" yaml:"status"`
	ErrorKind     string    `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	ErrorMessage  string    `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	StartedAt     time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt    time.Time `json:"finished_at" yaml:"finished_at"`
}

// Duration reports the wall-clock time the run took.
func (r Run) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// ShortID returns the first eight characters of the run identifier.
func (r Run) ShortID() string {
	if len(r.ID) <= 8 {
		return r.ID
	}
	return r.ID[:8]
}
