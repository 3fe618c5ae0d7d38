package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleSRT is a small well-formed document with one block that wraps at the
// default width and one that does not.
const SampleSRT = `1
00:00:01,000 --> 00:00:04,000
This caption is long enough that it will need more than one line

2
00:00:05,000 --> 00:00:06,000
Short one
`

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
