package deps

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// CheckFFmpeg reports whether the configured ffmpeg binary can be executed.
// A bare name is resolved through PATH; a path must point at an executable file.
func CheckFFmpeg(binary string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Extracts audio for transcription and burns subtitles into video",
	}
	name := strings.TrimSpace(binary)
	if name == "" {
		name = "ffmpeg"
	}
	result.Command = name

	if strings.ContainsRune(name, os.PathSeparator) {
		info, err := os.Stat(name)
		if err != nil {
			result.Detail = fmt.Sprintf("binary %q not found", name)
			return result
		}
		if !isExecutable(info) {
			result.Detail = fmt.Sprintf("binary %q is not executable", name)
			return result
		}
		result.Available = true
		return result
	}

	resolved, err := exec.LookPath(name)
	if err != nil {
		result.Detail = fmt.Sprintf("binary %q not found", name)
		return result
	}
	result.Command = resolved
	result.Available = true
	return result
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
