package deps

import (
	"fmt"
	"runtime"
	"strings"
)

// MediaRequirements returns the binary requirements for the media steps.
func MediaRequirements(ffmpegBinary, ffprobeBinary string) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     ffmpegBinary,
			Description: "Required for audio extraction and conversion",
		},
		{
			Name:        "FFprobe",
			Command:     ffprobeBinary,
			Description: "Required for audio duration measurement",
		},
	}
}

// InstallHint returns a platform-specific remediation line for a missing
// media binary.
func InstallHint(binary string) string {
	name := strings.TrimSpace(binary)
	if name == "" {
		name = "ffmpeg"
	}
	switch runtime.GOOS {
	case "darwin":
		return fmt.Sprintf("%s is not installed; install it with 'brew install ffmpeg' and re-run", name)
	case "windows":
		return fmt.Sprintf("%s is not installed; install it with 'winget install ffmpeg' or download a build from ffmpeg.org and add it to PATH", name)
	default:
		return fmt.Sprintf("%s is not installed; install it with your package manager, e.g. 'apt install ffmpeg' or 'dnf install ffmpeg'", name)
	}
}
