package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"verity/internal/config"
	"verity/internal/deps"
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

// CheckSpeech verifies the speech service credentials are configured.
// Reachability is left to the first real request; the sync recognize
// endpoint has no cheap health probe.
func CheckSpeech(cfg *config.Config) Result {
	const name = "Speech service"
	if strings.TrimSpace(cfg.Speech.APIKey) == "" {
		return Result{Name: name, Detail: "API key missing (set speech.api_key or VERITY_SPEECH_API_KEY)"}
	}
	return Result{Name: name, Passed: true, Detail: "API key configured"}
}

// CheckVerdict verifies the verdict service credentials are configured.
func CheckVerdict(cfg *config.Config) Result {
	const name = "Verdict service"
	if strings.TrimSpace(cfg.Verdict.APIKey) == "" {
		return Result{Name: name, Detail: "API key missing (set verdict.api_key or VERITY_VERDICT_API_KEY)"}
	}
	return Result{Name: name, Passed: true, Detail: "API key configured"}
}

// CheckSystemDeps evaluates the external binaries the media steps need.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.MediaRequirements(cfg.FFmpegBinary(), cfg.FFprobeBinary()))
}
