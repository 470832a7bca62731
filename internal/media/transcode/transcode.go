package transcode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"verity/internal/deps"
	"verity/internal/services"
)

const (
	// Recognition canonical format: mono 16kHz PCM 16-bit little-endian.
	targetSampleRate = 16000
	targetChannels   = 1
)

// Transcoder invokes ffmpeg to produce audio in the canonical format the
// transcription service requires. Callers own deletion of every returned
// scratch path once the file has been consumed.
type Transcoder struct {
	binary     string
	scratchDir string
	runner     func(ctx context.Context, name string, args ...string) error
}

// New creates a transcoder using the given ffmpeg binary and scratch
// directory.
func New(binary, scratchDir string) *Transcoder {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &Transcoder{binary: binary, scratchDir: scratchDir}
}

// WithCommandRunner sets a custom command runner (for testing).
func (t *Transcoder) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	t.runner = runner
}

// Check verifies the ffmpeg binary can be located, returning a categorized
// error with a platform-specific remediation hint when it cannot.
func (t *Transcoder) Check() error {
	if t.runner != nil {
		return nil
	}
	if _, err := exec.LookPath(t.binary); err != nil {
		return services.Wrap(services.ErrToolUnavailable, "transcode", "locate ffmpeg", deps.InstallHint(t.binary), err)
	}
	return nil
}

// ExtractAudio extracts the audio stream from a video file into a canonical
// WAV scratch file and returns its path.
func (t *Transcoder) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	dest, err := t.scratchPath(videoPath, "")
	if err != nil {
		return "", err
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprintf("%d", targetSampleRate),
		"-ac", fmt.Sprintf("%d", targetChannels),
		dest,
	}
	if err := t.run(ctx, "extract audio", dest, args); err != nil {
		return "", err
	}
	return dest, nil
}

// ConvertAudio re-encodes an arbitrary audio file into the canonical WAV
// format and returns the scratch path.
func (t *Transcoder) ConvertAudio(ctx context.Context, audioPath string) (string, error) {
	dest, err := t.scratchPath(audioPath, "converted")
	if err != nil {
		return "", err
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", audioPath,
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprintf("%d", targetSampleRate),
		"-ac", fmt.Sprintf("%d", targetChannels),
		dest,
	}
	if err := t.run(ctx, "convert audio", dest, args); err != nil {
		return "", err
	}
	return dest, nil
}

// ExtractSegment cuts a time-range segment out of an audio file, re-encoded
// in the canonical format. startSec is the offset in seconds, durationSec the
// segment length.
func (t *Transcoder) ExtractSegment(ctx context.Context, audioPath string, startSec, durationSec int) (string, error) {
	if startSec < 0 {
		return "", services.Wrap(services.ErrValidation, "transcode", "extract segment", fmt.Sprintf("invalid start %d", startSec), nil)
	}
	if durationSec <= 0 {
		return "", services.Wrap(services.ErrValidation, "transcode", "extract segment", fmt.Sprintf("invalid duration %d", durationSec), nil)
	}
	dest, err := t.scratchPath(audioPath, fmt.Sprintf("seg%d", startSec))
	if err != nil {
		return "", err
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", fmt.Sprintf("%d", startSec),
		"-t", fmt.Sprintf("%d", durationSec),
		"-i", audioPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprintf("%d", targetSampleRate),
		"-ac", fmt.Sprintf("%d", targetChannels),
		dest,
	}
	if err := t.run(ctx, "extract segment", dest, args); err != nil {
		return "", err
	}
	return dest, nil
}

func (t *Transcoder) run(ctx context.Context, operation, dest string, args []string) error {
	if err := t.Check(); err != nil {
		return err
	}
	if t.runner != nil {
		if err := t.runner(ctx, t.binary, args...); err != nil {
			return services.Wrap(services.ErrTranscodeFailed, "transcode", operation, "", err)
		}
	} else {
		cmd := exec.CommandContext(ctx, t.binary, args...) //nolint:gosec
		if output, err := cmd.CombinedOutput(); err != nil {
			return services.Wrap(services.ErrTranscodeFailed, "transcode", operation, strings.TrimSpace(string(output)), err)
		}
	}
	if _, err := os.Stat(dest); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return services.Wrap(services.ErrTranscodeFailed, "transcode", operation, "output file not created", nil)
		}
		return services.Wrap(services.ErrTranscodeFailed, "transcode", operation, "stat output", err)
	}
	return nil
}

// scratchPath builds a collision-resistant output path from the source stem
// so concurrent requests never collide.
func (t *Transcoder) scratchPath(source, label string) (string, error) {
	if err := os.MkdirAll(t.scratchDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrTranscodeFailed, "transcode", "ensure scratch dir", "", err)
	}
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if stem == "" {
		stem = "audio"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	name := stem
	if label != "" {
		name += "_" + label
	}
	name += "_" + suffix + ".wav"
	return filepath.Join(t.scratchDir, name), nil
}
