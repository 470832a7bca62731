package transcode

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"verity/internal/services"
)

func newCaptureRunner(t *testing.T, calls *[][]string) func(ctx context.Context, name string, args ...string) error {
	t.Helper()
	return func(ctx context.Context, name string, args ...string) error {
		*calls = append(*calls, args)
		dest := args[len(args)-1]
		if err := os.WriteFile(dest, []byte("RIFF"), 0o644); err != nil {
			t.Fatalf("write fake output: %v", err)
		}
		return nil
	}
}

func TestExtractAudioArgsAndScratchPlacement(t *testing.T) {
	scratch := t.TempDir()
	tr := New("ffmpeg", scratch)
	var calls [][]string
	tr.WithCommandRunner(newCaptureRunner(t, &calls))

	out, err := tr.ExtractAudio(context.Background(), "/uploads/clip.mp4")
	if err != nil {
		t.Fatalf("ExtractAudio failed: %v", err)
	}
	if filepath.Dir(out) != scratch {
		t.Fatalf("expected output in scratch dir, got %s", out)
	}
	base := filepath.Base(out)
	if !strings.HasPrefix(base, "clip_") || !strings.HasSuffix(base, ".wav") {
		t.Fatalf("expected stem plus random suffix, got %s", base)
	}

	joined := strings.Join(calls[0], " ")
	for _, want := range []string{"-vn", "-acodec pcm_s16le", "-ar 16000", "-ac 1", "-y"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in args %q", want, joined)
		}
	}
}

func TestScratchNamesDoNotCollide(t *testing.T) {
	scratch := t.TempDir()
	tr := New("ffmpeg", scratch)
	var calls [][]string
	tr.WithCommandRunner(newCaptureRunner(t, &calls))

	first, err := tr.ConvertAudio(context.Background(), "/uploads/voice.m4a")
	if err != nil {
		t.Fatalf("ConvertAudio failed: %v", err)
	}
	second, err := tr.ConvertAudio(context.Background(), "/uploads/voice.m4a")
	if err != nil {
		t.Fatalf("ConvertAudio failed: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct scratch names, got %s twice", first)
	}
}

func TestExtractSegmentArgs(t *testing.T) {
	scratch := t.TempDir()
	tr := New("ffmpeg", scratch)
	var calls [][]string
	tr.WithCommandRunner(newCaptureRunner(t, &calls))

	if _, err := tr.ExtractSegment(context.Background(), "/scratch/full.wav", 50, 50); err != nil {
		t.Fatalf("ExtractSegment failed: %v", err)
	}
	joined := strings.Join(calls[0], " ")
	if !strings.Contains(joined, "-ss 50") || !strings.Contains(joined, "-t 50") {
		t.Fatalf("expected seek args in %q", joined)
	}

	if _, err := tr.ExtractSegment(context.Background(), "/scratch/full.wav", -1, 50); err == nil {
		t.Fatal("expected error for negative start")
	}
	if _, err := tr.ExtractSegment(context.Background(), "/scratch/full.wav", 0, 0); err == nil {
		t.Fatal("expected error for zero duration")
	}
}

func TestMissingBinaryIsToolUnavailable(t *testing.T) {
	tr := New("verity-test-no-such-ffmpeg", t.TempDir())

	_, err := tr.ExtractAudio(context.Background(), "/uploads/clip.mp4")
	if !errors.Is(err, services.ErrToolUnavailable) {
		t.Fatalf("expected ErrToolUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "install") {
		t.Fatalf("expected remediation hint in %q", err.Error())
	}
}

func TestMissingOutputIsTranscodeFailed(t *testing.T) {
	tr := New("ffmpeg", t.TempDir())
	tr.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return nil // succeed without producing the output file
	})

	_, err := tr.ConvertAudio(context.Background(), "/uploads/voice.m4a")
	if !errors.Is(err, services.ErrTranscodeFailed) {
		t.Fatalf("expected ErrTranscodeFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "output file not created") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestFailedCommandIsTranscodeFailed(t *testing.T) {
	tr := New("ffmpeg", t.TempDir())
	tr.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return errors.New("exit status 1")
	})

	_, err := tr.ExtractAudio(context.Background(), "/uploads/clip.mp4")
	if !errors.Is(err, services.ErrTranscodeFailed) {
		t.Fatalf("expected ErrTranscodeFailed, got %v", err)
	}
}
