package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"verity/internal/logging"
	"verity/internal/media/transcode"
	"verity/internal/pipeline"
	"verity/internal/services"
	"verity/internal/services/verdict"
	"verity/internal/store"
	"verity/internal/testsupport"
)

type fakeTranscoder struct {
	dir       string
	extracted int
	converted int
}

func (f *fakeTranscoder) makeScratch(t *testing.T) string {
	path := filepath.Join(f.dir, "scratch.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write scratch: %v", err)
	}
	return path
}

func (f *fakeTranscoder) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	f.extracted++
	return filepath.Join(f.dir, "scratch.wav"), nil
}

func (f *fakeTranscoder) ConvertAudio(ctx context.Context, audioPath string) (string, error) {
	f.converted++
	return filepath.Join(f.dir, "scratch.wav"), nil
}

type fakeTranscriber struct {
	transcript string
	calls      int
	lastPath   string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f.calls++
	f.lastPath = audioPath
	return f.transcript, nil
}

type fakeVerifier struct {
	textCalls  int
	imageCalls int
	lastClaim  string
	text       verdict.Result
	image      verdict.ImageResult
}

func (f *fakeVerifier) VerifyText(ctx context.Context, claim string) (verdict.Result, error) {
	f.textCalls++
	f.lastClaim = claim
	return f.text, nil
}

func (f *fakeVerifier) VerifyImage(ctx context.Context, imagePath string) (verdict.ImageResult, error) {
	f.imageCalls++
	return f.image, nil
}

func writeInput(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("media"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func newUser(t *testing.T, st *store.Store) *store.User {
	t.Helper()
	user, err := st.CreateUser(context.Background(), "runner@example.com", "hash", store.RoleUser)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestRunVideoTranscribesAndVerifies(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	user := newUser(t, st)

	transcoder := &fakeTranscoder{dir: t.TempDir()}
	scratch := transcoder.makeScratch(t)
	transcriber := &fakeTranscriber{transcript: "the dam broke in 2019"}
	grounding, _ := json.Marshal(map[string]any{
		"groundingChunks": []any{map[string]any{"web": map[string]any{"uri": "https://example.com/dam", "title": "Dam report"}}},
	})
	verifier := &fakeVerifier{text: verdict.Result{Text: "**True.** The dam failed in 2019.", Grounding: grounding}}

	runner := pipeline.NewRunner(st, transcoder, transcriber, verifier, logging.Discard(), 10)
	record, err := runner.Run(context.Background(), pipeline.Request{
		FilePath: writeInput(t, "clip.mp4"),
		Kind:     store.KindVideo,
		UserID:   user.ID,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if transcoder.extracted != 1 || transcoder.converted != 0 {
		t.Fatalf("expected one audio extraction, got extract=%d convert=%d", transcoder.extracted, transcoder.converted)
	}
	if transcriber.calls != 1 || transcriber.lastPath != scratch {
		t.Fatalf("transcriber not fed the scratch file: calls=%d path=%q", transcriber.calls, transcriber.lastPath)
	}
	if verifier.lastClaim != "the dam broke in 2019" {
		t.Fatalf("verifier got wrong claim %q", verifier.lastClaim)
	}
	if record.ExtractedText != "the dam broke in 2019" {
		t.Fatalf("extracted text mismatch: %q", record.ExtractedText)
	}
	if strings.Contains(record.VerdictText, "**") {
		t.Fatalf("markdown survived sanitization: %q", record.VerdictText)
	}
	if len(record.Citations) != 1 || record.Citations[0].URL != "https://example.com/dam" {
		t.Fatalf("citations not normalized: %+v", record.Citations)
	}

	if _, err := os.Stat(scratch); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("scratch file not removed after run: %v", err)
	}
}

func TestRunImageFallsBackToURLScan(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	user := newUser(t, st)

	verifier := &fakeVerifier{image: verdict.ImageResult{
		Result: verdict.Result{
			Text:      "The poster is misleading, see https://factcheck.example.org/poster for details.",
			Grounding: nil,
		},
		Description: "A poster claiming free energy.",
	}}

	runner := pipeline.NewRunner(st, &fakeTranscoder{dir: t.TempDir()}, &fakeTranscriber{}, verifier, logging.Discard(), 10)
	record, err := runner.Run(context.Background(), pipeline.Request{
		FilePath: writeInput(t, "poster.png"),
		Kind:     store.KindImage,
		UserID:   user.ID,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if verifier.imageCalls != 1 || verifier.textCalls != 0 {
		t.Fatalf("expected one image verification, got image=%d text=%d", verifier.imageCalls, verifier.textCalls)
	}
	if record.ExtractedText != "A poster claiming free energy." {
		t.Fatalf("expected description persisted as extracted text, got %q", record.ExtractedText)
	}
	if len(record.Citations) != 1 || record.Citations[0].URL != "https://factcheck.example.org/poster" {
		t.Fatalf("expected URL-scan fallback citation, got %+v", record.Citations)
	}
}

func TestRunUnknownUserRejected(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	runner := pipeline.NewRunner(st, &fakeTranscoder{dir: t.TempDir()}, &fakeTranscriber{}, &fakeVerifier{}, logging.Discard(), 10)
	_, err := runner.Run(context.Background(), pipeline.Request{
		FilePath: writeInput(t, "clip.mp4"),
		Kind:     store.KindVideo,
		UserID:   42,
	})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestRunMissingToolFailsBeforeServices(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	user := newUser(t, st)

	transcoder := transcode.New("verity-test-no-such-ffmpeg", t.TempDir())
	transcriber := &fakeTranscriber{}
	verifier := &fakeVerifier{}

	runner := pipeline.NewRunner(st, transcoder, transcriber, verifier, logging.Discard(), 10)
	_, err := runner.Run(context.Background(), pipeline.Request{
		FilePath: writeInput(t, "clip.mp4"),
		Kind:     store.KindVideo,
		UserID:   user.ID,
	})
	if !errors.Is(err, services.ErrToolUnavailable) {
		t.Fatalf("expected ErrToolUnavailable, got %v", err)
	}
	if !strings.Contains(strings.ToLower(err.Error()), "install") {
		t.Fatalf("expected remediation hint in error, got %q", err)
	}
	if transcriber.calls != 0 || verifier.textCalls != 0 || verifier.imageCalls != 0 {
		t.Fatalf("downstream services called despite missing tool")
	}
}

func TestRunUnknownKindRejected(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	user := newUser(t, st)

	runner := pipeline.NewRunner(st, &fakeTranscoder{dir: t.TempDir()}, &fakeTranscriber{}, &fakeVerifier{}, logging.Discard(), 10)
	_, err := runner.Run(context.Background(), pipeline.Request{
		FilePath: writeInput(t, "thing.bin"),
		Kind:     store.MediaKind("document"),
		UserID:   user.ID,
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown kind, got %v", err)
	}
}
