package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"verity/internal/citations"
	"verity/internal/logging"
	"verity/internal/services"
	"verity/internal/services/verdict"
	"verity/internal/store"
	"verity/internal/textutil"
)

// Transcoder produces canonical-format audio scratch files from media input.
type Transcoder interface {
	ExtractAudio(ctx context.Context, videoPath string) (string, error)
	ConvertAudio(ctx context.Context, audioPath string) (string, error)
}

// Transcriber converts canonical audio into claim text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Verifier produces web-grounded verdicts for claims and images.
type Verifier interface {
	VerifyText(ctx context.Context, claim string) (verdict.Result, error)
	VerifyImage(ctx context.Context, imagePath string) (verdict.ImageResult, error)
}

// Request describes one fact-check job.
type Request struct {
	FilePath string
	Kind     store.MediaKind
	UserID   int64
}

// Runner orchestrates one fact-check end to end: media to claim text to
// grounded verdict to persisted record.
type Runner struct {
	store        *store.Store
	transcoder   Transcoder
	transcriber  Transcriber
	verifier     Verifier
	logger       *slog.Logger
	maxSentences int
}

// NewRunner assembles the pipeline from its stages. maxSentences bounds
// stored verdict length; zero disables the clamp.
func NewRunner(st *store.Store, transcoder Transcoder, transcriber Transcriber, verifier Verifier, logger *slog.Logger, maxSentences int) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		store:        st,
		transcoder:   transcoder,
		transcriber:  transcriber,
		verifier:     verifier,
		logger:       logger,
		maxSentences: maxSentences,
	}
}

// Run executes one fact-check and returns the persisted record.
func (r *Runner) Run(ctx context.Context, req Request) (*store.FactCheck, error) {
	if _, err := os.Stat(req.FilePath); err != nil {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "stat input", req.FilePath, err)
	}

	user, err := r.store.GetUserByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, services.Wrap(services.ErrNotFound, "pipeline", "lookup user", fmt.Sprintf("user %d", req.UserID), nil)
	}

	ctx = services.WithRequestID(ctx, strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	log := logging.WithContext(ctx, r.logger).With(
		slog.String("file", req.FilePath),
		slog.String("kind", string(req.Kind)),
		slog.Int64("user_id", req.UserID),
	)

	var record *store.FactCheck
	switch req.Kind {
	case store.KindVideo:
		record, err = r.runSpeech(ctx, req, log, r.transcoder.ExtractAudio)
	case store.KindAudio:
		record, err = r.runSpeech(ctx, req, log, r.transcoder.ConvertAudio)
	case store.KindImage:
		record, err = r.runImage(ctx, req, log)
	default:
		err = services.Wrap(services.ErrValidation, "pipeline", "dispatch", fmt.Sprintf("unknown media kind %q", req.Kind), nil)
	}
	if err != nil {
		log.Error("fact check failed",
			slog.String("category", services.Category(err)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return record, nil
}

// runSpeech handles both spoken-word paths; prepare turns the input into a
// canonical audio scratch file (audio stream extraction for video, format
// conversion for audio).
func (r *Runner) runSpeech(ctx context.Context, req Request, log *slog.Logger, prepare func(context.Context, string) (string, error)) (*store.FactCheck, error) {
	stepCtx := services.WithStep(ctx, "transcode")
	logging.WithContext(stepCtx, log).Info("preparing audio")
	audioPath, err := prepare(stepCtx, req.FilePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if audioPath != "" {
			_ = os.Remove(audioPath)
		}
	}()

	stepCtx = services.WithStep(ctx, "transcribe")
	logging.WithContext(stepCtx, log).Info("transcribing audio")
	transcript, err := r.transcriber.Transcribe(stepCtx, audioPath)
	if err != nil {
		return nil, err
	}
	log.Info("transcription complete", slog.Int("chars", len(transcript)))

	stepCtx = services.WithStep(ctx, "verify")
	logging.WithContext(stepCtx, log).Info("verifying claim")
	res, err := r.verifier.VerifyText(stepCtx, transcript)
	if err != nil {
		return nil, err
	}

	return r.persist(ctx, req, transcript, res.Text, res.Grounding, log)
}

func (r *Runner) runImage(ctx context.Context, req Request, log *slog.Logger) (*store.FactCheck, error) {
	stepCtx := services.WithStep(ctx, "verify")
	logging.WithContext(stepCtx, log).Info("verifying image")
	res, err := r.verifier.VerifyImage(stepCtx, req.FilePath)
	if err != nil {
		return nil, err
	}
	return r.persist(ctx, req, res.Description, res.Text, res.Grounding, log)
}

func (r *Runner) persist(ctx context.Context, req Request, extracted, verdictText string, grounding []byte, log *slog.Logger) (*store.FactCheck, error) {
	// Citations scan the raw verdict text so URLs survive even when the
	// sanitizer or clamp would drop them from the stored prose.
	sources := citations.Normalize(grounding, verdictText)

	cleaned := textutil.Sanitize(verdictText)
	cleaned = textutil.ClampSentences(cleaned, r.maxSentences)

	record, err := r.store.CreateFactCheck(ctx, store.CreateFactCheckParams{
		UserID:        req.UserID,
		MediaKind:     req.Kind,
		SourcePath:    req.FilePath,
		ExtractedText: extracted,
		VerdictText:   cleaned,
		Citations:     sources,
	})
	if err != nil {
		return nil, err
	}
	logging.WithContext(services.WithRecordID(ctx, record.ID), log).Info("fact check recorded",
		slog.Int("citations", len(record.Citations)),
	)
	return record, nil
}
