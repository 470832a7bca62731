package speech

import (
	"context"
	"errors"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"verity/internal/media/ffprobe"
	"verity/internal/services"
)

const (
	// maxSyncSeconds is the service's per-call ceiling for synchronous
	// recognition.
	maxSyncSeconds = 60
	// segmentSeconds keeps a conservative margin under maxSyncSeconds when
	// splitting long audio.
	segmentSeconds = 50
	// maxBlindSegments bounds chunking when the duration could not be
	// measured at all.
	maxBlindSegments = 120
)

// Config captures the runtime settings required to talk to the
// speech-to-text service.
type Config struct {
	APIKey         string
	BaseURL        string
	Language       string
	FFprobeBinary  string
	TimeoutSeconds int
}

// Segmenter cuts a time-range segment of audio into a scratch file. The
// transcoder satisfies this.
type Segmenter interface {
	ExtractSegment(ctx context.Context, audioPath string, startSec, durationSec int) (string, error)
}

// Service transcribes audio files, routing short clips through one
// synchronous call and long clips through chunked recognition.
type Service struct {
	cfg        Config
	httpClient *http.Client
	segmenter  Segmenter
	prober     func(ctx context.Context, path string) (float64, error)
}

// Option customizes the service.
type Option func(*Service)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithDurationProber overrides how audio duration is measured (for testing).
func WithDurationProber(prober func(ctx context.Context, path string) (float64, error)) Option {
	return func(s *Service) {
		if prober != nil {
			s.prober = prober
		}
	}
}

// NewService constructs the transcription service. Missing credentials fail
// here, before any transcoding work is spent upstream.
func NewService(cfg Config, segmenter Segmenter, opts ...Option) (*Service, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrTranscriptionUnavailable, "speech", "init", "api key missing", nil)
	}
	if segmenter == nil {
		return nil, services.Wrap(services.ErrConfiguration, "speech", "init", "segmenter required", nil)
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.Language = strings.TrimSpace(cfg.Language)
	if cfg.Language == "" {
		cfg.Language = defaultLanguage
	}

	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	svc := &Service{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		segmenter:  segmenter,
	}
	svc.prober = func(ctx context.Context, path string) (float64, error) {
		result, err := ffprobe.Inspect(ctx, cfg.FFprobeBinary, path)
		if err != nil {
			return 0, err
		}
		if result.AudioStreamCount() == 0 {
			return 0, errors.New("no audio stream")
		}
		if d := result.DurationSeconds(); d > 0 {
			return d, nil
		}
		return 0, errors.New("duration unavailable")
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Transcribe converts an audio file in the canonical format into text.
// Clips at or under 60 seconds go through one synchronous call; longer (or
// unmeasurable) clips are split into consecutive 50-second segments whose
// transcripts are concatenated in order.
func (s *Service) Transcribe(ctx context.Context, audioPath string) (string, error) {
	duration, err := s.prober(ctx, audioPath)
	if err != nil || duration <= 0 {
		// Fail safe toward chunking rather than one oversized call.
		return s.transcribeChunked(ctx, audioPath, 0)
	}
	if duration <= maxSyncSeconds {
		return s.recognizeWithFallback(ctx, audioPath)
	}
	return s.transcribeChunked(ctx, audioPath, duration)
}

// recognizeWithFallback is an explicit two-attempt policy: the primary call
// assumes the canonical LINEAR16 encoding; on failure, exactly one
// semantically distinct second attempt lets the service sniff the encoding.
func (s *Service) recognizeWithFallback(ctx context.Context, audioPath string) (string, error) {
	text, err := s.recognizeFile(ctx, audioPath, encodingLinear16)
	if err == nil {
		return text, nil
	}
	if errors.Is(err, services.ErrNoTranscriptionResult) || ctx.Err() != nil {
		return "", err
	}
	return s.recognizeFile(ctx, audioPath, encodingUnspecified)
}

// transcribeChunked splits the audio into consecutive segments, transcribes
// each in order, and joins the transcripts with single spaces. Each segment
// scratch file is removed as soon as its transcript is obtained. A duration
// of 0 means measurement failed; segments are then cut blindly until the
// service stops recognizing anything.
func (s *Service) transcribeChunked(ctx context.Context, audioPath string, duration float64) (string, error) {
	known := duration > 0
	total := 0
	if known {
		total = int(math.Ceil(duration))
	}

	var parts []string
	for start, segment := 0, 0; ; start, segment = start+segmentSeconds, segment+1 {
		length := segmentSeconds
		if known {
			remaining := total - start
			if remaining <= 0 {
				break
			}
			if remaining < length {
				length = remaining
			}
		} else if segment >= maxBlindSegments {
			break
		}

		segPath, err := s.segmenter.ExtractSegment(ctx, audioPath, start, length)
		if err != nil {
			return "", err
		}
		text, err := s.recognizeWithFallback(ctx, segPath)
		_ = os.Remove(segPath)
		if err != nil {
			if !known && segment > 0 && errors.Is(err, services.ErrNoTranscriptionResult) {
				// Ran past the end of unmeasurable audio.
				break
			}
			return "", err
		}
		parts = append(parts, text)
	}

	if len(parts) == 0 {
		return "", services.Wrap(services.ErrNoTranscriptionResult, "speech", "transcribe", "no segments produced text", nil)
	}
	return strings.Join(parts, " "), nil
}
