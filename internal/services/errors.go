package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for the failure categories the pipeline can surface.
// Every error leaving an adapter wraps exactly one of these so the caller
// layer can map the failure to a rejection without parsing messages.
var (
	ErrToolUnavailable          = errors.New("tool unavailable")
	ErrTranscodeFailed          = errors.New("transcode failed")
	ErrTranscriptionUnavailable = errors.New("transcription service unavailable")
	ErrNoTranscriptionResult    = errors.New("no transcription result")
	ErrServiceNotConfigured     = errors.New("service not configured")
	ErrVerdictService           = errors.New("verdict service error")
	ErrNotFound                 = errors.New("not found")
	ErrValidation               = errors.New("validation error")
	ErrConfiguration            = errors.New("configuration error")
)

// Wrap builds an error message that includes step context while tagging it
// with the provided marker for later categorization. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, step, operation, message string, err error) error {
	detail := buildDetail(step, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Category returns a stable label for the failure category of err, or
// "internal" when the error carries no known marker.
func Category(err error) string {
	switch {
	case errors.Is(err, ErrToolUnavailable):
		return "tool_unavailable"
	case errors.Is(err, ErrTranscodeFailed):
		return "transcode_failed"
	case errors.Is(err, ErrTranscriptionUnavailable):
		return "transcription_unavailable"
	case errors.Is(err, ErrNoTranscriptionResult):
		return "no_transcription_result"
	case errors.Is(err, ErrServiceNotConfigured):
		return "service_not_configured"
	case errors.Is(err, ErrVerdictService):
		return "verdict_service_error"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	default:
		return "internal"
	}
}

func buildDetail(step, operation, message string) string {
	parts := make([]string, 0, 3)
	if step = strings.TrimSpace(step); step != "" {
		parts = append(parts, step)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
