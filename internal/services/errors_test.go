package services_test

import (
	"errors"
	"strings"
	"testing"

	"verity/internal/services"
)

func TestWrapCarriesMarkerAndDetail(t *testing.T) {
	cause := errors.New("exit status 1")
	err := services.Wrap(services.ErrTranscodeFailed, "transcode", "extract audio", "ffmpeg stderr here", cause)

	if !errors.Is(err, services.ErrTranscodeFailed) {
		t.Fatalf("marker lost: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost: %v", err)
	}
	for _, fragment := range []string{"transcode", "extract audio", "ffmpeg stderr here"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in %q", fragment, err.Error())
		}
	}
}

func TestWrapNilMarkerDefaultsToValidation(t *testing.T) {
	err := services.Wrap(nil, "store", "create user", "email required", nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation fallback, got %v", err)
	}
}

func TestCategory(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{services.Wrap(services.ErrToolUnavailable, "", "", "", nil), "tool_unavailable"},
		{services.Wrap(services.ErrNoTranscriptionResult, "", "", "", nil), "no_transcription_result"},
		{services.Wrap(services.ErrVerdictService, "", "", "", nil), "verdict_service_error"},
		{errors.New("plain"), "internal"},
	}
	for _, tc := range cases {
		if got := services.Category(tc.err); got != tc.want {
			t.Fatalf("Category(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
