package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"verity/internal/services"
)

const (
	defaultBaseURL     = "https://speech.googleapis.com/v1"
	defaultLanguage    = "en-US"
	defaultHTTPTimeout = 120 * time.Second

	encodingLinear16    = "LINEAR16"
	encodingUnspecified = "ENCODING_UNSPECIFIED"

	canonicalSampleRate   = 16000
	canonicalChannelCount = 1
)

type recognizeRequest struct {
	Config recognitionConfig `json:"config"`
	Audio  recognitionAudio  `json:"audio"`
}

type recognitionConfig struct {
	Encoding                   string `json:"encoding"`
	SampleRateHertz            int    `json:"sampleRateHertz,omitempty"`
	LanguageCode               string `json:"languageCode"`
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
	AudioChannelCount          int    `json:"audioChannelCount,omitempty"`
}

type recognitionAudio struct {
	Content string `json:"content"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"results"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// recognizeFile reads an audio file and issues one synchronous recognition
// call with the given encoding.
func (s *Service) recognizeFile(ctx context.Context, audioPath, encoding string) (string, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", services.Wrap(services.ErrTranscriptionUnavailable, "speech", "read audio", audioPath, err)
	}

	payload := recognizeRequest{
		Config: recognitionConfig{
			Encoding:                   encoding,
			SampleRateHertz:            canonicalSampleRate,
			LanguageCode:               s.cfg.Language,
			EnableAutomaticPunctuation: true,
			AudioChannelCount:          canonicalChannelCount,
		},
		Audio: recognitionAudio{Content: base64.StdEncoding.EncodeToString(data)},
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", services.Wrap(services.ErrTranscriptionUnavailable, "speech", "encode request", "", err)
	}

	endpoint := s.cfg.BaseURL + "/speech:recognize?key=" + s.cfg.APIKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", services.Wrap(services.ErrTranscriptionUnavailable, "speech", "new request", "", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrTranscriptionUnavailable, "speech", "recognize", "http error", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", services.Wrap(services.ErrTranscriptionUnavailable, "speech", "recognize", "read body", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return "", services.Wrap(services.ErrTranscriptionUnavailable, "speech", "recognize", msg, nil)
	}

	var decoded recognizeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", services.Wrap(services.ErrTranscriptionUnavailable, "speech", "decode response", "", err)
	}
	if decoded.Error != nil {
		msg := fmt.Sprintf("api error %d: %s", decoded.Error.Code, decoded.Error.Message)
		return "", services.Wrap(services.ErrTranscriptionUnavailable, "speech", "recognize", msg, nil)
	}

	transcripts := make([]string, 0, len(decoded.Results))
	for _, result := range decoded.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		if text := strings.TrimSpace(result.Alternatives[0].Transcript); text != "" {
			transcripts = append(transcripts, text)
		}
	}
	if len(transcripts) == 0 {
		return "", services.Wrap(services.ErrNoTranscriptionResult, "speech", "recognize", "service returned zero recognized segments", nil)
	}
	return strings.Join(transcripts, " "), nil
}
