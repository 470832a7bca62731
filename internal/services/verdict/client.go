package verdict

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"verity/internal/services"
)

const (
	defaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel       = "gemini-2.0-flash"
	defaultHTTPTimeout = 90 * time.Second

	generationTemperature = 0.7
)

// Config captures the runtime settings required to talk to the generative
// fact-check service.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Client wraps the generative AI service's generateContent API. It performs
// no automatic retries; transient-failure policy belongs to the caller.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a verdict client. A missing API credential fails
// here so the orchestrator can short-circuit before spending transcoding or
// transcription work.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrServiceNotConfigured, "verdict", "init", "api key missing", nil)
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	client := &Client{cfg: cfg, httpClient: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Result is the raw outcome of one grounded verification.
type Result struct {
	// Text is the model's verdict prose, unformatted.
	Text string
	// Grounding is the provider's grounding metadata verbatim, nil when the
	// provider returned none. The citation normalizer owns its shape.
	Grounding json.RawMessage
}

// ImageResult additionally carries the description extracted in the first,
// ungrounded call of the image flow.
type ImageResult struct {
	Result
	Description string
}

// VerifyText issues one grounded generation request asking for a
// bounded-length plain-prose verdict on the claim.
func (c *Client) VerifyText(ctx context.Context, claim string) (Result, error) {
	claim = strings.TrimSpace(claim)
	if claim == "" {
		return Result{}, services.Wrap(services.ErrValidation, "verdict", "verify text", "claim required", nil)
	}
	return c.generateGrounded(ctx, fmt.Sprintf(factCheckPrompt, claim))
}

// VerifyImage runs the two-step image flow: an ungrounded call extracts an
// objective description of the image, then the description is fact-checked
// as text with web grounding.
func (c *Client) VerifyImage(ctx context.Context, imagePath string) (ImageResult, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return ImageResult{}, services.Wrap(services.ErrVerdictService, "verdict", "read image", imagePath, err)
	}

	describe := generateRequest{
		Contents: []content{{Parts: []part{
			{InlineData: &inlineData{MIMEType: imageMIMEType(imagePath), Data: base64.StdEncoding.EncodeToString(data)}},
			{Text: describeImagePrompt},
		}}},
	}
	description, _, err := c.generate(ctx, describe, "describe image")
	if err != nil {
		return ImageResult{}, err
	}

	verified, err := c.generateGrounded(ctx, fmt.Sprintf(factCheckImagePrompt, description))
	if err != nil {
		return ImageResult{}, err
	}
	return ImageResult{Result: verified, Description: description}, nil
}

func (c *Client) generateGrounded(ctx context.Context, prompt string) (Result, error) {
	payload := generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		Tools:            []tool{{GoogleSearch: &struct{}{}}},
		GenerationConfig: &generationConfig{Temperature: generationTemperature},
	}
	text, grounding, err := c.generate(ctx, payload, "verify")
	if err != nil {
		return Result{}, err
	}
	return Result{Text: text, Grounding: grounding}, nil
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	Tools            []tool            `json:"tools,omitempty"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type tool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		GroundingMetadata json.RawMessage `json:"groundingMetadata"`
	} `json:"candidates"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (c *Client) generate(ctx context.Context, payload generateRequest, operation string) (string, json.RawMessage, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", nil, services.Wrap(services.ErrVerdictService, "verdict", operation, "encode request", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", nil, services.Wrap(services.ErrVerdictService, "verdict", operation, "new request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, services.Wrap(services.ErrVerdictService, "verdict", operation, "http error", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, services.Wrap(services.ErrVerdictService, "verdict", operation, "read body", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return "", nil, services.Wrap(services.ErrVerdictService, "verdict", operation, msg, nil)
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", nil, services.Wrap(services.ErrVerdictService, "verdict", operation, "decode response", err)
	}
	if decoded.Error != nil {
		msg := fmt.Sprintf("api error %d: %s", decoded.Error.Code, decoded.Error.Message)
		return "", nil, services.Wrap(services.ErrVerdictService, "verdict", operation, msg, nil)
	}
	if len(decoded.Candidates) == 0 {
		return "", nil, services.Wrap(services.ErrVerdictService, "verdict", operation, "empty candidates", nil)
	}

	candidate := decoded.Candidates[0]
	var b strings.Builder
	for _, p := range candidate.Content.Parts {
		b.WriteString(p.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", nil, services.Wrap(services.ErrVerdictService, "verdict", operation, "empty response text", nil)
	}

	grounding := candidate.GroundingMetadata
	if len(grounding) > 0 && string(grounding) == "null" {
		grounding = nil
	}
	return text, grounding, nil
}

func imageMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
