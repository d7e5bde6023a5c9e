package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	defaultGeminiModel   = "gemini-2.5-flash-image-preview"

	// cap on error bodies copied into ProviderError
	maxErrorBody = 4 << 10
)

// shared HTTP client for Gemini calls. The per-request deadline comes from the
// caller's context; the client timeout is only a backstop.
var geminiHTTPClient = &http.Client{
	Timeout: 120 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

type GeminiConfig struct {
	APIKey  string
	Model   string // e.g. "gemini-2.5-flash-image-preview"
	BaseURL string

	// requests per second and burst toward the provider; zero means 5/s, burst 5
	RateLimit rate.Limit
	Burst     int

	HTTPClient *http.Client
}

type GeminiClient struct {
	config     GeminiConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewGeminiClient(config GeminiConfig) *GeminiClient {
	if config.Model == "" {
		config.Model = defaultGeminiModel
	}

	if config.BaseURL == "" {
		config.BaseURL = defaultGeminiBaseURL
	}

	if config.RateLimit == 0 {
		config.RateLimit = 5
	}

	if config.Burst == 0 {
		config.Burst = 5
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = geminiHTTPClient
	}

	return &GeminiClient{
		config:     config,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(config.RateLimit, config.Burst),
	}
}

func (c *GeminiClient) Model() string {
	return c.config.Model
}

type generateContentRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string        `json:"text,omitempty"`
	InlineData *geminiInline `json:"inlineData,omitempty"`
}

type geminiInline struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

func (c *GeminiClient) Generate(ctx context.Context, req Request) (*Image, error) {
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("no image data provided")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, wrapContextErr(fmt.Errorf("rate limiter error: %w", err))
	}

	body := generateContentRequest{
		Contents: []geminiContent{
			{
				Role: "user",
				Parts: []geminiPart{
					{Text: req.Prompt},
					{InlineData: &geminiInline{
						MimeType: req.MIMEType,
						Data:     base64.StdEncoding.EncodeToString(req.Data),
					}},
				},
			},
		},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(c.config.BaseURL, "/"),
		url.PathEscape(c.config.Model),
		url.QueryEscape(c.config.APIKey),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, wrapContextErr(fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // best-effort error body
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(errBody)}
	}

	var genResp generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, wrapContextErr(fmt.Errorf("failed to decode response: %w", err))
	}

	return firstImage(&genResp)
}

// first inline image part of the first candidate that has one
func firstImage(resp *generateContentResponse) (*Image, error) {
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}

			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("failed to decode image data: %w", err)
			}

			mimeType := part.InlineData.MimeType
			if mimeType == "" {
				mimeType = http.DetectContentType(data)
			}

			return &Image{MIMEType: mimeType, Data: data}, nil
		}
	}

	return nil, ErrNoImage
}

func wrapContextErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrProviderTimeout, err)
	}

	return err
}
