package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/swasthyaid/health-api/pkg/circuitbreaker"
	"github.com/swasthyaid/health-api/pkg/errors"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Config holds upstream AI API settings.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client is a thin HTTP client for the generative AI API. Quota and billing
// failures (429/402) are surfaced to callers with their upstream status.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	cb         *circuitbreaker.CircuitBreaker
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cb: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "gemini",
			MaxRequests: 10,
			Interval:    30 * time.Second,
			Timeout:     15 * time.Second,
		}),
	}
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateRequest struct {
	Contents []struct {
		Parts []part `json:"parts"`
	} `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateText sends a plain text prompt and returns the model's reply.
func (c *Client) GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return c.generate(ctx, []part{{Text: prompt}}, maxTokens)
}

// GenerateFromDocument sends a prompt together with an inline document (e.g.
// a PDF) for extraction or summarization.
func (c *Client) GenerateFromDocument(ctx context.Context, prompt, mimeType string, document []byte, maxTokens int) (string, error) {
	parts := []part{
		{Text: prompt},
		{InlineData: &inlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(document),
		}},
	}
	return c.generate(ctx, parts, maxTokens)
}

func (c *Client) generate(ctx context.Context, parts []part, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = 2048
	}

	reqBody := generateRequest{
		GenerationConfig: generationConfig{
			Temperature:     0.3,
			TopK:            32,
			TopP:            0.95,
			MaxOutputTokens: maxTokens,
		},
	}
	reqBody.Contents = append(reqBody.Contents, struct {
		Parts []part `json:"parts"`
	}{Parts: parts})

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	var result string
	err = c.cb.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return errors.Upstream("AI service unavailable", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return errors.Upstream("failed to read AI response", err)
		}

		switch resp.StatusCode {
		case http.StatusOK:
		case http.StatusTooManyRequests:
			return errors.UpstreamStatus(http.StatusTooManyRequests,
				"rate limits exceeded, please try again later", nil)
		case http.StatusPaymentRequired:
			return errors.UpstreamStatus(http.StatusPaymentRequired,
				"payment required for AI service", nil)
		default:
			return errors.Upstream(
				fmt.Sprintf("AI service error: status %d", resp.StatusCode), nil)
		}

		var genResp generateResponse
		if err := json.Unmarshal(body, &genResp); err != nil {
			return errors.Upstream("failed to decode AI response", err)
		}

		if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
			return errors.Upstream("empty AI response", nil)
		}

		result = genResp.Candidates[0].Content.Parts[0].Text
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}
