package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"teachassist/internal/config"
)

// Error taxonomy surfaced to users as distinct messages. Each failure mode of
// the provider maps to exactly one sentinel.
var (
	ErrMissingAPIKey = errors.New("llm api key not configured")
	ErrInvalidAPIKey = errors.New("llm api key rejected")
	ErrQuotaExceeded = errors.New("llm quota exceeded")
	ErrEmptyResponse = errors.New("llm returned no choices")
	ErrRequestFailed = errors.New("llm request failed")
)

// Client talks to an OpenAI-compatible API: one model-listing endpoint used
// as a credential preflight and one chat-completion endpoint.
type Client interface {
	ValidateKey(ctx context.Context) error
	ChatCompletion(ctx context.Context, messages []Message, temperature float64) (string, error)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

type httpClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *log.Logger
}

func NewClient(cfg config.OpenAIConfig, logger *log.Logger) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &httpClient{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   strings.TrimSpace(cfg.Model),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

var _ Client = (*httpClient)(nil)

// ValidateKey is the preflight credential check. Generation never proceeds
// past it with a missing or rejected key.
func (c *httpClient) ValidateKey(ctx context.Context) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.apiError(resp)
	}
	return nil
}

func (c *httpClient) ChatCompletion(ctx context.Context, messages []Message, temperature float64) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	body := chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.apiError(resp)
	}

	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return out.Choices[0].Message.Content, nil
}

func (c *httpClient) apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var apiErr apiErrorResponse
	_ = json.Unmarshal(raw, &apiErr)

	if c.logger != nil {
		c.logger.Printf("[LLM] API error | status=%d code=%s message=%q", resp.StatusCode, apiErr.Error.Code, apiErr.Error.Message)
	}

	if apiErr.Error.Code == "insufficient_quota" || apiErr.Error.Type == "insufficient_quota" {
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, apiErr.Error.Message)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %s", ErrInvalidAPIKey, apiErr.Error.Message)
	}
	if apiErr.Error.Message != "" {
		return fmt.Errorf("%w: status=%d: %s", ErrRequestFailed, resp.StatusCode, apiErr.Error.Message)
	}
	return fmt.Errorf("%w: status=%d", ErrRequestFailed, resp.StatusCode)
}
