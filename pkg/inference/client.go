package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ysarda/symboval/pkg/types"
)

// DefaultBaseURL is the OpenRouter API root
const DefaultBaseURL = "https://openrouter.ai/api/v1"

const (
	defaultSiteURL = "https://github.com/ysarda/symboval"
	defaultAppName = "Symboval"

	defaultModel     = "anthropic/claude-3.5-sonnet"
	defaultMaxTokens = 1024
	defaultTopP      = 1.0
)

// ErrUnexpectedFormat is returned when a 2xx response body does not have the
// expected chat-completion shape.
var ErrUnexpectedFormat = errors.New("unexpected response format")

// APIError carries the status code and raw error body of a non-2xx response
type APIError struct {
	StatusCode int
	Body       string
}

// Error formats the API failure
func (e *APIError) Error() string {
	return fmt.Sprintf("openrouter api error: %d - %s", e.StatusCode, e.Body)
}

// ModelResponse is one completion from the remote model
type ModelResponse struct {
	Model            string          `json:"model"`
	Response         string          `json:"response"`
	PromptTokens     int             `json:"prompt_tokens"`
	CompletionTokens int             `json:"completion_tokens"`
	TotalTokens      int             `json:"total_tokens"`
	Latency          time.Duration   `json:"latency"`
	Raw              json.RawMessage `json:"raw_response,omitempty"`
}

// ModelInfo describes one model advertised by the endpoint
type ModelInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Context int    `json:"context_length"`
}

// CompletionOptions are the sampling parameters for a completion request.
// Zero-valued Model, MaxTokens, and TopP fall back to defaults; Temperature
// is sent verbatim so an explicit 0.0 reaches the endpoint. Extra entries are
// passed through at the top level of the request payload.
type CompletionOptions struct {
	Model        string
	Temperature  float64
	MaxTokens    int
	TopP         float64
	SystemPrompt string
	Extra        map[string]interface{}
}

// Client talks to an OpenRouter-compatible chat-completions endpoint over
// HTTPS JSON with bearer-token authorization and the two OpenRouter
// attribution headers.
type Client struct {
	baseURL    string
	apiKey     string
	siteURL    string
	appName    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an OpenRouter client. siteURL and appName populate the
// HTTP-Referer and X-Title attribution headers; empty values use the project
// defaults.
func NewClient(apiKey, siteURL, appName string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("openrouter api key is required")
	}
	if siteURL == "" {
		siteURL = defaultSiteURL
	}
	if appName == "" {
		appName = defaultAppName
	}
	return &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		siteURL: siteURL,
		appName: appName,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: slog.Default().With("component", "inference"),
	}, nil
}

// SetBaseURL points the client at a different endpoint root
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// chatCompletionResponse is the wire shape of a successful completion
type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Index        int           `json:"index"`
		Message      types.Message `json:"message"`
		FinishReason string        `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete sends one chat-completion request and returns the model response
func (c *Client) Complete(ctx context.Context, prompt string, opts CompletionOptions) (*ModelResponse, error) {
	model := opts.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	topP := opts.TopP
	if topP <= 0 {
		topP = defaultTopP
	}

	messages := make([]types.Message, 0, 2)
	if opts.SystemPrompt != "" {
		messages = append(messages, types.Message{Role: "system", Content: opts.SystemPrompt})
	}
	messages = append(messages, types.Message{Role: "user", Content: prompt})

	payload := map[string]interface{}{
		"model":       model,
		"messages":    messages,
		"temperature": opts.Temperature,
		"max_tokens":  maxTokens,
		"top_p":       topP,
	}
	for k, v := range opts.Extra {
		payload[k] = v
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", c.siteURL)
	req.Header.Set("X-Title", c.appName)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	latency := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(raw, &chatResp); err != nil {
		return nil, fmt.Errorf("parse openrouter response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrUnexpectedFormat)
	}

	respModel := chatResp.Model
	if respModel == "" {
		respModel = model
	}
	return &ModelResponse{
		Model:            respModel,
		Response:         chatResp.Choices[0].Message.Content,
		PromptTokens:     chatResp.Usage.PromptTokens,
		CompletionTokens: chatResp.Usage.CompletionTokens,
		TotalTokens:      chatResp.Usage.TotalTokens,
		Latency:          latency,
		Raw:              raw,
	}, nil
}

// BatchComplete sends one request per prompt sequentially with a fixed delay
// between consecutive requests. A failed request yields a synthetic empty
// response carrying the error instead of aborting the batch.
func (c *Client) BatchComplete(ctx context.Context, prompts []string, opts CompletionOptions, delay time.Duration) []*ModelResponse {
	responses := make([]*ModelResponse, 0, len(prompts))
	for i, prompt := range prompts {
		resp, err := c.Complete(ctx, prompt, opts)
		if err != nil {
			c.logger.Warn("prompt failed", "index", i, "total", len(prompts), "error", err)
			errBody, _ := json.Marshal(map[string]string{"error": err.Error()})
			resp = &ModelResponse{Model: opts.Model, Raw: errBody}
		}
		responses = append(responses, resp)

		if i < len(prompts)-1 && delay > 0 {
			select {
			case <-ctx.Done():
				return responses
			case <-time.After(delay):
			}
		}
	}
	return responses
}

// modelsResponse is the wire shape of the model listing
type modelsResponse struct {
	Data []ModelInfo `json:"data"`
}

// ListModels fetches the models available on the endpoint
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var models modelsResponse
	if err := json.Unmarshal(raw, &models); err != nil {
		return nil, fmt.Errorf("parse models response: %w", err)
	}
	return models.Data, nil
}
