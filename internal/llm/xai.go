package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const xaiDefaultBaseURL = "https://api.x.ai/v1"

// xaiClient talks to the xAI chat completions endpoint, which follows
// the OpenAI wire format.
type xaiClient struct {
	model   string
	apiKey  string
	baseURL string
	client  *http.Client
}

func newXAIClient(model string, opts Options) *xaiClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = xaiDefaultBaseURL
	}
	return &xaiClient{
		model:   model,
		apiKey:  opts.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: opts.Timeout},
	}
}

func (c *xaiClient) Model() string { return "xai:" + c.model }

type xaiChatRequest struct {
	Model    string       `json:"model"`
	Messages []xaiMessage `json:"messages"`
}

type xaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type xaiChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *xaiClient) Synthesize(ctx context.Context, req Request) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: no xAI API key configured", ErrUnavailable)
	}

	payload, err := json.Marshal(xaiChatRequest{
		Model: c.model,
		Messages: []xaiMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(req)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: xAI returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var chat xaiChatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}
	if chat.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, chat.Error.Message)
	}
	if len(chat.Choices) == 0 || strings.TrimSpace(chat.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}
	return strings.TrimSpace(chat.Choices[0].Message.Content), nil
}
