// Package llm talks to an OpenAI-compatible chat-completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrNotConfigured = errors.New("model api key not configured")
	ErrTransport     = errors.New("model transport failure")
	ErrEmptyResponse = errors.New("model returned an empty response")
)

type Options struct {
	BaseURL     string
	APIKey      string
	Model       string // structured (JSON) requests
	RecipeModel string // free-text requests; falls back to Model
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Client sends one request per call. It never retries or streams and does
// not look inside the returned text.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	recipeModel string
	timeout     time.Duration
	client      *http.Client
}

func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	recipeModel := opts.RecipeModel
	if recipeModel == "" {
		recipeModel = opts.Model
	}
	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		apiKey:      opts.APIKey,
		model:       opts.Model,
		recipeModel: recipeModel,
		timeout:     opts.Timeout,
		client:      hc,
	}
}

func (c *Client) Configured() bool { return c.apiKey != "" }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Complete sends the system and user instructions and returns the raw text
// of the first choice. structured asks the model for a single JSON object.
func (c *Client) Complete(ctx context.Context, system, user string, structured bool) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	body := chatRequest{
		Model: c.recipeModel,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	if structured {
		body.Model = c.model
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrTransport, resp.StatusCode, data)
	}

	var result chatResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return result.Choices[0].Message.Content, nil
}
