// Package llm wraps the OpenAI chat-completion API behind a small interface
// so generators can be tested with a scripted fake.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNotConfigured is returned when no API key is available.
var ErrNotConfigured = errors.New("llm: api key not configured")

// Request describes a single chat completion.
type Request struct {
	Model       string
	System      string
	User        string
	Temperature float32
	MaxTokens   int
	// JSONResponse asks the model to return a JSON object.
	JSONResponse bool
}

// Response carries the completion text and token usage for audit logging.
type Response struct {
	Content    string
	TokensUsed int
}

// Client issues chat completions.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// OpenAIClient implements Client against the OpenAI API.
type OpenAIClient struct {
	api *openai.Client
}

// NewOpenAIClient creates a client with the given API key and request timeout.
func NewOpenAIClient(apiKey string, timeout time.Duration) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIClient{api: openai.NewClientWithConfig(cfg)}, nil
}

// Complete issues one chat completion and returns the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
	}

	if req.JSONResponse {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.api.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return Response{}, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Response{}, errors.New("chat completion returned no choices")
	}

	return Response{
		Content:    resp.Choices[0].Message.Content,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
