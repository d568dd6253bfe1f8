// Package ai is the model call boundary: chat with native tool calling over
// an OpenAI-compatible API.
package ai

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"time"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// Message represents a chat message.
type Message struct {
	Role    string // system, user, assistant
	Content string
}

// ToolDescriptor describes one callable tool to the model. Parameters is a
// JSON Schema document.
type ToolDescriptor struct {
	Name        string
	Description string
	Parameters  string
}

// FunctionCall is the name/arguments pair inside a tool call.
type FunctionCall struct {
	Name      string
	Arguments string
}

// ToolCall is one tool invocation requested by the model.
type ToolCall struct {
	ID       string
	Type     string
	Function FunctionCall
}

// ChatResponse is the model's reply: free text, zero or more tool calls, and
// the provider's finish reason.
type ChatResponse struct {
	Content      string
	ToolCalls    []ToolCall
	FinishReason string
}

// Done reports whether the model finished normally. Anything else (length,
// content_filter, ...) is an unexpected stop the caller should surface.
func (r *ChatResponse) Done() bool {
	return r.FinishReason == "" || r.FinishReason == "stop" || r.FinishReason == "tool_calls"
}

// LLMService is the LLM service interface.
type LLMService interface {
	// Chat performs synchronous chat without tools.
	Chat(ctx context.Context, messages []Message) (string, error)

	// ChatWithTools performs chat with native tool calling enabled.
	ChatWithTools(ctx context.Context, messages []Message, tools []ToolDescriptor) (*ChatResponse, error)
}

// Config holds the LLM provider configuration.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxRetries  int
	Timeout     time.Duration
	Temperature float32
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "https://api.openai.com/v1",
		Model:      "gpt-4o-mini",
		MaxRetries: 3,
		Timeout:    60 * time.Second,
	}
}

type llmService struct {
	client *openai.Client
	config *Config
}

// NewLLMService creates an LLMService over an OpenAI-compatible endpoint.
func NewLLMService(cfg *Config) (LLMService, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.APIKey == "" {
		return nil, errors.New("LLM API key is required")
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &llmService{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

func (s *llmService) Chat(ctx context.Context, messages []Message) (string, error) {
	var result string
	err := s.doWithRetry(ctx, func() error {
		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       s.config.Model,
			Messages:    convertMessages(messages),
			Temperature: s.config.Temperature,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("empty chat response")
		}
		result = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion failed")
	}
	return result, nil
}

func (s *llmService) ChatWithTools(ctx context.Context, messages []Message, tools []ToolDescriptor) (*ChatResponse, error) {
	openaiTools := make([]openai.Tool, len(tools))
	for i, t := range tools {
		openaiTools[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  json.RawMessage(t.Parameters),
			},
		}
	}

	var result *ChatResponse
	err := s.doWithRetry(ctx, func() error {
		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       s.config.Model,
			Messages:    convertMessages(messages),
			Tools:       openaiTools,
			Temperature: s.config.Temperature,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return errors.New("empty chat response")
		}
		choice := resp.Choices[0]
		out := &ChatResponse{
			Content:      choice.Message.Content,
			FinishReason: string(choice.FinishReason),
		}
		for _, tc := range choice.Message.ToolCalls {
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:   tc.ID,
				Type: string(tc.Type),
				Function: FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			})
		}
		result = out
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "tool chat completion failed")
	}
	return result, nil
}

func convertMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		}
	}
	return out
}

// doWithRetry executes a function with exponential backoff retry.
func (s *llmService) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < s.config.MaxRetries; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			if attempt < s.config.MaxRetries-1 {
				waitTime := time.Duration(math.Pow(2, float64(attempt))) * time.Second
				slog.Debug("LLM request failed, retrying",
					"attempt", attempt+1,
					"wait_time", waitTime,
					"error", err)
				select {
				case <-time.After(waitTime):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
	return lastErr
}
