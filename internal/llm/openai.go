package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const (
	deepSeekBaseURL   = "https://api.deepseek.com/v1"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
)

// OpenAIProvider serves OpenAI and every OpenAI-compatible endpoint (DeepSeek, OpenRouter).
type OpenAIProvider struct {
	client *openai.Client
	model  string
	// jsonObjectOnly endpoints accept response_format=json_object but not json_schema.
	jsonObjectOnly bool
}

func NewOpenAIProvider(cfg ProviderConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}
	return newOpenAICompatible(cfg, "", false), nil
}

// NewDeepSeekProvider targets the DeepSeek chat API, which only supports JSON object mode.
func NewDeepSeekProvider(cfg ProviderConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("deepseek api key is required")
	}
	return newOpenAICompatible(cfg, deepSeekBaseURL, true), nil
}

func NewOpenRouterProvider(cfg ProviderConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter api key is required")
	}
	return newOpenAICompatible(cfg, openRouterBaseURL, false), nil
}

func newOpenAICompatible(cfg ProviderConfig, defaultBaseURL string, jsonObjectOnly bool) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	switch {
	case cfg.BaseURL != "":
		clientCfg.BaseURL = cfg.BaseURL
	case defaultBaseURL != "":
		clientCfg.BaseURL = defaultBaseURL
	}
	return &OpenAIProvider{
		client:         openai.NewClientWithConfig(clientCfg),
		model:          cfg.Model,
		jsonObjectOnly: jsonObjectOnly,
	}
}

func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	chat := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    openAIMessages(req),
		Temperature: float32(req.Temperature),
	}
	if p.jsonObjectOnly {
		chat.MaxTokens = req.MaxTokens
	} else {
		chat.MaxCompletionTokens = req.MaxTokens
	}

	if req.Schema != nil {
		if p.jsonObjectOnly {
			chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			}
		} else {
			definition, err := json.Marshal(req.Schema.Definition)
			if err != nil {
				return nil, fmt.Errorf("failed to encode schema %s: %w", req.Schema.Name, err)
			}
			chat.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
				JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
					Name:        req.Schema.Name,
					Description: req.Schema.Description,
					Schema:      json.RawMessage(definition),
					Strict:      true,
				},
			}
		}
	}

	out, err := p.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		return nil, classifyOpenAIError(err)
	}
	if len(out.Choices) == 0 {
		return nil, &InvalidOutputError{Err: errors.New("response has no choices")}
	}

	choice := out.Choices[0]
	content := json.RawMessage(StripCodeFence(choice.Message.Content))
	if choice.FinishReason == openai.FinishReasonLength {
		return nil, &TruncatedError{Content: content}
	}
	if err := CheckContent(req.Schema, content); err != nil {
		return nil, err
	}

	return &Response{
		Content:    content,
		Model:      out.Model,
		StopReason: StopEnd,
		Usage: Usage{
			InputTokens:  out.Usage.PromptTokens,
			OutputTokens: out.Usage.CompletionTokens,
		},
	}, nil
}

func (p *OpenAIProvider) Model() string { return p.model }

func openAIMessages(req Request) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	return append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})
}

func classifyOpenAIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &RateLimitError{Err: err}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &RateLimitError{Err: err}
	}
	return &UnavailableError{Err: err}
}
