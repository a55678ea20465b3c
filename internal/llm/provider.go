// Package llm talks to hosted language models. Providers share one request shape and return
// JSON content that has already been checked against the requested schema.
package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one completion request to a model.
type Provider interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	// Model reports the model identifier requests are sent to.
	Model() string
}

type Request struct {
	System      string
	Prompt      string
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Schema is a named JSON Schema document the response must satisfy.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	Content    json.RawMessage
	Model      string
	StopReason StopReason
	Usage      Usage
}

type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total is the sum of input and output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}
