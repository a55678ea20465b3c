package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, status int, content, finish string) (*httptest.Server, *map[string]any) {
	t.Helper()
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "slow down", "type": "rate_limit"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			}},
			"usage": map[string]any{"prompt_tokens": 30, "completion_tokens": 12, "total_tokens": 42},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestOpenAIProvider_Complete(t *testing.T) {
	srv, captured := chatServer(t, http.StatusOK, `{"label":"a"}`, "stop")
	p, err := NewOpenAIProvider(ProviderConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	resp, err := p.Complete(context.Background(), Request{System: "sys", Prompt: "hi", Schema: labelSchema, MaxTokens: 64})
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"a"}`, string(resp.Content))
	assert.Equal(t, 42, resp.Usage.Total())
	assert.Equal(t, StopEnd, resp.StopReason)

	format := (*captured)["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	assert.Len(t, (*captured)["messages"], 2)
}

func TestOpenAIProvider_SchemaViolation(t *testing.T) {
	srv, _ := chatServer(t, http.StatusOK, `{"label":"zzz"}`, "stop")
	p, err := NewOpenAIProvider(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), Request{Prompt: "hi", Schema: labelSchema})
	var invalid *InvalidOutputError
	assert.ErrorAs(t, err, &invalid)
}

func TestOpenAIProvider_Truncated(t *testing.T) {
	srv, _ := chatServer(t, http.StatusOK, `{"label":`, "length")
	p, err := NewOpenAIProvider(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), Request{Prompt: "hi", Schema: labelSchema})
	var truncated *TruncatedError
	assert.ErrorAs(t, err, &truncated)
}

func TestOpenAIProvider_RateLimited(t *testing.T) {
	srv, _ := chatServer(t, http.StatusTooManyRequests, "", "")
	p, err := NewOpenAIProvider(ProviderConfig{APIKey: "k", Model: "m", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), Request{Prompt: "hi"})
	var limited *RateLimitError
	assert.ErrorAs(t, err, &limited)
}

func TestDeepSeekProvider_UsesJSONObjectMode(t *testing.T) {
	srv, captured := chatServer(t, http.StatusOK, `{"label":"b"}`, "stop")
	p, err := NewDeepSeekProvider(ProviderConfig{APIKey: "k", Model: "deepseek-chat", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), Request{Prompt: "hi", Schema: labelSchema, MaxTokens: 100})
	require.NoError(t, err)

	format := (*captured)["response_format"].(map[string]any)
	assert.Equal(t, "json_object", format["type"])
	assert.EqualValues(t, 100, (*captured)["max_tokens"])
}

func TestNewProvider_RequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider(ProviderConfig{})
	assert.Error(t, err)
	_, err = NewAnthropicProvider(ProviderConfig{})
	assert.Error(t, err)
	_, err = NewGeminiProvider(context.Background(), ProviderConfig{})
	assert.Error(t, err)
}
