package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{Attempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestRetry(t *testing.T) {
	ok := Scripted{Content: json.RawMessage(`{"ok":true}`)}
	down := Scripted{Err: &UnavailableError{Err: errors.New("connection refused")}}
	invalid := Scripted{Err: &InvalidOutputError{Err: errors.New("bad json")}}

	tests := []struct {
		name      string
		attempts  int
		script    []Scripted
		wantErr   bool
		wantCalls int
	}{
		{"first attempt succeeds", 2, []Scripted{ok}, false, 1},
		{"transient then success", 2, []Scripted{down, ok}, false, 2},
		{"all attempts fail", 2, []Scripted{down, down, ok}, true, 2},
		{"invalid output retried once", 3, []Scripted{invalid, invalid, ok}, true, 2},
		{"truncation is not retried", 3, []Scripted{{Err: &TruncatedError{}}, ok}, true, 1},
		{"single attempt", 1, []Scripted{down, ok}, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.script...)
			resp, err := WithRetry(mock, fastRetry(tt.attempts)).Complete(context.Background(), Request{})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
			}
			assert.Equal(t, tt.wantCalls, mock.Calls())
		})
	}
}

func TestRetry_StopsOnCancelledContext(t *testing.T) {
	mock := NewMockProvider(Scripted{Err: &UnavailableError{}}, Scripted{Content: json.RawMessage(`{}`)})
	p := WithRetry(mock, RetryConfig{Attempts: 2, BaseDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := p.Complete(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.Calls())
}

func TestRetry_HonoursRetryAfter(t *testing.T) {
	r := &retryProvider{cfg: RetryConfig{BaseDelay: time.Second}}
	assert.Equal(t, 3*time.Second, r.delay(0, &RateLimitError{RetryAfter: 3 * time.Second}))
}

func TestRetry_DelayIsCapped(t *testing.T) {
	r := &retryProvider{cfg: RetryConfig{BaseDelay: time.Second, MaxDelay: 2 * time.Second}}
	d := r.delay(10, errors.New("boom"))
	assert.LessOrEqual(t, d, 2*time.Second+2*time.Second/5)
	assert.GreaterOrEqual(t, d, 2*time.Second-2*time.Second/5)
}
