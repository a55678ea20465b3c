package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

var labelSchema = &Schema{
	Name: "test-label",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"label": map[string]any{"type": "string", "enum": []string{"a", "b"}},
			"score": map[string]any{"type": "integer"},
		},
		"required":             []string{"label"},
		"additionalProperties": false,
	},
}

func TestCheckContent(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		content string
		wantErr bool
	}{
		{"nil schema accepts anything", nil, `not json`, false},
		{"valid", labelSchema, `{"label":"a","score":2}`, false},
		{"malformed json", labelSchema, `{"label":`, true},
		{"label outside enum", labelSchema, `{"label":"c"}`, true},
		{"missing required", labelSchema, `{"score":1}`, true},
		{"extra property", labelSchema, `{"label":"b","extra":true}`, true},
		{"wrong type", labelSchema, `{"label":"a","score":"two"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckContent(tt.schema, json.RawMessage(tt.content))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var invalid *InvalidOutputError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct{ in, want string }{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```  ", `{"a":1}`},
		{"  {\"a\":1}\n", `{"a":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripCodeFence(tt.in))
	}
}
