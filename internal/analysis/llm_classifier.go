package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/SAP-F-2025/reproducible-assessment/internal/grading"
	"github.com/SAP-F-2025/reproducible-assessment/internal/llm"
	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
)

const maxKnowledgePoints = 5

// ErrMalformedOutput wraps every reason a model answer is rejected after decoding.
var ErrMalformedOutput = errors.New("malformed classifier output")

type modelOutput struct {
	ErrorType       string   `json:"error_type"`
	Explanation     string   `json:"explanation"`
	Hint            string   `json:"hint"`
	KnowledgePoints []string `json:"knowledge_points"`
}

// LLMClassifier asks a language model for the label and hint.
type LLMClassifier struct {
	provider    llm.Provider
	maxTokens   int
	temperature float64
}

func NewLLMClassifier(provider llm.Provider) *LLMClassifier {
	return &LLMClassifier{
		provider:    provider,
		maxTokens:   400,
		temperature: 0.1,
	}
}

func (c *LLMClassifier) Classify(ctx context.Context, in Input) (*Result, error) {
	resp, err := c.provider.Complete(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      buildPrompt(in),
		Schema:      analysisSchema,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to classify answer for %s: %w", in.QuestionID, err)
	}

	var out modelOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return checkOutput(out, in, resp.Content)
}

func checkOutput(out modelOutput, in Input, raw json.RawMessage) (*Result, error) {
	label := ErrorType(strings.TrimSpace(out.ErrorType))
	if !label.IsValid() {
		return nil, fmt.Errorf("%w: unknown error type %q", ErrMalformedOutput, out.ErrorType)
	}

	explanation := strings.TrimSpace(out.Explanation)
	if explanation == "" {
		return nil, fmt.Errorf("%w: empty explanation", ErrMalformedOutput)
	}

	hint := firstSentence(out.Hint)
	if hint == "" {
		return nil, fmt.Errorf("%w: empty hint", ErrMalformedOutput)
	}
	for _, term := range in.RevealTerms {
		if containsToken(hint, term) {
			return nil, fmt.Errorf("%w: hint reveals the answer", ErrMalformedOutput)
		}
	}

	points := make([]string, 0, len(out.KnowledgePoints))
	for _, p := range out.KnowledgePoints {
		if p = strings.TrimSpace(p); p != "" && len(points) < maxKnowledgePoints {
			points = append(points, p)
		}
	}

	return &Result{
		ErrorType:       label,
		Explanation:     explanation,
		Hint:            hint,
		HintLevel:       in.HintLevel,
		KnowledgePoints: points,
		Source:          models.AnalysisSourceLLM,
		Raw:             raw,
	}, nil
}

// firstSentence trims s and cuts it after the first sentence terminator followed by whitespace.
func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	for i, r := range runes {
		if !strings.ContainsRune(".!?", r) {
			if r == '。' {
				return string(runes[:i+1])
			}
			continue
		}
		if i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			return string(runes[:i+1])
		}
	}
	return s
}

// containsToken reports whether term occurs in text, after grading normalisation, with no
// letter or digit directly on either side.
func containsToken(text, term string) bool {
	t, needle := grading.Normalize(text), grading.Normalize(term)
	if needle == "" {
		return false
	}

	for offset := 0; offset < len(t); {
		idx := strings.Index(t[offset:], needle)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(needle)
		if !wordRuneBefore(t, start) && !wordRuneAfter(t, end) {
			return true
		}
		offset = start + 1
	}
	return false
}

func wordRuneBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r := []rune(s[:i])
	return isWordRune(r[len(r)-1])
}

func wordRuneAfter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	for _, r := range s[i:] {
		return isWordRune(r)
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
