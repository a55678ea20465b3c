package analysis

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackClassifier(t *testing.T) {
	c := NewFallbackClassifier()

	for level := 1; level <= 3; level++ {
		got, err := c.Classify(context.Background(), NewInput(chainRule(), "", level))
		require.NoError(t, err)

		assert.Equal(t, ProceduralError, got.ErrorType)
		assert.Equal(t, level, got.HintLevel)
		assert.NotEmpty(t, got.Explanation)
		assert.NotEmpty(t, got.Hint)
		assert.Equal(t, []string{"chain rule", "trigonometric derivatives"}, got.KnowledgePoints)
		assert.Equal(t, models.AnalysisSourceFallback, got.Source)
		assert.NotEmpty(t, got.Raw)
	}
}

func TestFallback_HintsDifferPerLevel(t *testing.T) {
	in := NewInput(chainRule(), "cos(x^2)", 1)
	h1 := Fallback(in).Hint
	in.HintLevel = 2
	h2 := Fallback(in).Hint
	in.HintLevel = 3
	h3 := Fallback(in).Hint

	assert.NotEqual(t, h1, h2)
	assert.NotEqual(t, h2, h3)
	assert.Contains(t, h1, "chain rule")
	assert.Contains(t, h2, "Chain rule: derivative of sin(u) is cos(u) * du/dx")
}

func TestFallback_IsDeterministic(t *testing.T) {
	in := NewInput(chainRule(), "x", 2)
	first := Fallback(in)
	for range 20 {
		assert.Equal(t, first, Fallback(in))
	}
}

func TestFallback_WithoutKnowledgePoints(t *testing.T) {
	q := &models.Question{ID: "Q9", Type: models.ShortAnswer, CorrectAnswer: "e", Topic: "limits"}
	got := Fallback(NewInput(q, "", 3))
	assert.Equal(t, []string{"limits"}, got.KnowledgePoints)
	assert.Contains(t, got.Hint, "limits")

	bare := Fallback(Input{HintLevel: 9})
	assert.Equal(t, 3, bare.HintLevel)
	assert.Equal(t, []string{"the relevant concept"}, bare.KnowledgePoints)
}
