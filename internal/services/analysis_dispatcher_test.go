package services

import (
	"context"
	"errors"
	"testing"

	"github.com/SAP-F-2025/reproducible-assessment/internal/analysis"
	"github.com/SAP-F-2025/reproducible-assessment/internal/events"
	"github.com/SAP-F-2025/reproducible-assessment/internal/llm"
	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func question(t *testing.T, h *harness, id string) *models.Question {
	t.Helper()
	q, err := h.repo.QuestionBank().GetQuestion(context.Background(), h.version.ID, id)
	require.NoError(t, err)
	return q
}

func TestAnalyze_FallsBackOnEveryFailure(t *testing.T) {
	tests := []struct {
		name       string
		classifier analysis.Classifier
	}{
		{"disabled", nil},
		{"unreachable", func() analysis.Classifier {
			m := &mockClassifier{}
			m.On("Classify", mock.Anything, mock.Anything).Return(nil, &llm.UnavailableError{Err: errors.New("connection refused")})
			return m
		}()},
		{"malformed output", func() analysis.Classifier {
			m := &mockClassifier{}
			m.On("Classify", mock.Anything, mock.Anything).Return(nil, analysis.ErrMalformedOutput)
			return m
		}()},
		{"timeout", blockingClassifier{}},
		{"panic", panickingClassifier{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.classifier)

			a := h.services.Analysis().Analyze(context.Background(), question(t, h, "Q4"), "cos(x^2)", 1)
			require.NotNil(t, a)
			assert.Equal(t, models.AnalysisSourceFallback, a.Source)
			assert.Equal(t, string(analysis.ProceduralError), a.ErrorType)
			assert.NotEmpty(t, a.Explanation)
			assert.NotEmpty(t, a.Hint)
			assert.Equal(t, 1, a.HintLevel)
		})
	}
}

func TestAnalyze_UsesClassifierResult(t *testing.T) {
	m := &mockClassifier{}
	m.On("Classify", mock.Anything, atLevel(2)).Return(llmResult(analysis.ComputationalError, 2), nil).Once()
	h := newHarness(t, m)

	a := h.services.Analysis().Analyze(context.Background(), question(t, h, "Q2"), "4", 2)
	assert.Equal(t, models.AnalysisSourceLLM, a.Source)
	assert.Equal(t, string(analysis.ComputationalError), a.ErrorType)
	assert.Equal(t, 2, a.HintLevel)
	m.AssertExpectations(t)
}

func TestAnalyze_ClampsLevel(t *testing.T) {
	h := newHarness(t, nil)
	q := question(t, h, "Q2")

	assert.Equal(t, 1, h.services.Analysis().Analyze(context.Background(), q, "4", 0).HintLevel)
	assert.Equal(t, 3, h.services.Analysis().Analyze(context.Background(), q, "4", 9).HintLevel)
}

// wrongItem submits a wrong answer to Q2 and returns its item id.
func wrongItem(t *testing.T, h *harness) uint {
	t.Helper()
	paper := h.fixedPaper(t, "Q1", "Q2")
	report := h.submit(t, paper.PaperID, map[string]string{"Q1": "B", "Q2": "4"})
	require.False(t, report.Items[1].IsCorrect)
	return report.Items[1].ItemID
}

func TestUpgradeHint_IsMonotonic(t *testing.T) {
	m := &mockClassifier{}
	m.On("Classify", mock.Anything, atLevel(1)).Return(llmResult(analysis.ComputationalError, 1), nil)
	m.On("Classify", mock.Anything, atLevel(2)).Return(llmResult(analysis.ComputationalError, 2), nil)
	m.On("Classify", mock.Anything, atLevel(3)).Return(llmResult(analysis.ComputationalError, 3), nil)
	h := newHarness(t, m)
	ctx := context.Background()
	itemID := wrongItem(t, h)

	a, err := h.services.Analysis().UpgradeHint(ctx, itemID, "s1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, a.HintLevel)

	again, err := h.services.Analysis().UpgradeHint(ctx, itemID, "s1", 2)
	require.NoError(t, err)
	assert.Equal(t, a.Hint, again.Hint)
	assert.Equal(t, 2, again.HintLevel)

	_, err = h.services.Analysis().UpgradeHint(ctx, itemID, "s1", 1)
	var escalation *InvalidEscalationError
	require.True(t, errors.As(err, &escalation))
	assert.Equal(t, 2, escalation.CurrentLevel)

	a, err = h.services.Analysis().UpgradeHint(ctx, itemID, "s1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, a.HintLevel)

	_, err = h.services.Analysis().UpgradeHint(ctx, itemID, "s1", 4)
	assert.True(t, errors.As(err, &escalation))

	item, err := h.repo.Submission().GetItem(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, 3, *item.HintLevel)
	assert.False(t, item.IsCorrect)
	assert.Zero(t, item.Score)

	assert.Len(t, h.publisher.EventsOfType(events.EventHintEscalated), 2)
	m.AssertNumberOfCalls(t, "Classify", 3)
}

func TestUpgradeHint_Rejections(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	itemID := wrongItem(t, h)

	t.Run("other student", func(t *testing.T) {
		_, err := h.services.Analysis().UpgradeHint(ctx, itemID, "s2", 2)
		assert.True(t, IsPermission(err))
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := h.services.Analysis().UpgradeHint(ctx, 9999, "s1", 2)
		assert.ErrorIs(t, err, ErrSubmissionItemNotFound)
	})

	t.Run("correct item", func(t *testing.T) {
		_, err := h.services.Analysis().UpgradeHint(ctx, itemID-1, "s1", 2)
		assert.True(t, IsBusinessRule(err))
	})

	t.Run("level zero", func(t *testing.T) {
		_, err := h.services.Analysis().UpgradeHint(ctx, itemID, "s1", 0)
		var escalation *InvalidEscalationError
		assert.True(t, errors.As(err, &escalation))
	})
}

func TestAnalyzeItem_PublishesFallbackEvent(t *testing.T) {
	m := &mockClassifier{}
	m.On("Classify", mock.Anything, mock.Anything).Return(nil, &llm.RateLimitError{Err: errors.New("slow down")})
	h := newHarness(t, m)

	wrongItem(t, h)

	fallbacks := h.publisher.EventsOfType(events.EventAnalysisFallback)
	require.Len(t, fallbacks, 1)
	payload, ok := fallbacks[0].Data.(events.AnalysisFallbackEvent)
	require.True(t, ok)
	assert.Equal(t, "Q2", payload.QuestionID)
	assert.NotEmpty(t, payload.Reason)
}

func TestAnalyzeItem_KeepsFirstStoredAnalysis(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	itemID := wrongItem(t, h)

	item, err := h.repo.Submission().GetItem(ctx, itemID)
	require.NoError(t, err)
	stored := item.Analysis()
	require.NotNil(t, stored)

	again, err := h.services.Analysis().AnalyzeItem(ctx, item, question(t, h, "Q2"))
	require.NoError(t, err)
	assert.Equal(t, stored.AnalyzedAt, again.AnalyzedAt)
}
