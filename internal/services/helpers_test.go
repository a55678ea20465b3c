package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/reproducible-assessment/internal/analysis"
	"github.com/SAP-F-2025/reproducible-assessment/internal/cache"
	"github.com/SAP-F-2025/reproducible-assessment/internal/events"
	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/SAP-F-2025/reproducible-assessment/internal/repositories"
	"github.com/SAP-F-2025/reproducible-assessment/internal/repositories/memory"
	"github.com/SAP-F-2025/reproducible-assessment/internal/validator"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// go.opencensus.io (pulled in by the genai client) starts its view worker in init.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string    { return &s }
func f64Ptr(f float64) *float64 { return &f }
func i64Ptr(i int64) *int64     { return &i }

// fixtureDrafts is a small calculus bank. Q2/Q3 and Q4/Q5 are isomorphic pairs.
func fixtureDrafts() []models.QuestionDraft {
	return []models.QuestionDraft{
		{
			ID:               "Q1",
			Stem:             "What is the derivative of ln(x)?",
			Type:             models.MultipleChoice,
			Options:          []models.Option{{ID: "A", Text: "x"}, {ID: "B", Text: "1/x"}},
			CorrectAnswer:    "B",
			Topic:            "derivatives",
			Difficulty:       2,
			KnowledgePoints:  []string{"derivative of ln x"},
			ReferenceOutline: "Apply d/dx ln x = 1/x.",
		},
		{
			ID:               "Q2",
			Stem:             "Evaluate the integral of 1 dx from 0 to 5.",
			Type:             models.ShortAnswer,
			CorrectAnswer:    "5",
			Tolerance:        f64Ptr(0.01),
			Topic:            "integrals",
			Difficulty:       2,
			IsomorphicGroup:  strPtr("constant-integral"),
			KnowledgePoints:  []string{"definite integral of a constant"},
			ReferenceOutline: "Multiply the constant by the length of the interval.",
		},
		{
			ID:               "Q3",
			Stem:             "Evaluate the integral of 2 dx from 0 to 3.",
			Type:             models.ShortAnswer,
			CorrectAnswer:    "6",
			Tolerance:        f64Ptr(0.01),
			Topic:            "integrals",
			Difficulty:       2,
			IsomorphicGroup:  strPtr("constant-integral"),
			KnowledgePoints:  []string{"definite integral of a constant"},
			ReferenceOutline: "Multiply the constant by the length of the interval.",
		},
		{
			ID:               "Q4",
			Stem:             "Differentiate sin(x^2).",
			Type:             models.ShortAnswer,
			CorrectAnswer:    "2x cos(x^2)",
			Topic:            "derivatives",
			Difficulty:       3,
			IsomorphicGroup:  strPtr("chain-rule"),
			KnowledgePoints:  []string{"chain rule"},
			ReferenceOutline: "Differentiate the outer function, then multiply by the derivative of the inner function.",
		},
		{
			ID:               "Q5",
			Stem:             "Differentiate cos(3x).",
			Type:             models.ShortAnswer,
			CorrectAnswer:    "-3 sin(3x)",
			Topic:            "derivatives",
			Difficulty:       3,
			IsomorphicGroup:  strPtr("chain-rule"),
			KnowledgePoints:  []string{"chain rule"},
			ReferenceOutline: "Differentiate the outer function, then multiply by the derivative of the inner function.",
		},
		{
			ID:               "Q6",
			Stem:             "Differentiate x e^x.",
			Type:             models.ShortAnswer,
			CorrectAnswer:    "e^x + x e^x",
			Topic:            "derivatives",
			Difficulty:       4,
			KnowledgePoints:  []string{"product rule"},
			ReferenceOutline: "Use (uv)' = u'v + uv'.",
		},
	}
}

type harness struct {
	repo      repositories.Repository
	publisher *events.MockEventPublisher
	services  ServiceManager
	version   *models.QuestionBankVersion
}

func newHarness(t *testing.T, classifier analysis.Classifier) *harness {
	t.Helper()
	return newHarnessWithCache(t, classifier, cache.NewNoopCache())
}

func newHarnessWithCache(t *testing.T, classifier analysis.Classifier, c cache.CacheService) *harness {
	t.Helper()

	repo := memory.NewRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	sm := NewServiceManager(repo, validator.New(), testLogger(), Options{
		Cache:               c,
		SnapshotCacheTTL:    time.Hour,
		Publisher:           publisher,
		Classifier:          classifier,
		AnalysisTimeout:     200 * time.Millisecond,
		AnalysisConcurrency: 2,
	})

	version, created, err := sm.QuestionBank().Freeze(context.Background(), fixtureDrafts(), "fixture bank")
	require.NoError(t, err)
	require.True(t, created)

	return &harness{repo: repo, publisher: publisher, services: sm, version: version}
}

// fixedPaper creates a fixed paper for student s1.
func (h *harness) fixedPaper(t *testing.T, ids ...string) *PaperResponse {
	t.Helper()
	paper, err := h.services.Paper().CreateFixed(context.Background(), "s1", ids, h.version.ID)
	require.NoError(t, err)
	return paper
}

func (h *harness) submit(t *testing.T, paperID string, answers map[string]string) *SubmissionReport {
	t.Helper()
	report, err := h.services.Submission().Submit(context.Background(), paperID, &SubmitRequest{StudentID: "s1", Answers: answers})
	require.NoError(t, err)
	return report
}

type mockClassifier struct {
	mock.Mock
}

func (m *mockClassifier) Classify(ctx context.Context, in analysis.Input) (*analysis.Result, error) {
	args := m.Called(ctx, in)
	result, _ := args.Get(0).(*analysis.Result)
	return result, args.Error(1)
}

func forQuestion(id string) interface{} {
	return mock.MatchedBy(func(in analysis.Input) bool { return in.QuestionID == id })
}

func atLevel(level int) interface{} {
	return mock.MatchedBy(func(in analysis.Input) bool { return in.HintLevel == level })
}

func llmResult(errorType analysis.ErrorType, level int) *analysis.Result {
	raw, _ := json.Marshal(map[string]any{"error_type": errorType, "hint_level": level})
	return &analysis.Result{
		ErrorType:       errorType,
		Explanation:     "The answer mixes up the steps of the method.",
		Hint:            "Check which step of the method you applied first.",
		HintLevel:       level,
		KnowledgePoints: []string{"method"},
		Source:          models.AnalysisSourceLLM,
		Raw:             raw,
	}
}

// blockingClassifier waits for its context to end.
type blockingClassifier struct{}

func (blockingClassifier) Classify(ctx context.Context, _ analysis.Input) (*analysis.Result, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type panickingClassifier struct{}

func (panickingClassifier) Classify(context.Context, analysis.Input) (*analysis.Result, error) {
	panic("classifier exploded")
}

// countingCache is an in-memory CacheService that records hits.
type countingCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	hits    int
}

func newCountingCache() *countingCache {
	return &countingCache{entries: make(map[string][]byte)}
}

func (c *countingCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

func (c *countingCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	c.hits++
	return json.Unmarshal(data, dest)
}

func (c *countingCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *countingCache) DeletePattern(context.Context, string) error { return nil }

func (c *countingCache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}
