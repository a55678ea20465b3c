package services

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/SAP-F-2025/reproducible-assessment/internal/cache"
	"github.com/SAP-F-2025/reproducible-assessment/internal/events"
	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/SAP-F-2025/reproducible-assessment/internal/repositories/memory"
	"github.com/SAP-F-2025/reproducible-assessment/internal/validator"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBankService() (QuestionBankService, *events.MockEventPublisher) {
	publisher := events.NewMockEventPublisher(testLogger())
	return NewQuestionBankService(memory.NewRepository(), nil, 0, publisher, validator.New(), testLogger()), publisher
}

func TestFreeze_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, publisher := newBankService()

	first, created, err := svc.Freeze(ctx, fixtureDrafts(), "first")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, first.ID, versionIDLength)
	assert.Equal(t, 6, first.QuestionCount)

	reordered := fixtureDrafts()
	slices.Reverse(reordered)
	second, created, err := svc.Freeze(ctx, reordered, "second description")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "first", second.Description)

	versions, err := svc.ListVersions(ctx)
	require.NoError(t, err)
	assert.Len(t, versions, 1)
	assert.Len(t, publisher.EventsOfType(events.EventQuestionBankFrozen), 1)
}

func TestFreeze_ContentChangeYieldsNewVersion(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBankService()

	first, _, err := svc.Freeze(ctx, fixtureDrafts(), "")
	require.NoError(t, err)

	changed := fixtureDrafts()
	changed[0].Stem += " "
	second, created, err := svc.Freeze(ctx, changed, "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, second.ID)

	latest, err := svc.LatestVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
}

func TestFreeze_ListsEveryOffendingDraft(t *testing.T) {
	svc, publisher := newBankService()

	drafts := fixtureDrafts()
	drafts[0].Options = drafts[0].Options[:1]
	drafts[2].CorrectAnswer = ""
	drafts[4].Stem = "  "

	_, _, err := svc.Freeze(context.Background(), drafts, "")
	require.Error(t, err)

	var freezeErr *FreezeValidationError
	require.True(t, errors.As(err, &freezeErr))
	assert.Equal(t, []string{"Q1", "Q3", "Q5"}, freezeErr.DraftIDs)
	assert.True(t, IsValidation(err))
	assert.Empty(t, publisher.GetPublishedEvents())
}

func TestFreeze_RejectsEmptySet(t *testing.T) {
	svc, _ := newBankService()

	_, _, err := svc.Freeze(context.Background(), nil, "")
	assert.True(t, IsValidation(err))

	_, err = svc.LatestVersion(context.Background())
	assert.ErrorIs(t, err, ErrNoVersion)
}

func TestGetQuestion_ReturnsSanitizedView(t *testing.T) {
	h := newHarness(t, nil)

	view, err := h.services.QuestionBank().GetQuestion(context.Background(), h.version.ID, "Q2")
	require.NoError(t, err)
	assert.Equal(t, "Q2", view.ID)
	assert.Equal(t, models.ShortAnswer, view.Type)

	data, err := json.Marshal(view)
	require.NoError(t, err)
	for _, field := range []string{"correct_answer", "tolerance", "reference_outline", "isomorphic_group"} {
		assert.NotContains(t, string(data), field)
	}
}

func TestGetQuestion_NotFound(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		versionID string
		id        string
		want      error
	}{
		{"unknown question", h.version.ID, "Q99", ErrQuestionNotFound},
		{"unknown version", "ffffffffffffffff", "Q1", ErrVersionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.services.QuestionBank().GetQuestion(ctx, tt.versionID, tt.id)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsNotFound(err))
		})
	}
}

func TestSnapshot_UsesCache(t *testing.T) {
	c := newCountingCache()
	h := newHarnessWithCache(t, nil, c)
	ctx := context.Background()

	first, err := h.services.QuestionBank().Snapshot(ctx, h.version.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Hits())

	second, err := h.services.QuestionBank().Snapshot(ctx, h.version.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Hits())
	assert.Len(t, second, len(first))

	ids := make([]string, 0, len(second))
	for _, q := range second {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{"Q1", "Q2", "Q3", "Q4", "Q5", "Q6"}, ids)
	assert.Equal(t, "5", second[1].CorrectAnswer)
}

func TestSnapshot_RedisCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := newHarnessWithCache(t, nil, cache.NewRedisCache(client, testLogger()))
	ctx := context.Background()
	key := snapshotKeyPrefix + h.version.ID

	fromRepo, err := h.services.QuestionBank().Snapshot(ctx, h.version.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists(key))
	assert.Equal(t, time.Hour, mr.TTL(key))

	fromCache, err := h.services.QuestionBank().Snapshot(ctx, h.version.ID)
	require.NoError(t, err)
	require.Len(t, fromCache, len(fromRepo))
	for i := range fromRepo {
		assert.Equal(t, fromRepo[i].ID, fromCache[i].ID)
		assert.Equal(t, fromRepo[i].CorrectAnswer, fromCache[i].CorrectAnswer)
		assert.Equal(t, fromRepo[i].Tolerance, fromCache[i].Tolerance)
		assert.Equal(t, fromRepo[i].IsomorphicGroup, fromCache[i].IsomorphicGroup)
		assert.Equal(t, []string(fromRepo[i].KnowledgePoints), []string(fromCache[i].KnowledgePoints))
	}

	// Grading reads the cached snapshot; tolerance and groups must survive the JSON round trip.
	paper := h.fixedPaper(t, "Q1", "Q2")
	report := h.submit(t, paper.PaperID, map[string]string{"Q1": "B", "Q2": "4.999"})
	assert.Equal(t, 2.0, report.TotalScore)
}

func TestComputeVersionID_IgnoresOrder(t *testing.T) {
	drafts := fixtureDrafts()
	a, err := ComputeVersionID(drafts)
	require.NoError(t, err)

	slices.Reverse(drafts)
	b, err := ComputeVersionID(drafts)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}
