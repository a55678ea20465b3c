package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewEvent(t *testing.T) {
	e := NewEvent(EventPaperCreated, PaperCreatedEvent{PaperID: "p1"})

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, EventPaperCreated, e.Type)
	assert.Equal(t, "reproducible-assessment", e.Source)
	assert.Equal(t, "1.0", e.Version)
	assert.WithinDuration(t, time.Now(), e.Timestamp, time.Minute)
	assert.NotEqual(t, e.ID, NewEvent(EventPaperCreated, nil).ID)
}

func TestChannelEventPublisher_RoundTrip(t *testing.T) {
	p := NewChannelEventPublisher(PublisherConfig{TopicName: "assessment-events", Logger: testLogger()})
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received, err := p.Subscribe(ctx)
	require.NoError(t, err)

	sent := NewEvent(EventSubmissionGraded, SubmissionGradedEvent{SubmissionID: "s1", TotalScore: 2, TotalQuestions: 2})
	require.NoError(t, p.Publish(ctx, sent))

	select {
	case got := <-received:
		assert.Equal(t, sent.ID, got.ID)
		assert.Equal(t, EventSubmissionGraded, got.Type)
		data, ok := got.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "s1", data["submission_id"])
	case <-ctx.Done():
		t.Fatal("event not delivered")
	}
}

func TestMockEventPublisher_Concurrent(t *testing.T) {
	m := NewMockEventPublisher(testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Publish(context.Background(), NewEvent(EventAnalysisFallback, AnalysisFallbackEvent{}))
		}()
	}
	wg.Wait()

	assert.Len(t, m.GetPublishedEvents(), 20)
	assert.Len(t, m.EventsOfType(EventAnalysisFallback), 20)
	assert.Empty(t, m.EventsOfType(EventPaperCreated))

	m.ClearEvents()
	assert.Empty(t, m.GetPublishedEvents())
}

func TestPublishBestEffort_SwallowsErrors(t *testing.T) {
	m := NewMockEventPublisher(testLogger())
	m.Err = errors.New("broker down")

	assert.NotPanics(t, func() {
		PublishBestEffort(context.Background(), m, testLogger(), NewEvent(EventHintEscalated, nil))
		PublishBestEffort(context.Background(), nil, testLogger(), NewEvent(EventHintEscalated, nil))
	})
	assert.Empty(t, m.GetPublishedEvents())
}
