package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	eventSource  = "reproducible-assessment"
	eventVersion = "1.0"
)

// EventType identifies the payload carried by an Event
type EventType string

const (
	EventQuestionBankFrozen EventType = "question_bank.frozen"
	EventPaperCreated       EventType = "paper.created"
	EventSubmissionGraded   EventType = "submission.graded"
	EventAnalysisFallback   EventType = "analysis.fallback_used"
	EventHintEscalated      EventType = "hint.escalated"
	EventPracticeCompleted  EventType = "practice.completed"
)

// Event is the envelope written to the broker
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type QuestionBankFrozenEvent struct {
	VersionID     string    `json:"version_id"`
	QuestionCount int       `json:"question_count"`
	Description   string    `json:"description,omitempty"`
	FrozenAt      time.Time `json:"frozen_at"`
}

type PaperCreatedEvent struct {
	PaperID       string `json:"paper_id"`
	StudentID     string `json:"student_id"`
	Mode          string `json:"mode"`
	Seed          *int64 `json:"seed,omitempty"`
	VersionID     string `json:"question_bank_version"`
	QuestionCount int    `json:"question_count"`
}

type SubmissionGradedEvent struct {
	SubmissionID   string   `json:"submission_id"`
	PaperID        string   `json:"paper_id"`
	StudentID      string   `json:"student_id"`
	TotalScore     float64  `json:"total_score"`
	TotalQuestions int      `json:"total_questions"`
	IncorrectItems int      `json:"incorrect_items"`
	RepeatedErrors []string `json:"repeated_errors,omitempty"`
}

type AnalysisFallbackEvent struct {
	ItemID     uint   `json:"item_id"`
	QuestionID string `json:"question_id"`
	HintLevel  int    `json:"hint_level"`
	Reason     string `json:"reason"`
}

type HintEscalatedEvent struct {
	ItemID    uint   `json:"item_id"`
	StudentID string `json:"student_id"`
	FromLevel int    `json:"from_level"`
	ToLevel   int    `json:"to_level"`
	Source    string `json:"source"`
}

type PracticeCompletedEvent struct {
	PracticeID       string `json:"practice_id"`
	StudentID        string `json:"student_id"`
	SubmissionItemID uint   `json:"original_submission_item_id"`
	QuestionID       string `json:"question_id"`
	IsCorrect        bool   `json:"is_correct"`
}

// NewEvent wraps data in an envelope with a fresh id and the current time.
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}
