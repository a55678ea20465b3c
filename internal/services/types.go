package services

import (
	"time"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
)

// ===== QUESTION BANK DTOs =====

type FreezeRequest struct {
	Drafts      []models.QuestionDraft `json:"drafts"`
	Description string                 `json:"description" validate:"max=500"`
}

// FreezeResult reports the frozen version; Created is false when the content was already frozen.
type FreezeResult struct {
	Version *models.QuestionBankVersion `json:"version"`
	Created bool                        `json:"created"`
}

// ===== PAPER DTOs =====

type CreatePaperRequest struct {
	StudentID   string              `json:"student_id" validate:"required,max=255"`
	Mode        models.PaperMode    `json:"mode" validate:"required,paper_mode"`
	Params      []models.TopicQuota `json:"params,omitempty" validate:"omitempty,dive"`
	QuestionIDs []string            `json:"question_ids,omitempty"`
	Seed        *int64              `json:"seed,omitempty"`
	VersionID   string              `json:"version_id,omitempty"`
}

type PaperResponse struct {
	PaperID             string                `json:"paper_id"`
	StudentID           string                `json:"student_id"`
	Mode                models.PaperMode      `json:"mode"`
	Seed                *int64                `json:"seed,omitempty"`
	Params              []models.TopicQuota   `json:"params,omitempty"`
	QuestionBankVersion string                `json:"question_bank_version"`
	Questions           []models.QuestionView `json:"questions"`
	CreatedAt           time.Time             `json:"created_at"`
}

// ===== SUBMISSION DTOs =====

type SubmitRequest struct {
	StudentID string            `json:"student_id" validate:"required,max=255"`
	Answers   map[string]string `json:"answers"`
}

type SubmissionReport struct {
	SubmissionID   string       `json:"submission_id"`
	PaperID        string       `json:"paper_id"`
	StudentID      string       `json:"student_id"`
	TotalScore     float64      `json:"total_score"`
	TotalQuestions int          `json:"total_questions"`
	RepeatedErrors []string     `json:"repeated_errors"`
	Items          []ItemReport `json:"items"`
	SubmittedAt    time.Time    `json:"submitted_at"`
	// IgnoredAnswers lists answer keys that were not on the paper. Only set on Submit.
	IgnoredAnswers []string `json:"ignored_answers,omitempty"`
}

// ItemReport is one graded item. ErrorAnalysis is omitted for correct items.
type ItemReport struct {
	ItemID        uint                 `json:"item_id"`
	Position      int                  `json:"position"`
	QuestionID    string               `json:"question_id"`
	StudentAnswer string               `json:"student_answer"`
	IsCorrect     bool                 `json:"is_correct"`
	Score         float64              `json:"score"`
	ErrorAnalysis *models.ItemAnalysis `json:"error_analysis,omitempty"`
	CanPractice   bool                 `json:"can_practice"`
}

type HintRequest struct {
	StudentID string `json:"student_id" validate:"required,max=255"`
	HintLevel int    `json:"hint_level"`
}

// ===== PRACTICE DTOs =====

type PracticeRequest struct {
	StudentID              string `json:"student_id" validate:"required,max=255"`
	OriginalSubmissionItem uint   `json:"original_submission_item_id" validate:"required"`
}

type PracticeResponse struct {
	PracticeID string              `json:"practice_id"`
	Question   models.QuestionView `json:"question"`
}

type PracticeSubmitRequest struct {
	StudentID string `json:"student_id" validate:"required,max=255"`
	Answer    string `json:"answer"`
}

type PracticeResult struct {
	IsCorrect bool   `json:"is_correct"`
	Feedback  string `json:"feedback"`
}

const (
	practiceCorrectFeedback   = "Great job! You corrected your mistake."
	practiceIncorrectFeedback = "Still incorrect. Keep reviewing."
)
