package models

import (
	"time"

	"gorm.io/datatypes"
)

type AnalysisSource string

const (
	AnalysisSourceLLM      AnalysisSource = "llm"
	AnalysisSourceFallback AnalysisSource = "fallback"
)

type Submission struct {
	ID             string           `json:"id" gorm:"primaryKey;size:36"`
	PaperID        string           `json:"paper_id" gorm:"size:36;not null;index"`
	StudentID      string           `json:"student_id" gorm:"size:255;not null;index"`
	TotalScore     float64          `json:"total_score"`
	TotalQuestions int              `json:"total_questions"`
	SubmittedAt    time.Time        `json:"submitted_at"`
	Items          []SubmissionItem `json:"items" gorm:"foreignKey:SubmissionID"`
}

func (Submission) TableName() string {
	return "submissions"
}

// SubmissionItem holds the grade of one paper question. Analysis columns stay NULL
// for correct items.
type SubmissionItem struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	SubmissionID  string  `json:"submission_id" gorm:"size:36;not null;index"`
	Position      int     `json:"position" gorm:"not null"`
	QuestionID    string  `json:"question_id" gorm:"size:128;not null"`
	StudentAnswer string  `json:"student_answer" gorm:"type:text;not null;default:''"`
	IsCorrect     bool    `json:"is_correct" gorm:"not null"`
	Score         float64 `json:"score" gorm:"not null"`

	ErrorType       *string                     `json:"error_type,omitempty" gorm:"size:64"`
	HintLevel       *int                        `json:"hint_level,omitempty"`
	HintText        *string                     `json:"hint_text,omitempty" gorm:"type:text"`
	ExplanationText *string                     `json:"explanation_text,omitempty" gorm:"type:text"`
	KnowledgePoints datatypes.JSONSlice[string] `json:"knowledge_points,omitempty"`
	AnalysisSource  *AnalysisSource             `json:"analysis_source,omitempty" gorm:"size:16"`
	AnalysisPayload datatypes.JSON              `json:"analysis_payload,omitempty"`
	AnalyzedAt      *time.Time                  `json:"analyzed_at,omitempty"`
}

func (SubmissionItem) TableName() string {
	return "submission_items"
}

// HasAnalysis reports whether analysis fields have been written.
func (i *SubmissionItem) HasAnalysis() bool {
	return i.HintLevel != nil
}

// ItemAnalysis is the set of analysis fields written onto an incorrect item.
type ItemAnalysis struct {
	ErrorType       string         `json:"error_type"`
	Explanation     string         `json:"explanation"`
	HintLevel       int            `json:"hint_level"`
	Hint            string         `json:"hint"`
	KnowledgePoints []string       `json:"knowledge_points"`
	Source          AnalysisSource `json:"source"`
	Payload         datatypes.JSON `json:"-"`
	AnalyzedAt      time.Time      `json:"-"`
}

// Apply copies a onto the item's analysis columns.
func (i *SubmissionItem) Apply(a *ItemAnalysis) {
	errorType, hint, explanation, source, level, at := a.ErrorType, a.Hint, a.Explanation, a.Source, a.HintLevel, a.AnalyzedAt
	i.ErrorType = &errorType
	i.HintText = &hint
	i.ExplanationText = &explanation
	i.AnalysisSource = &source
	i.HintLevel = &level
	i.AnalyzedAt = &at
	i.KnowledgePoints = append(datatypes.JSONSlice[string]{}, a.KnowledgePoints...)
	i.AnalysisPayload = a.Payload
}

// Analysis reads the analysis columns back. It returns nil for items without analysis.
func (i *SubmissionItem) Analysis() *ItemAnalysis {
	if !i.HasAnalysis() {
		return nil
	}
	a := &ItemAnalysis{
		HintLevel:       *i.HintLevel,
		KnowledgePoints: append([]string{}, i.KnowledgePoints...),
		Payload:         i.AnalysisPayload,
	}
	if i.ErrorType != nil {
		a.ErrorType = *i.ErrorType
	}
	if i.ExplanationText != nil {
		a.Explanation = *i.ExplanationText
	}
	if i.HintText != nil {
		a.Hint = *i.HintText
	}
	if i.AnalysisSource != nil {
		a.Source = *i.AnalysisSource
	}
	if i.AnalyzedAt != nil {
		a.AnalyzedAt = *i.AnalyzedAt
	}
	return a
}
