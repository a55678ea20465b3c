package models

import "time"

// PracticeSession is a single retry on a sibling question. It is terminal once SubmittedAt is set.
type PracticeSession struct {
	ID               string     `json:"id" gorm:"primaryKey;size:36"`
	StudentID        string     `json:"student_id" gorm:"size:255;not null;index"`
	SubmissionItemID uint       `json:"original_submission_item_id" gorm:"not null;index"`
	VersionID        string     `json:"question_bank_version" gorm:"size:64;not null"`
	QuestionID       string     `json:"question_id" gorm:"size:128;not null"`
	StudentAnswer    *string    `json:"student_answer,omitempty" gorm:"type:text"`
	IsCorrect        *bool      `json:"is_correct,omitempty"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (PracticeSession) TableName() string {
	return "practice_sessions"
}

func (p *PracticeSession) IsSubmitted() bool {
	return p.SubmittedAt != nil
}
