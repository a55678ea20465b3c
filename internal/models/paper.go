package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaperMode string

const (
	PaperModeFixed      PaperMode = "fixed"
	PaperModeEquivalent PaperMode = "equivalent"
)

// TopicQuota asks for Count questions of Topic with difficulty in [MinDifficulty, MaxDifficulty].
// A zero MaxDifficulty leaves the range open above.
type TopicQuota struct {
	Topic         string `json:"topic" yaml:"topic" validate:"required"`
	Count         int    `json:"count" yaml:"count" validate:"required,min=1"`
	MinDifficulty int    `json:"min_difficulty" yaml:"min_difficulty" validate:"min=0"`
	MaxDifficulty int    `json:"max_difficulty" yaml:"max_difficulty" validate:"min=0"`
}

type Paper struct {
	ID          string                          `json:"id" gorm:"primaryKey;size:36"`
	StudentID   string                          `json:"student_id" gorm:"size:255;index"`
	Mode        PaperMode                       `json:"mode" gorm:"size:16;not null"`
	Seed        *int64                          `json:"seed,omitempty"`
	Params      datatypes.JSONSlice[TopicQuota] `json:"params,omitempty"`
	QuestionIDs datatypes.JSONSlice[string]     `json:"question_ids"`
	VersionID   string                          `json:"question_bank_version" gorm:"size:64;not null;index"`
	CreatedAt   time.Time                       `json:"created_at"`
}

func (Paper) TableName() string {
	return "papers"
}
