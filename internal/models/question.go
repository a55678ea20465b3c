package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	ShortAnswer    QuestionType = "short_answer"
)

// IsValid reports whether t is one of the supported question types.
func (t QuestionType) IsValid() bool {
	return t == MultipleChoice || t == ShortAnswer
}

type Option struct {
	ID   string `json:"id" yaml:"id" validate:"required"`
	Text string `json:"text" yaml:"text"`
}

// QuestionDraft is the mutable, pre-freeze form of a question.
type QuestionDraft struct {
	ID               string       `json:"id" yaml:"id" validate:"required"`
	Stem             string       `json:"stem" yaml:"stem"`
	Type             QuestionType `json:"type" yaml:"type" validate:"required,question_type"`
	Options          []Option     `json:"options,omitempty" yaml:"options,omitempty" validate:"omitempty,dive"`
	CorrectAnswer    string       `json:"correct_answer" yaml:"correct_answer"`
	Tolerance        *float64     `json:"tolerance,omitempty" yaml:"tolerance,omitempty" validate:"omitempty,min=0"`
	Topic            string       `json:"topic" yaml:"topic"`
	Difficulty       int          `json:"difficulty" yaml:"difficulty"`
	IsomorphicGroup  *string      `json:"isomorphic_group,omitempty" yaml:"isomorphic_group,omitempty"`
	KnowledgePoints  []string     `json:"knowledge_points,omitempty" yaml:"knowledge_points,omitempty"`
	ReferenceOutline string       `json:"reference_outline" yaml:"reference_outline"`
}

type QuestionBankVersion struct {
	ID            string                      `json:"id" gorm:"primaryKey;size:64"`
	Description   string                      `json:"description" gorm:"size:500"`
	QuestionIDs   datatypes.JSONSlice[string] `json:"question_ids"`
	QuestionCount int                         `json:"question_count" gorm:"not null"`
	FrozenAt      time.Time                   `json:"frozen_at" gorm:"not null;index"`
}

func (QuestionBankVersion) TableName() string {
	return "question_bank_versions"
}

// Question is a frozen question. Rows are written once by a freeze and never updated.
type Question struct {
	VersionID        string                      `json:"version_id" gorm:"primaryKey;size:64"`
	ID               string                      `json:"id" gorm:"primaryKey;size:128"`
	Stem             string                      `json:"stem" gorm:"type:text;not null"`
	Type             QuestionType                `json:"type" gorm:"size:32;not null"`
	Options          datatypes.JSONSlice[Option] `json:"options"`
	CorrectAnswer    string                      `json:"correct_answer" gorm:"type:text;not null"`
	Tolerance        *float64                    `json:"tolerance,omitempty"`
	Topic            string                      `json:"topic" gorm:"size:128;index"`
	Difficulty       int                         `json:"difficulty"`
	IsomorphicGroup  *string                     `json:"isomorphic_group,omitempty" gorm:"size:128;index"`
	KnowledgePoints  datatypes.JSONSlice[string] `json:"knowledge_points"`
	ReferenceOutline string                      `json:"reference_outline" gorm:"type:text"`
}

func (Question) TableName() string {
	return "questions"
}

// HasGroup reports whether the question belongs to an isomorphic group.
func (q *Question) HasGroup() bool {
	return q.IsomorphicGroup != nil && *q.IsomorphicGroup != ""
}

// QuestionView is the sanitized form of a question handed to students.
type QuestionView struct {
	ID              string       `json:"id"`
	Stem            string       `json:"stem"`
	Type            QuestionType `json:"type"`
	Options         []Option     `json:"options,omitempty"`
	Topic           string       `json:"topic,omitempty"`
	Difficulty      int          `json:"difficulty"`
	KnowledgePoints []string     `json:"knowledge_points,omitempty"`
}

// View strips correct_answer, tolerance and reference_outline.
func (q *Question) View() QuestionView {
	v := QuestionView{
		ID:         q.ID,
		Stem:       q.Stem,
		Type:       q.Type,
		Topic:      q.Topic,
		Difficulty: q.Difficulty,
	}
	if len(q.Options) > 0 {
		v.Options = append([]Option(nil), q.Options...)
	}
	if len(q.KnowledgePoints) > 0 {
		v.KnowledgePoints = append([]string(nil), q.KnowledgePoints...)
	}
	return v
}

// ToQuestion builds the frozen record for a draft under the given version.
func (d *QuestionDraft) ToQuestion(versionID string) *Question {
	q := &Question{
		VersionID:        versionID,
		ID:               d.ID,
		Stem:             d.Stem,
		Type:             d.Type,
		CorrectAnswer:    d.CorrectAnswer,
		Tolerance:        d.Tolerance,
		Topic:            d.Topic,
		Difficulty:       d.Difficulty,
		IsomorphicGroup:  d.IsomorphicGroup,
		ReferenceOutline: d.ReferenceOutline,
	}
	q.Options = append(datatypes.JSONSlice[Option]{}, d.Options...)
	q.KnowledgePoints = append(datatypes.JSONSlice[string]{}, d.KnowledgePoints...)
	return q
}
