// Package analysis classifies incorrect answers into a closed error taxonomy and writes an
// escalatable hint. LLMClassifier asks a language model; FallbackClassifier is deterministic
// and is used whenever the model path is disabled or fails.
package analysis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"gorm.io/datatypes"
)

const (
	MinHintLevel = 1
	MaxHintLevel = 3
)

// Input carries everything a classifier may look at for one incorrect answer.
type Input struct {
	QuestionID       string
	Stem             string
	CorrectAnswer    string
	ReferenceOutline string
	Topic            string
	KnowledgePoints  []string
	StudentAnswer    string
	HintLevel        int
	// RevealTerms must not appear as standalone tokens in a hint.
	RevealTerms []string
}

// NewInput builds the classifier input for q. The level is clamped to [1,3].
func NewInput(q *models.Question, studentAnswer string, level int) Input {
	in := Input{
		QuestionID:       q.ID,
		Stem:             q.Stem,
		CorrectAnswer:    q.CorrectAnswer,
		ReferenceOutline: q.ReferenceOutline,
		Topic:            q.Topic,
		KnowledgePoints:  append([]string(nil), q.KnowledgePoints...),
		StudentAnswer:    studentAnswer,
		HintLevel:        ClampLevel(level),
	}

	if q.Type == models.MultipleChoice {
		for _, opt := range q.Options {
			if strings.EqualFold(opt.ID, strings.TrimSpace(q.CorrectAnswer)) {
				in.CorrectAnswer = opt.ID + ": " + opt.Text
				in.RevealTerms = append(in.RevealTerms, opt.Text, "option "+opt.ID, "("+opt.ID+")")
			}
		}
	} else {
		in.RevealTerms = []string{q.CorrectAnswer}
	}
	return in
}

// ClampLevel forces a requested hint level into [MinHintLevel, MaxHintLevel].
func ClampLevel(level int) int {
	switch {
	case level < MinHintLevel:
		return MinHintLevel
	case level > MaxHintLevel:
		return MaxHintLevel
	}
	return level
}

type Result struct {
	ErrorType       ErrorType
	Explanation     string
	Hint            string
	HintLevel       int
	KnowledgePoints []string
	Source          models.AnalysisSource
	// Raw is the collaborator output the result was built from.
	Raw json.RawMessage
}

// ItemAnalysis converts r into the columns stored on a submission item.
func (r *Result) ItemAnalysis(at time.Time) *models.ItemAnalysis {
	return &models.ItemAnalysis{
		ErrorType:       string(r.ErrorType),
		Explanation:     r.Explanation,
		HintLevel:       r.HintLevel,
		Hint:            r.Hint,
		KnowledgePoints: append([]string{}, r.KnowledgePoints...),
		Source:          r.Source,
		Payload:         datatypes.JSON(r.Raw),
		AnalyzedAt:      at,
	}
}

// Classifier labels one incorrect answer. Deadlines travel on ctx.
type Classifier interface {
	Classify(ctx context.Context, in Input) (*Result, error)
}
