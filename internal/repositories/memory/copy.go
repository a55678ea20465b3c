package memory

import (
	"slices"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
)

func copyVersion(v *models.QuestionBankVersion) models.QuestionBankVersion {
	out := *v
	out.QuestionIDs = slices.Clone(v.QuestionIDs)
	return out
}

func copyQuestion(q *models.Question) models.Question {
	out := *q
	out.Options = slices.Clone(q.Options)
	out.KnowledgePoints = slices.Clone(q.KnowledgePoints)
	if q.Tolerance != nil {
		t := *q.Tolerance
		out.Tolerance = &t
	}
	if q.IsomorphicGroup != nil {
		g := *q.IsomorphicGroup
		out.IsomorphicGroup = &g
	}
	return out
}

func copyPaper(p *models.Paper) models.Paper {
	out := *p
	out.QuestionIDs = slices.Clone(p.QuestionIDs)
	out.Params = slices.Clone(p.Params)
	if p.Seed != nil {
		s := *p.Seed
		out.Seed = &s
	}
	return out
}

func copyItem(i *models.SubmissionItem) models.SubmissionItem {
	out := *i
	if a := i.Analysis(); a != nil {
		out.Apply(a)
		out.AnalysisPayload = slices.Clone(i.AnalysisPayload)
	}
	return out
}

func copyPractice(p *models.PracticeSession) models.PracticeSession {
	out := *p
	if p.StudentAnswer != nil {
		a := *p.StudentAnswer
		out.StudentAnswer = &a
	}
	if p.IsCorrect != nil {
		c := *p.IsCorrect
		out.IsCorrect = &c
	}
	if p.SubmittedAt != nil {
		t := *p.SubmittedAt
		out.SubmittedAt = &t
	}
	return out
}
