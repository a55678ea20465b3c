package services

import (
	"bytes"
	"context"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
)

// QuestionBankService freezes drafts into immutable versions and serves lookups on them.
type QuestionBankService interface {
	Freeze(ctx context.Context, drafts []models.QuestionDraft, description string) (*models.QuestionBankVersion, bool, error)
	GetQuestion(ctx context.Context, versionID, questionID string) (*models.QuestionView, error)
	LatestVersion(ctx context.Context) (*models.QuestionBankVersion, error)
	GetVersion(ctx context.Context, versionID string) (*models.QuestionBankVersion, error)
	ListVersions(ctx context.Context) ([]*models.QuestionBankVersion, error)

	// Snapshot returns every question of a version ordered by id, including answers.
	Snapshot(ctx context.Context, versionID string) ([]*models.Question, error)
	// ResolveVersion maps an empty id to the latest version.
	ResolveVersion(ctx context.Context, versionID string) (*models.QuestionBankVersion, error)
}

type PaperService interface {
	Create(ctx context.Context, req *CreatePaperRequest) (*PaperResponse, error)
	CreateFixed(ctx context.Context, studentID string, questionIDs []string, versionID string) (*PaperResponse, error)
	CreateEquivalent(ctx context.Context, studentID string, params []models.TopicQuota, seed *int64, versionID string) (*PaperResponse, error)
	GetPaper(ctx context.Context, paperID string) (*PaperResponse, error)
}

// AnalysisDispatcher produces wrong-answer analysis. Analyze never fails.
type AnalysisDispatcher interface {
	Analyze(ctx context.Context, question *models.Question, studentAnswer string, level int) *models.ItemAnalysis
	// AnalyzeItem analyzes an incorrect item at level 1 and stores the result once.
	AnalyzeItem(ctx context.Context, item *models.SubmissionItem, question *models.Question) (*models.ItemAnalysis, error)
	UpgradeHint(ctx context.Context, itemID uint, studentID string, newLevel int) (*models.ItemAnalysis, error)
}

type SubmissionService interface {
	Submit(ctx context.Context, paperID string, req *SubmitRequest) (*SubmissionReport, error)
	GetSubmission(ctx context.Context, submissionID string) (*SubmissionReport, error)
}

type PracticeService interface {
	SelectPractice(ctx context.Context, itemID uint) (*models.QuestionView, error)
	CreatePractice(ctx context.Context, studentID string, itemID uint) (*PracticeResponse, error)
	SubmitPractice(ctx context.Context, practiceID, studentID, answer string) (*PracticeResult, error)
}

type ExportService interface {
	ExportPaperResults(ctx context.Context, paperID string) (*bytes.Buffer, error)
}

// ServiceManager exposes every service built over one repository.
type ServiceManager interface {
	QuestionBank() QuestionBankService
	Paper() PaperService
	Analysis() AnalysisDispatcher
	Submission() SubmissionService
	Practice() PracticeService
	Export() ExportService
}
