package services

import (
	"log/slog"
	"time"

	"github.com/SAP-F-2025/reproducible-assessment/internal/analysis"
	"github.com/SAP-F-2025/reproducible-assessment/internal/cache"
	"github.com/SAP-F-2025/reproducible-assessment/internal/events"
	"github.com/SAP-F-2025/reproducible-assessment/internal/repositories"
	"github.com/SAP-F-2025/reproducible-assessment/internal/validator"
)

// Options carries the collaborators and tunables shared by the services.
type Options struct {
	Cache               cache.CacheService
	SnapshotCacheTTL    time.Duration
	Publisher           events.EventPublisher
	Classifier          analysis.Classifier
	AnalysisTimeout     time.Duration
	AnalysisConcurrency int
}

type serviceManager struct {
	questionBank QuestionBankService
	paper        PaperService
	analysis     AnalysisDispatcher
	submission   SubmissionService
	practice     PracticeService
	export       ExportService
}

func NewServiceManager(repo repositories.Repository, v *validator.Validator, logger *slog.Logger, opts Options) ServiceManager {
	bank := NewQuestionBankService(repo, opts.Cache, opts.SnapshotCacheTTL, opts.Publisher, v, logger)
	dispatcher := NewAnalysisDispatcher(repo, opts.Classifier, opts.AnalysisTimeout, opts.Publisher, logger)

	return &serviceManager{
		questionBank: bank,
		paper:        NewPaperService(repo, bank, opts.Publisher, v, logger),
		analysis:     dispatcher,
		submission:   NewSubmissionService(repo, bank, dispatcher, opts.AnalysisConcurrency, opts.Publisher, v, logger),
		practice:     NewPracticeService(repo, opts.Publisher, logger),
		export:       NewExportService(repo, logger),
	}
}

func (sm *serviceManager) QuestionBank() QuestionBankService { return sm.questionBank }
func (sm *serviceManager) Paper() PaperService               { return sm.paper }
func (sm *serviceManager) Analysis() AnalysisDispatcher      { return sm.analysis }
func (sm *serviceManager) Submission() SubmissionService     { return sm.submission }
func (sm *serviceManager) Practice() PracticeService         { return sm.practice }
func (sm *serviceManager) Export() ExportService             { return sm.export }
