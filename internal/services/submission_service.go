package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/SAP-F-2025/reproducible-assessment/internal/events"
	"github.com/SAP-F-2025/reproducible-assessment/internal/grading"
	"github.com/SAP-F-2025/reproducible-assessment/internal/metrics"
	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/SAP-F-2025/reproducible-assessment/internal/repositories"
	"github.com/SAP-F-2025/reproducible-assessment/internal/validator"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultAnalysisConcurrency = 4

type submissionService struct {
	repo        repositories.Repository
	bank        QuestionBankService
	dispatcher  AnalysisDispatcher
	concurrency int
	publisher   events.EventPublisher
	validator   *validator.Validator
	logger      *slog.Logger
	opLogger    *ServiceLogger
}

func NewSubmissionService(
	repo repositories.Repository,
	bank QuestionBankService,
	dispatcher AnalysisDispatcher,
	concurrency int,
	publisher events.EventPublisher,
	validator *validator.Validator,
	logger *slog.Logger,
) SubmissionService {
	if concurrency <= 0 {
		concurrency = defaultAnalysisConcurrency
	}
	return &submissionService{
		repo:        repo,
		bank:        bank,
		dispatcher:  dispatcher,
		concurrency: concurrency,
		publisher:   publisher,
		validator:   validator,
		logger:      logger,
		opLogger:    NewServiceLogger(logger, "submission"),
	}
}

// Submit grades every paper question, stores the grades, and only then analyzes the incorrect
// items. Analysis problems never fail the submission.
func (s *submissionService) Submit(ctx context.Context, paperID string, req *SubmitRequest) (report *SubmissionReport, err error) {
	op := s.opLogger.WithOperation(ctx, "submit")
	defer func() {
		id := ""
		if report != nil {
			id = report.SubmissionID
		}
		op.LogResult("submission", id, err)
	}()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	paper, err := s.repo.Paper().GetByID(ctx, paperID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPaperNotFound
		}
		return nil, fmt.Errorf("failed to get paper: %w", err)
	}
	if paper.StudentID != "" && paper.StudentID != req.StudentID {
		return nil, NewPermissionError(req.StudentID, paperID, "paper", "submit")
	}

	snapshot, err := s.bank.Snapshot(ctx, paper.VersionID)
	if err != nil {
		return nil, err
	}
	byID := indexByID(snapshot)

	var ignored []string
	for id := range req.Answers {
		if !slices.Contains(paper.QuestionIDs, id) {
			ignored = append(ignored, id)
		}
	}
	if len(ignored) > 0 {
		slices.Sort(ignored)
		s.logger.Warn("Ignoring answers for questions not on the paper", "paper_id", paper.ID, "question_ids", ignored)
	}

	submission := &models.Submission{
		ID:             uuid.NewString(),
		PaperID:        paper.ID,
		StudentID:      req.StudentID,
		TotalQuestions: len(paper.QuestionIDs),
		SubmittedAt:    time.Now().UTC(),
		Items:          make([]models.SubmissionItem, 0, len(paper.QuestionIDs)),
	}
	for i, questionID := range paper.QuestionIDs {
		question, ok := byID[questionID]
		if !ok {
			return nil, fmt.Errorf("paper %s references question %s missing from version %s", paper.ID, questionID, paper.VersionID)
		}
		answer := req.Answers[questionID]
		result := grading.Grade(question, answer)
		submission.TotalScore += result.Score
		submission.Items = append(submission.Items, models.SubmissionItem{
			Position:      i + 1,
			QuestionID:    questionID,
			StudentAnswer: answer,
			IsCorrect:     result.IsCorrect,
			Score:         result.Score,
		})
	}

	if err := s.repo.Submission().Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	for i := range submission.Items {
		metrics.ObserveGrade(submission.Items[i].IsCorrect)
	}
	s.logger.Info("Submission graded", "submission_id", submission.ID, "paper_id", paper.ID,
		"score", submission.TotalScore, "total", submission.TotalQuestions)

	s.analyzeIncorrect(ctx, submission, byID)

	report = buildReport(submission, byID)
	report.IgnoredAnswers = ignored

	incorrect := 0
	for _, item := range report.Items {
		if !item.IsCorrect {
			incorrect++
		}
	}
	events.PublishBestEffort(ctx, s.publisher, s.logger, events.NewEvent(events.EventSubmissionGraded, events.SubmissionGradedEvent{
		SubmissionID:   submission.ID,
		PaperID:        paper.ID,
		StudentID:      submission.StudentID,
		TotalScore:     submission.TotalScore,
		TotalQuestions: submission.TotalQuestions,
		IncorrectItems: incorrect,
		RepeatedErrors: report.RepeatedErrors,
	}))
	return report, nil
}

// analyzeIncorrect runs the dispatcher on every incorrect item with bounded concurrency and
// applies the results to submission.Items.
func (s *submissionService) analyzeIncorrect(ctx context.Context, submission *models.Submission, byID map[string]*models.Question) {
	results := make([]*models.ItemAnalysis, len(submission.Items))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range submission.Items {
		item := submission.Items[i]
		if item.IsCorrect {
			continue
		}
		g.Go(func() error {
			a, err := s.dispatcher.AnalyzeItem(ctx, &item, byID[item.QuestionID])
			if err != nil {
				s.logger.Error("Failed to store analysis", "item_id", item.ID, "error", err)
			}
			results[i] = a
			return nil
		})
	}
	_ = g.Wait()

	for i, a := range results {
		if a != nil {
			submission.Items[i].Apply(a)
		}
	}
}

func (s *submissionService) GetSubmission(ctx context.Context, submissionID string) (*SubmissionReport, error) {
	submission, err := s.repo.Submission().GetByID(ctx, submissionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	paper, err := s.repo.Paper().GetByID(ctx, submission.PaperID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPaperNotFound
		}
		return nil, fmt.Errorf("failed to get paper: %w", err)
	}
	snapshot, err := s.bank.Snapshot(ctx, paper.VersionID)
	if err != nil {
		return nil, err
	}
	return buildReport(submission, indexByID(snapshot)), nil
}

func buildReport(submission *models.Submission, byID map[string]*models.Question) *SubmissionReport {
	groupSizes := make(map[string]int)
	for _, q := range byID {
		if q.HasGroup() {
			groupSizes[*q.IsomorphicGroup]++
		}
	}

	report := &SubmissionReport{
		SubmissionID:   submission.ID,
		PaperID:        submission.PaperID,
		StudentID:      submission.StudentID,
		TotalScore:     submission.TotalScore,
		TotalQuestions: submission.TotalQuestions,
		RepeatedErrors: DetectRepeatedErrors(submission.Items),
		Items:          make([]ItemReport, 0, len(submission.Items)),
		SubmittedAt:    submission.SubmittedAt,
	}
	for i := range submission.Items {
		item := &submission.Items[i]
		entry := ItemReport{
			ItemID:        item.ID,
			Position:      item.Position,
			QuestionID:    item.QuestionID,
			StudentAnswer: item.StudentAnswer,
			IsCorrect:     item.IsCorrect,
			Score:         item.Score,
		}
		if !item.IsCorrect {
			entry.ErrorAnalysis = item.Analysis()
			if q, ok := byID[item.QuestionID]; ok && q.HasGroup() {
				entry.CanPractice = groupSizes[*q.IsomorphicGroup] > 1
			}
		}
		report.Items = append(report.Items, entry)
	}
	return report
}
