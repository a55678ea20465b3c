package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/SAP-F-2025/reproducible-assessment/internal/analysis"
	"github.com/SAP-F-2025/reproducible-assessment/internal/events"
	"github.com/SAP-F-2025/reproducible-assessment/internal/metrics"
	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/SAP-F-2025/reproducible-assessment/internal/repositories"
)

const (
	fallbackDisabled = "disabled"
	fallbackTimeout  = "timeout"
)

type analysisDispatcher struct {
	repo      repositories.Repository
	primary   analysis.Classifier
	timeout   time.Duration
	publisher events.EventPublisher
	logger    *slog.Logger
	opLogger  *ServiceLogger
}

// NewAnalysisDispatcher builds the dispatcher. A nil primary classifier disables the model path
// and every analysis comes from the deterministic fallback.
func NewAnalysisDispatcher(
	repo repositories.Repository,
	primary analysis.Classifier,
	timeout time.Duration,
	publisher events.EventPublisher,
	logger *slog.Logger,
) AnalysisDispatcher {
	return &analysisDispatcher{
		repo:      repo,
		primary:   primary,
		timeout:   timeout,
		publisher: publisher,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, "analysis"),
	}
}

type classifyOutcome struct {
	result *analysis.Result
	err    error
}

func (d *analysisDispatcher) Analyze(ctx context.Context, question *models.Question, studentAnswer string, level int) *models.ItemAnalysis {
	result, _ := d.classify(ctx, analysis.NewInput(question, studentAnswer, level))
	return result.ItemAnalysis(time.Now().UTC())
}

// classify returns the primary result or the fallback, with the reason the fallback was used.
func (d *analysisDispatcher) classify(ctx context.Context, in analysis.Input) (*analysis.Result, string) {
	start := time.Now()
	result, reason := d.classifyPrimary(ctx, in)
	if result == nil {
		result = analysis.Fallback(in)
	}
	metrics.ObserveAnalysis(string(result.Source), time.Since(start))
	return result, reason
}

func (d *analysisDispatcher) classifyPrimary(ctx context.Context, in analysis.Input) (*analysis.Result, string) {
	if d.primary == nil {
		return nil, fallbackDisabled
	}

	callCtx, cancel := ctx, context.CancelFunc(func() {})
	if d.timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, d.timeout)
	}
	defer cancel()

	done := make(chan classifyOutcome, 1)
	go func() {
		result, err := d.safeClassify(callCtx, in)
		done <- classifyOutcome{result: result, err: err}
	}()

	var out classifyOutcome
	select {
	case out = <-done:
	case <-callCtx.Done():
		out.err = callCtx.Err()
	}

	if out.err != nil {
		reason := out.err.Error()
		if errors.Is(out.err, context.DeadlineExceeded) {
			reason = fallbackTimeout
		}
		d.logger.Warn("Analysis collaborator failed, using fallback",
			"question_id", in.QuestionID, "hint_level", in.HintLevel, "reason", reason)
		return nil, reason
	}
	return out.result, ""
}

func (d *analysisDispatcher) safeClassify(ctx context.Context, in analysis.Input) (result *analysis.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.opLogger.LogRecovery(ctx, "classify", r, debug.Stack())
			result, err = nil, fmt.Errorf("classifier panicked: %v", r)
		}
	}()

	result, err = d.primary.Classify(ctx, in)
	if err == nil && result == nil {
		err = errors.New("classifier returned no result")
	}
	return result, err
}

func (d *analysisDispatcher) AnalyzeItem(ctx context.Context, item *models.SubmissionItem, question *models.Question) (*models.ItemAnalysis, error) {
	result, reason := d.classify(ctx, analysis.NewInput(question, item.StudentAnswer, analysis.MinHintLevel))
	d.reportFallback(ctx, item, result, reason)

	a := result.ItemAnalysis(time.Now().UTC())
	stored, err := d.repo.Submission().SetAnalysis(ctx, item.ID, a)
	if err != nil {
		return a, fmt.Errorf("failed to store analysis: %w", err)
	}
	if !stored {
		current, err := d.repo.Submission().GetItem(ctx, item.ID)
		if err != nil {
			return a, fmt.Errorf("failed to reload item: %w", err)
		}
		if existing := current.Analysis(); existing != nil {
			return existing, nil
		}
	}
	return a, nil
}

// UpgradeHint re-classifies an item at a higher hint level. Requesting the stored level again
// returns the stored analysis unchanged.
func (d *analysisDispatcher) UpgradeHint(ctx context.Context, itemID uint, studentID string, newLevel int) (a *models.ItemAnalysis, err error) {
	op := d.opLogger.WithOperation(ctx, "upgrade_hint")
	defer func() { op.LogResult("submission_item", fmt.Sprint(itemID), err) }()

	item, submission, err := loadOwnedItem(ctx, d.repo, itemID, studentID, "escalate_hint")
	if err != nil {
		return nil, err
	}
	if item.IsCorrect {
		return nil, NewBusinessRuleError("hint_requires_incorrect", "hints are only available for incorrect answers",
			map[string]interface{}{"item_id": itemID})
	}

	current := 0
	if item.HasAnalysis() {
		current = *item.HintLevel
	}
	if newLevel < analysis.MinHintLevel || newLevel > analysis.MaxHintLevel || newLevel < current {
		return nil, &InvalidEscalationError{ItemID: itemID, CurrentLevel: current, Requested: newLevel}
	}
	if newLevel == current {
		return item.Analysis(), nil
	}

	question, err := questionForSubmission(ctx, d.repo, submission, item.QuestionID)
	if err != nil {
		return nil, err
	}

	result, reason := d.classify(ctx, analysis.NewInput(question, item.StudentAnswer, newLevel))
	d.reportFallback(ctx, item, result, reason)
	a = result.ItemAnalysis(time.Now().UTC())

	var applied bool
	if item.HasAnalysis() {
		applied, err = d.repo.Submission().EscalateAnalysis(ctx, itemID, a)
	} else {
		applied, err = d.repo.Submission().SetAnalysis(ctx, itemID, a)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to store escalated analysis: %w", err)
	}
	if !applied {
		// A concurrent escalation won; report against what is stored now.
		latest, err := d.repo.Submission().GetItem(ctx, itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload item: %w", err)
		}
		if stored := latest.Analysis(); stored != nil && stored.HintLevel == newLevel {
			return stored, nil
		}
		level := 0
		if latest.HasAnalysis() {
			level = *latest.HintLevel
		}
		return nil, &InvalidEscalationError{ItemID: itemID, CurrentLevel: level, Requested: newLevel}
	}

	events.PublishBestEffort(ctx, d.publisher, d.logger, events.NewEvent(events.EventHintEscalated, events.HintEscalatedEvent{
		ItemID:    itemID,
		StudentID: studentID,
		FromLevel: current,
		ToLevel:   newLevel,
		Source:    string(a.Source),
	}))
	return a, nil
}

func (d *analysisDispatcher) reportFallback(ctx context.Context, item *models.SubmissionItem, result *analysis.Result, reason string) {
	if result.Source != models.AnalysisSourceFallback || reason == fallbackDisabled {
		return
	}
	events.PublishBestEffort(ctx, d.publisher, d.logger, events.NewEvent(events.EventAnalysisFallback, events.AnalysisFallbackEvent{
		ItemID:     item.ID,
		QuestionID: item.QuestionID,
		HintLevel:  result.HintLevel,
		Reason:     reason,
	}))
}

// loadOwnedItem returns the item and its submission after checking the submission belongs to
// studentID.
func loadOwnedItem(ctx context.Context, repo repositories.Repository, itemID uint, studentID, action string) (*models.SubmissionItem, *models.Submission, error) {
	item, err := repo.Submission().GetItem(ctx, itemID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrSubmissionItemNotFound
		}
		return nil, nil, fmt.Errorf("failed to get submission item: %w", err)
	}
	submission, err := repo.Submission().GetByID(ctx, item.SubmissionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrSubmissionNotFound
		}
		return nil, nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if submission.StudentID != studentID {
		return nil, nil, NewPermissionError(studentID, fmt.Sprint(itemID), "submission_item", action)
	}
	return item, submission, nil
}

// questionForSubmission loads a question from the version the submission's paper was built on.
func questionForSubmission(ctx context.Context, repo repositories.Repository, submission *models.Submission, questionID string) (*models.Question, error) {
	paper, err := repo.Paper().GetByID(ctx, submission.PaperID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPaperNotFound
		}
		return nil, fmt.Errorf("failed to get paper: %w", err)
	}
	question, err := repo.QuestionBank().GetQuestion(ctx, paper.VersionID, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}
