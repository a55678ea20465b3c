package services

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/reproducible-assessment/internal/events"
	"github.com/SAP-F-2025/reproducible-assessment/internal/grading"
	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/SAP-F-2025/reproducible-assessment/internal/repositories"
	"github.com/google/uuid"
)

type practiceService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	opLogger  *ServiceLogger
}

func NewPracticeService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) PracticeService {
	return &practiceService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, "practice"),
	}
}

// SelectPractice picks the sibling question offered for a retry of itemID and returns its
// sanitized view. The choice depends only on the item id and the group's members.
func (s *practiceService) SelectPractice(ctx context.Context, itemID uint) (*models.QuestionView, error) {
	item, err := s.repo.Submission().GetItem(ctx, itemID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionItemNotFound
		}
		return nil, fmt.Errorf("failed to get submission item: %w", err)
	}
	submission, err := s.repo.Submission().GetByID(ctx, item.SubmissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	sibling, err := s.selectSibling(ctx, item, submission)
	if err != nil {
		return nil, err
	}
	view := sibling.View()
	return &view, nil
}

func (s *practiceService) selectSibling(ctx context.Context, item *models.SubmissionItem, submission *models.Submission) (*models.Question, error) {
	original, err := questionForSubmission(ctx, s.repo, submission, item.QuestionID)
	if err != nil {
		return nil, err
	}
	if !original.HasGroup() {
		return nil, &NoSiblingError{QuestionID: original.ID}
	}

	members, err := s.repo.QuestionBank().ListGroupMembers(ctx, original.VersionID, *original.IsomorphicGroup)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	siblings := make([]*models.Question, 0, len(members))
	for _, m := range members {
		if m.ID != original.ID {
			siblings = append(siblings, m)
		}
	}
	if len(siblings) == 0 {
		return nil, &NoSiblingError{QuestionID: original.ID, Group: *original.IsomorphicGroup}
	}
	sortByID(siblings)

	rng := newSeededRand(practiceSeed(item.ID))
	return siblings[rng.intn(len(siblings))], nil
}

// practiceSeed derives the selection seed from the item id.
func practiceSeed(itemID uint) uint64 {
	sum := sha256.Sum256([]byte(fmt.Sprintf("submission-item:%d", itemID)))
	return binary.BigEndian.Uint64(sum[:8])
}

func (s *practiceService) CreatePractice(ctx context.Context, studentID string, itemID uint) (resp *PracticeResponse, err error) {
	op := s.opLogger.WithOperation(ctx, "create_practice")
	defer func() {
		id := ""
		if resp != nil {
			id = resp.PracticeID
		}
		op.LogResult("practice_session", id, err)
	}()

	item, submission, err := loadOwnedItem(ctx, s.repo, itemID, studentID, "practice")
	if err != nil {
		return nil, err
	}
	if item.IsCorrect {
		return nil, NewBusinessRuleError("practice_requires_incorrect", "practice is only offered for incorrect answers",
			map[string]interface{}{"item_id": itemID})
	}

	sibling, err := s.selectSibling(ctx, item, submission)
	if err != nil {
		return nil, err
	}

	session := &models.PracticeSession{
		ID:               uuid.NewString(),
		StudentID:        studentID,
		SubmissionItemID: item.ID,
		VersionID:        sibling.VersionID,
		QuestionID:       sibling.ID,
	}
	if err := s.repo.Practice().Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create practice session: %w", err)
	}

	s.logger.Info("Practice session created", "practice_id", session.ID, "item_id", item.ID, "question_id", sibling.ID)
	return &PracticeResponse{PracticeID: session.ID, Question: sibling.View()}, nil
}

// SubmitPractice grades the single answer of a practice session.
func (s *practiceService) SubmitPractice(ctx context.Context, practiceID, studentID, answer string) (result *PracticeResult, err error) {
	op := s.opLogger.WithOperation(ctx, "submit_practice")
	defer func() { op.LogResult("practice_session", practiceID, err) }()

	session, err := s.repo.Practice().GetByID(ctx, practiceID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPracticeNotFound
		}
		return nil, fmt.Errorf("failed to get practice session: %w", err)
	}
	if session.StudentID != studentID {
		return nil, NewPermissionError(studentID, practiceID, "practice_session", "submit")
	}
	if session.IsSubmitted() {
		return nil, ErrPracticeAlreadySubmitted
	}

	question, err := s.repo.QuestionBank().GetQuestion(ctx, session.VersionID, session.QuestionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get practice question: %w", err)
	}

	grade := grading.Grade(question, answer)
	submitted, err := s.repo.Practice().SubmitAnswer(ctx, practiceID, answer, grade.IsCorrect, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to record practice answer: %w", err)
	}
	if !submitted {
		return nil, ErrPracticeAlreadySubmitted
	}

	events.PublishBestEffort(ctx, s.publisher, s.logger, events.NewEvent(events.EventPracticeCompleted, events.PracticeCompletedEvent{
		PracticeID:       session.ID,
		StudentID:        studentID,
		SubmissionItemID: session.SubmissionItemID,
		QuestionID:       session.QuestionID,
		IsCorrect:        grade.IsCorrect,
	}))

	feedback := practiceIncorrectFeedback
	if grade.IsCorrect {
		feedback = practiceCorrectFeedback
	}
	return &PracticeResult{IsCorrect: grade.IsCorrect, Feedback: feedback}, nil
}
