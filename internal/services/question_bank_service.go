package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/SAP-F-2025/reproducible-assessment/internal/cache"
	"github.com/SAP-F-2025/reproducible-assessment/internal/events"
	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/SAP-F-2025/reproducible-assessment/internal/repositories"
	"github.com/SAP-F-2025/reproducible-assessment/internal/validator"
	"gorm.io/datatypes"
)

const (
	versionIDLength     = 16
	maxDescriptionChars = 500
	snapshotKeyPrefix   = "question_bank:snapshot:"
)

type questionBankService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	cacheTTL  time.Duration
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger
	opLogger  *ServiceLogger
}

func NewQuestionBankService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	cacheTTL time.Duration,
	publisher events.EventPublisher,
	validator *validator.Validator,
	logger *slog.Logger,
) QuestionBankService {
	if cacheService == nil {
		cacheService = cache.NewNoopCache()
	}
	return &questionBankService{
		repo:      repo,
		cache:     cacheService,
		cacheTTL:  cacheTTL,
		publisher: publisher,
		validator: validator,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, "question_bank"),
	}
}

func (s *questionBankService) Freeze(ctx context.Context, drafts []models.QuestionDraft, description string) (version *models.QuestionBankVersion, created bool, err error) {
	op := s.opLogger.WithOperation(ctx, "freeze")
	defer func() {
		id := ""
		if version != nil {
			id = version.ID
		}
		op.LogResult("question_bank_version", id, err)
	}()

	s.logger.Info("Freezing question bank", "drafts", len(drafts))

	if errs := s.validator.Question().ValidateDrafts(drafts); len(errs) > 0 {
		return nil, false, &FreezeValidationError{DraftIDs: validator.OffendingDrafts(errs), Errors: errs}
	}
	if len([]rune(description)) > maxDescriptionChars {
		return nil, false, ValidationErrors{*NewValidationError("description", "must be at most 500 characters", nil)}
	}

	versionID, err := ComputeVersionID(drafts)
	if err != nil {
		return nil, false, err
	}

	sorted := sortedDrafts(drafts)
	questions := make([]*models.Question, 0, len(sorted))
	ids := make([]string, 0, len(sorted))
	for i := range sorted {
		questions = append(questions, sorted[i].ToQuestion(versionID))
		ids = append(ids, sorted[i].ID)
	}

	version = &models.QuestionBankVersion{
		ID:            versionID,
		Description:   strings.TrimSpace(description),
		QuestionIDs:   datatypes.JSONSlice[string](ids),
		QuestionCount: len(ids),
		FrozenAt:      time.Now().UTC(),
	}

	created, err = s.repo.QuestionBank().CreateVersion(ctx, version, questions)
	if err != nil {
		return nil, false, fmt.Errorf("failed to persist question bank version: %w", err)
	}

	if !created {
		s.logger.Info("Question bank content already frozen", "version_id", versionID)
		existing, err := s.repo.QuestionBank().GetVersion(ctx, versionID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load existing version: %w", err)
		}
		return existing, false, nil
	}

	events.PublishBestEffort(ctx, s.publisher, s.logger, events.NewEvent(events.EventQuestionBankFrozen, events.QuestionBankFrozenEvent{
		VersionID:     version.ID,
		QuestionCount: version.QuestionCount,
		Description:   version.Description,
		FrozenAt:      version.FrozenAt,
	}))

	s.logger.Info("Question bank frozen", "version_id", version.ID, "questions", version.QuestionCount)
	return version, true, nil
}

func (s *questionBankService) GetQuestion(ctx context.Context, versionID, questionID string) (*models.QuestionView, error) {
	q, err := s.repo.QuestionBank().GetQuestion(ctx, versionID, questionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, s.notFoundCause(ctx, versionID)
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	view := q.View()
	return &view, nil
}

// notFoundCause tells an unknown version apart from an unknown question.
func (s *questionBankService) notFoundCause(ctx context.Context, versionID string) error {
	if _, err := s.repo.QuestionBank().GetVersion(ctx, versionID); repositories.IsNotFoundError(err) {
		return ErrVersionNotFound
	}
	return ErrQuestionNotFound
}

func (s *questionBankService) LatestVersion(ctx context.Context) (*models.QuestionBankVersion, error) {
	version, err := s.repo.QuestionBank().LatestVersion(ctx)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNoVersion
		}
		return nil, fmt.Errorf("failed to get latest version: %w", err)
	}
	return version, nil
}

func (s *questionBankService) GetVersion(ctx context.Context, versionID string) (*models.QuestionBankVersion, error) {
	version, err := s.repo.QuestionBank().GetVersion(ctx, versionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrVersionNotFound
		}
		return nil, fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

func (s *questionBankService) ListVersions(ctx context.Context) ([]*models.QuestionBankVersion, error) {
	versions, err := s.repo.QuestionBank().ListVersions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	return versions, nil
}

func (s *questionBankService) ResolveVersion(ctx context.Context, versionID string) (*models.QuestionBankVersion, error) {
	if strings.TrimSpace(versionID) == "" {
		return s.LatestVersion(ctx)
	}
	return s.GetVersion(ctx, versionID)
}

func (s *questionBankService) Snapshot(ctx context.Context, versionID string) ([]*models.Question, error) {
	key := snapshotKeyPrefix + versionID

	var cached []*models.Question
	err := s.cache.Get(ctx, key, &cached)
	if err == nil && len(cached) > 0 {
		return cached, nil
	}
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Snapshot cache read failed", "version_id", versionID, "error", err)
	}

	questions, err := s.repo.QuestionBank().ListQuestions(ctx, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrVersionNotFound
	}

	if err := s.cache.Set(ctx, key, questions, s.cacheTTL); err != nil {
		s.logger.Warn("Snapshot cache write failed", "version_id", versionID, "error", err)
	}
	return questions, nil
}

// ComputeVersionID hashes the canonical JSON of the drafts sorted by id. The input order
// and the description never affect the result.
func ComputeVersionID(drafts []models.QuestionDraft) (string, error) {
	payload, err := json.Marshal(sortedDrafts(drafts))
	if err != nil {
		return "", fmt.Errorf("failed to encode drafts: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])[:versionIDLength], nil
}

func sortedDrafts(drafts []models.QuestionDraft) []models.QuestionDraft {
	sorted := slices.Clone(drafts)
	slices.SortFunc(sorted, func(a, b models.QuestionDraft) int {
		return strings.Compare(a.ID, b.ID)
	})
	return sorted
}
