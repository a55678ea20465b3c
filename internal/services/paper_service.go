package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/reproducible-assessment/internal/events"
	"github.com/SAP-F-2025/reproducible-assessment/internal/metrics"
	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/SAP-F-2025/reproducible-assessment/internal/repositories"
	"github.com/SAP-F-2025/reproducible-assessment/internal/validator"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type paperService struct {
	repo      repositories.Repository
	bank      QuestionBankService
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger
	opLogger  *ServiceLogger
}

func NewPaperService(
	repo repositories.Repository,
	bank QuestionBankService,
	publisher events.EventPublisher,
	validator *validator.Validator,
	logger *slog.Logger,
) PaperService {
	return &paperService{
		repo:      repo,
		bank:      bank,
		publisher: publisher,
		validator: validator,
		logger:    logger,
		opLogger:  NewServiceLogger(logger, "paper"),
	}
}

func (s *paperService) Create(ctx context.Context, req *CreatePaperRequest) (*PaperResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	switch req.Mode {
	case models.PaperModeEquivalent:
		return s.CreateEquivalent(ctx, req.StudentID, req.Params, req.Seed, req.VersionID)
	default:
		return s.CreateFixed(ctx, req.StudentID, req.QuestionIDs, req.VersionID)
	}
}

// CreateFixed builds a paper from questionIDs in the given order. An empty list selects the
// whole version in id order.
func (s *paperService) CreateFixed(ctx context.Context, studentID string, questionIDs []string, versionID string) (resp *PaperResponse, err error) {
	op := s.opLogger.WithOperation(ctx, "create_fixed")
	defer func() { op.LogResult("paper", paperIDOf(resp), err) }()

	version, err := s.bank.ResolveVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.bank.Snapshot(ctx, version.ID)
	if err != nil {
		return nil, err
	}
	byID := indexByID(snapshot)

	if len(questionIDs) == 0 {
		questionIDs = make([]string, 0, len(snapshot))
		for _, q := range snapshot {
			questionIDs = append(questionIDs, q.ID)
		}
	}

	var (
		errs    ValidationErrors
		unknown []string
		seen    = make(map[string]bool, len(questionIDs))
	)
	for i, id := range questionIDs {
		if seen[id] {
			errs = append(errs, *NewValidationError(fmt.Sprintf("question_ids[%d]", i), "duplicates an earlier question id", id))
			continue
		}
		seen[id] = true
		if _, ok := byID[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	if len(unknown) > 0 {
		return nil, &UnknownQuestionError{VersionID: version.ID, QuestionIDs: unknown}
	}

	paper := &models.Paper{
		ID:          uuid.NewString(),
		StudentID:   studentID,
		Mode:        models.PaperModeFixed,
		QuestionIDs: datatypes.JSONSlice[string](questionIDs),
		VersionID:   version.ID,
	}
	if err := s.persist(ctx, paper); err != nil {
		return nil, err
	}
	return buildPaperResponse(paper, byID), nil
}

// CreateEquivalent samples each quota from the version with one generator seeded from seed.
// The same (params, seed, version) always yields the same ordered question list.
func (s *paperService) CreateEquivalent(ctx context.Context, studentID string, params []models.TopicQuota, seed *int64, versionID string) (resp *PaperResponse, err error) {
	op := s.opLogger.WithOperation(ctx, "create_equivalent")
	defer func() { op.LogResult("paper", paperIDOf(resp), err) }()

	if errs := s.validateQuotas(params); len(errs) > 0 {
		return nil, errs
	}

	version, err := s.bank.ResolveVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.bank.Snapshot(ctx, version.ID)
	if err != nil {
		return nil, err
	}

	if seed == nil {
		generated, err := generateSeed()
		if err != nil {
			return nil, err
		}
		seed = &generated
		s.logger.Debug("Generated paper seed", "seed", generated)
	}

	selected, err := selectEquivalent(snapshot, params, *seed)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(selected))
	for _, q := range selected {
		ids = append(ids, q.ID)
	}

	seedValue := *seed
	paper := &models.Paper{
		ID:          uuid.NewString(),
		StudentID:   studentID,
		Mode:        models.PaperModeEquivalent,
		Seed:        &seedValue,
		Params:      datatypes.JSONSlice[models.TopicQuota](params),
		QuestionIDs: datatypes.JSONSlice[string](ids),
		VersionID:   version.ID,
	}
	if err := s.persist(ctx, paper); err != nil {
		return nil, err
	}
	return buildPaperResponse(paper, indexByID(snapshot)), nil
}

// selectEquivalent runs the quotas in order against a snapshot sorted by id.
func selectEquivalent(snapshot []*models.Question, params []models.TopicQuota, seed int64) ([]*models.Question, error) {
	rng := newSeededRand(uint64(seed))

	var selected []*models.Question
	for _, quota := range params {
		var pool []*models.Question
		for _, q := range snapshot {
			if q.Topic == quota.Topic && inRange(q, quota) {
				pool = append(pool, q)
			}
		}
		sortByID(pool)

		candidates := collapseGroups(rng, pool)
		if len(candidates) < quota.Count {
			return nil, &InsufficientQuestionsError{
				Topic:     quota.Topic,
				Requested: quota.Count,
				Available: len(candidates),
			}
		}
		selected = append(selected, sample(rng, candidates, quota.Count)...)
	}
	return selected, nil
}

func (s *paperService) validateQuotas(params []models.TopicQuota) ValidationErrors {
	var errs ValidationErrors
	if len(params) == 0 {
		return append(errs, *NewValidationError("params", "equivalent mode needs at least one topic quota", nil))
	}

	topics := make(map[string]bool, len(params))
	for i, quota := range params {
		field := fmt.Sprintf("params[%d]", i)
		if err := s.validator.Validate(quota); err != nil {
			if ve, ok := err.(ValidationErrors); ok {
				for _, e := range ve {
					e.Field = field + "." + e.Field
					errs = append(errs, e)
				}
			}
		}
		if quota.MaxDifficulty != 0 && quota.MaxDifficulty < quota.MinDifficulty {
			errs = append(errs, *NewValidationError(field+".max_difficulty", "must be greater than or equal to min_difficulty", quota.MaxDifficulty))
		}
		topic := strings.TrimSpace(quota.Topic)
		if topic != "" && topics[topic] {
			errs = append(errs, *NewValidationError(field+".topic", "duplicates an earlier topic", quota.Topic))
		}
		topics[topic] = true
	}
	return errs
}

func (s *paperService) persist(ctx context.Context, paper *models.Paper) error {
	if err := s.repo.Paper().Create(ctx, paper); err != nil {
		return fmt.Errorf("failed to create paper: %w", err)
	}

	metrics.PapersCreated.WithLabelValues(string(paper.Mode)).Inc()
	events.PublishBestEffort(ctx, s.publisher, s.logger, events.NewEvent(events.EventPaperCreated, events.PaperCreatedEvent{
		PaperID:       paper.ID,
		StudentID:     paper.StudentID,
		Mode:          string(paper.Mode),
		Seed:          paper.Seed,
		VersionID:     paper.VersionID,
		QuestionCount: len(paper.QuestionIDs),
	}))

	s.logger.Info("Paper created", "paper_id", paper.ID, "mode", paper.Mode, "version_id", paper.VersionID, "questions", len(paper.QuestionIDs))
	return nil
}

func (s *paperService) GetPaper(ctx context.Context, paperID string) (*PaperResponse, error) {
	paper, err := s.repo.Paper().GetByID(ctx, paperID)
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
	return buildPaperResponse(paper, indexByID(snapshot)), nil
}

func buildPaperResponse(paper *models.Paper, byID map[string]*models.Question) *PaperResponse {
	views := make([]models.QuestionView, 0, len(paper.QuestionIDs))
	for _, id := range paper.QuestionIDs {
		if q, ok := byID[id]; ok {
			views = append(views, q.View())
		}
	}
	return &PaperResponse{
		PaperID:             paper.ID,
		StudentID:           paper.StudentID,
		Mode:                paper.Mode,
		Seed:                paper.Seed,
		Params:              paper.Params,
		QuestionBankVersion: paper.VersionID,
		Questions:           views,
		CreatedAt:           paper.CreatedAt,
	}
}

func indexByID(questions []*models.Question) map[string]*models.Question {
	byID := make(map[string]*models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	return byID
}

func paperIDOf(resp *PaperResponse) string {
	if resp == nil {
		return ""
	}
	return resp.PaperID
}
