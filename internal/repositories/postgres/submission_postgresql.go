package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/SAP-F-2025/reproducible-assessment/internal/repositories"
	"gorm.io/gorm"
)

type SubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{db: db}
}

// Create stores the submission row and every item in one transaction.
func (s *SubmissionPostgreSQL) Create(ctx context.Context, submission *models.Submission) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(submission).Error; err != nil {
			return fmt.Errorf("failed to create submission: %w", err)
		}
		return nil
	})
}

func (s *SubmissionPostgreSQL) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	var submission models.Submission
	if err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("id = ?", id).
		First(&submission).Error; err != nil {
		return nil, translateError(err)
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) List(ctx context.Context, filters repositories.SubmissionFilters) ([]*models.Submission, error) {
	query := s.db.WithContext(ctx).Model(&models.Submission{})
	if filters.PaperID != "" {
		query = query.Where("paper_id = ?", filters.PaperID)
	}
	if filters.StudentID != "" {
		query = query.Where("student_id = ?", filters.StudentID)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var submissions []*models.Submission
	if err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("submitted_at").
		Order("id").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (s *SubmissionPostgreSQL) GetItem(ctx context.Context, itemID uint) (*models.SubmissionItem, error) {
	var item models.SubmissionItem
	if err := s.db.WithContext(ctx).First(&item, itemID).Error; err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

func (s *SubmissionPostgreSQL) SetAnalysis(ctx context.Context, itemID uint, analysis *models.ItemAnalysis) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.SubmissionItem{}).
		Where("id = ? AND is_correct = ? AND hint_level IS NULL", itemID, false).
		Updates(analysisColumns(analysis))
	return s.conditionalResult(ctx, itemID, res)
}

func (s *SubmissionPostgreSQL) EscalateAnalysis(ctx context.Context, itemID uint, analysis *models.ItemAnalysis) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.SubmissionItem{}).
		Where("id = ? AND is_correct = ? AND hint_level < ?", itemID, false, analysis.HintLevel).
		Updates(analysisColumns(analysis))
	return s.conditionalResult(ctx, itemID, res)
}

// conditionalResult distinguishes "condition did not hold" from "item does not exist".
func (s *SubmissionPostgreSQL) conditionalResult(ctx context.Context, itemID uint, res *gorm.DB) (bool, error) {
	if res.Error != nil {
		return false, fmt.Errorf("failed to update submission item analysis: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	if _, err := s.GetItem(ctx, itemID); err != nil {
		return false, err
	}
	return false, nil
}

func analysisColumns(a *models.ItemAnalysis) map[string]interface{} {
	var item models.SubmissionItem
	item.Apply(a)
	return map[string]interface{}{
		"error_type":       item.ErrorType,
		"hint_level":       item.HintLevel,
		"hint_text":        item.HintText,
		"explanation_text": item.ExplanationText,
		"knowledge_points": item.KnowledgePoints,
		"analysis_source":  item.AnalysisSource,
		"analysis_payload": item.AnalysisPayload,
		"analyzed_at":      item.AnalyzedAt,
	}
}
