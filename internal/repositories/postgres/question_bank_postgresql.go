package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/SAP-F-2025/reproducible-assessment/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const questionBatchSize = 200

type QuestionBankPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionBankPostgreSQL(db *gorm.DB) repositories.QuestionBankRepository {
	return &QuestionBankPostgreSQL{db: db}
}

// CreateVersion inserts the version row and its questions in one transaction. A concurrent
// freeze of the same content loses the insert race and reports created=false.
func (q *QuestionBankPostgreSQL) CreateVersion(ctx context.Context, version *models.QuestionBankVersion, questions []*models.Question) (bool, error) {
	created := false
	err := q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(version)
		if res.Error != nil {
			return fmt.Errorf("failed to create version: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if len(questions) > 0 {
			if err := tx.CreateInBatches(questions, questionBatchSize).Error; err != nil {
				return fmt.Errorf("failed to create questions: %w", err)
			}
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (q *QuestionBankPostgreSQL) GetVersion(ctx context.Context, id string) (*models.QuestionBankVersion, error) {
	var version models.QuestionBankVersion
	if err := q.db.WithContext(ctx).Where("id = ?", id).First(&version).Error; err != nil {
		return nil, translateError(err)
	}
	return &version, nil
}

func (q *QuestionBankPostgreSQL) LatestVersion(ctx context.Context) (*models.QuestionBankVersion, error) {
	var version models.QuestionBankVersion
	if err := q.db.WithContext(ctx).Order("frozen_at DESC").Order("id DESC").First(&version).Error; err != nil {
		return nil, translateError(err)
	}
	return &version, nil
}

func (q *QuestionBankPostgreSQL) ListVersions(ctx context.Context) ([]*models.QuestionBankVersion, error) {
	var versions []*models.QuestionBankVersion
	if err := q.db.WithContext(ctx).Order("frozen_at DESC").Order("id DESC").Find(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

func (q *QuestionBankPostgreSQL) ListQuestions(ctx context.Context, versionID string) ([]*models.Question, error) {
	var questions []*models.Question
	if err := q.db.WithContext(ctx).
		Where("version_id = ?", versionID).
		Order("id").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *QuestionBankPostgreSQL) GetQuestion(ctx context.Context, versionID, questionID string) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).
		Where("version_id = ? AND id = ?", versionID, questionID).
		First(&question).Error; err != nil {
		return nil, translateError(err)
	}
	return &question, nil
}

func (q *QuestionBankPostgreSQL) GetQuestions(ctx context.Context, versionID string, ids []string) ([]*models.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var questions []*models.Question
	if err := q.db.WithContext(ctx).
		Where("version_id = ? AND id IN ?", versionID, ids).
		Order("id").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *QuestionBankPostgreSQL) ListGroupMembers(ctx context.Context, versionID, group string) ([]*models.Question, error) {
	var questions []*models.Question
	if err := q.db.WithContext(ctx).
		Where("version_id = ? AND isomorphic_group = ?", versionID, group).
		Order("id").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}
