package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/SAP-F-2025/reproducible-assessment/internal/repositories"
	"gorm.io/gorm"
)

type PracticePostgreSQL struct {
	db *gorm.DB
}

func NewPracticePostgreSQL(db *gorm.DB) repositories.PracticeRepository {
	return &PracticePostgreSQL{db: db}
}

func (p *PracticePostgreSQL) Create(ctx context.Context, session *models.PracticeSession) error {
	return p.db.WithContext(ctx).Create(session).Error
}

func (p *PracticePostgreSQL) GetByID(ctx context.Context, id string) (*models.PracticeSession, error) {
	var session models.PracticeSession
	if err := p.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		return nil, translateError(err)
	}
	return &session, nil
}

func (p *PracticePostgreSQL) SubmitAnswer(ctx context.Context, id, answer string, isCorrect bool, at time.Time) (bool, error) {
	res := p.db.WithContext(ctx).
		Model(&models.PracticeSession{}).
		Where("id = ? AND submitted_at IS NULL", id).
		Updates(map[string]interface{}{
			"student_answer": answer,
			"is_correct":     isCorrect,
			"submitted_at":   at,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to record practice answer: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	if _, err := p.GetByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}
