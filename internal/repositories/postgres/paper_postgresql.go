package postgres

import (
	"context"

	"github.com/SAP-F-2025/reproducible-assessment/internal/models"
	"github.com/SAP-F-2025/reproducible-assessment/internal/repositories"
	"gorm.io/gorm"
)

type PaperPostgreSQL struct {
	db *gorm.DB
}

func NewPaperPostgreSQL(db *gorm.DB) repositories.PaperRepository {
	return &PaperPostgreSQL{db: db}
}

func (p *PaperPostgreSQL) Create(ctx context.Context, paper *models.Paper) error {
	return p.db.WithContext(ctx).Create(paper).Error
}

func (p *PaperPostgreSQL) GetByID(ctx context.Context, id string) (*models.Paper, error) {
	var paper models.Paper
	if err := p.db.WithContext(ctx).Where("id = ?", id).First(&paper).Error; err != nil {
		return nil, translateError(err)
	}
	return &paper, nil
}
